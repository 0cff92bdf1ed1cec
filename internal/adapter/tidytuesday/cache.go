package tidytuesday

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// CachedSource wraps a DatasetSource with an on-disk CSV cache keyed by release.
type CachedSource struct {
	inner  domain.DatasetSource
	dir    string
	logger *slog.Logger
}

// NewCachedSource creates a cache decorator storing releases under dir.
func NewCachedSource(inner domain.DatasetSource, dir string, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		dir:    dir,
		logger: logger,
	}
}

func (c *CachedSource) Fetch(ctx context.Context, key domain.DatasetKey) (dataframe.DataFrame, error) {
	path := c.Path(key)

	df, err := readCached(path)
	switch {
	case err == nil:
		c.logger.Info("dataset cache hit", "path", path, "rows", df.Nrow())
		return df, nil
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Debug("dataset cache miss", "path", path)
	default:
		c.logger.Warn("dataset cache unreadable, refetching", "path", path, "error", err)
	}

	df, err = c.inner.Fetch(ctx, key)
	if err != nil {
		return df, err
	}
	// Only cache non-empty tables so an empty upstream response can be retried.
	if df.Nrow() > 0 {
		if err := writeCached(path, df); err != nil {
			c.logger.Warn("dataset cache write failed", "path", path, "error", err)
		}
	}
	return df, nil
}

// Path returns the cache file used for key.
func (c *CachedSource) Path(key domain.DatasetKey) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s-%d-w%02d.csv", key.Name, key.Year, key.Week))
}

func readCached(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()
	return ParseCSV(f)
}

func writeCached(path string, df dataframe.DataFrame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*.csv")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	if err := df.WriteCSV(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
