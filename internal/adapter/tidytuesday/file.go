package tidytuesday

import (
	"context"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// FileSource serves a release from a local CSV, ignoring the key.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(_ context.Context, _ domain.DatasetKey) (dataframe.DataFrame, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	defer f.Close()
	return ParseCSV(f)
}
