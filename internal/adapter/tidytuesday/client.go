package tidytuesday

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// Client implements domain.DatasetSource over the TidyTuesday raw file tree.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a dataset client rooted at baseURL, e.g.
// https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Fetch downloads and parses the release CSV for key.
func (c *Client) Fetch(ctx context.Context, key domain.DatasetKey) (dataframe.DataFrame, error) {
	u := c.URL(key)
	c.logger.Info("fetching dataset", "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: create request: %w", domain.ErrDataUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: dataset request: %w", domain.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return dataframe.DataFrame{}, fmt.Errorf("%w: status %d: %s", domain.ErrDataUnavailable, resp.StatusCode, body)
	}

	return ParseCSV(resp.Body)
}

// URL returns the download location of the release CSV.
func (c *Client) URL(key domain.DatasetKey) string {
	date := ReleaseDate(key.Year, key.Week)
	return fmt.Sprintf("%s/%d/%s/%s.csv", c.baseURL, key.Year, date.Format(time.DateOnly), key.Name)
}

// ReleaseDate returns the Tuesday of ISO week `week` in `year`, the day
// TidyTuesday publishes its release.
func ReleaseDate(year, week int) time.Time {
	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)
	return monday.AddDate(0, 0, 1)
}
