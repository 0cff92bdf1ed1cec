package domain

import (
	"context"

	"github.com/go-gota/gota/dataframe"
)

// DatasetKey identifies one weekly TidyTuesday release.
type DatasetKey struct {
	Name string
	Year int
	Week int
}

// DefaultDatasetKey is the wind turbine release of 2020 week 44.
var DefaultDatasetKey = DatasetKey{Name: "wind-turbine", Year: 2020, Week: 44}

// DatasetSource loads a raw dataset release as a table of string columns.
type DatasetSource interface {
	// Fetch returns the raw table or an error wrapping ErrDataUnavailable.
	Fetch(ctx context.Context, key DatasetKey) (dataframe.DataFrame, error)
}
