package tidytuesday

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// ParseCSV reads a release CSV into a table of string columns. Type detection
// is disabled so identifiers and year ranges keep their original text.
// A header without rows yields a zero-row table that keeps the column names,
// and an empty file yields a table with no columns.
func ParseCSV(r io.Reader) (dataframe.DataFrame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: read csv: %w", domain.ErrDataUnavailable, err)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, nil
	}

	header := rows[0]
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: row %d has %d fields, want %d",
				domain.ErrSchemaMismatch, i+1, len(row), len(header))
		}
	}

	if len(rows) == 1 {
		return headerOnly(header), nil
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: load table: %w", domain.ErrDataUnavailable, df.Err)
	}
	return df, nil
}

func headerOnly(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}
