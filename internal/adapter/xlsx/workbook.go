// Package xlsx exports the aggregated tables as an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// Sheet names.
const (
	ProjectsSheet = "Projects"
	TrendSheet    = "Trend"
)

var (
	projectsHeader = []interface{}{"name", "year", "lat", "lon", "capacity_mw", "turbines"}
	trendHeader    = []interface{}{"year", "capacity_mw", "capacity_cum_mw"}
)

// Workbook writes the project and trend tables to an .xlsx file.
// It implements pipeline.SummarySink.
type Workbook struct {
	path   string
	logger *slog.Logger
}

// NewWorkbook creates a sink writing to path.
func NewWorkbook(path string, logger *slog.Logger) *Workbook {
	return &Workbook{path: path, logger: logger}
}

func (w *Workbook) Name() string {
	return "xlsx"
}

// WriteSummary replaces the workbook at the configured path.
func (w *Workbook) WriteSummary(_ context.Context, summary domain.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ProjectsSheet); err != nil {
		return w.fail(err)
	}
	if _, err := f.NewSheet(TrendSheet); err != nil {
		return w.fail(err)
	}

	projects := make([][]interface{}, 0, len(summary.Projects)+1)
	projects = append(projects, projectsHeader)
	for _, p := range summary.Projects {
		var year interface{}
		if p.Year != nil {
			year = *p.Year
		}
		projects = append(projects, []interface{}{p.ProjectName, year, p.Lat, p.Lon, p.CapacityProject, p.Turbines})
	}
	if err := writeRows(f, ProjectsSheet, projects); err != nil {
		return w.fail(err)
	}

	trend := make([][]interface{}, 0, len(summary.Trend)+1)
	trend = append(trend, trendHeader)
	for _, pt := range summary.Trend {
		trend = append(trend, []interface{}{pt.Year, pt.Capacity, pt.CapacityCum})
	}
	if err := writeRows(f, TrendSheet, trend); err != nil {
		return w.fail(err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return w.fail(err)
	}
	w.logger.Info("workbook written", "path", w.path, "projects", len(summary.Projects), "years", len(summary.Trend))
	return nil
}

func (w *Workbook) fail(err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrOutputWriteFailed, w.path, err)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
