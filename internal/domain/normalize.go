package domain

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Raw column names in the published CSV.
const (
	ColObjectID          = "objectid"
	ColProjectName       = "project_name"
	ColCommissioningDate = "commissioning_date"
	ColProjectCapacity   = "total_project_capacity_mw"
	ColTurbineCapacity   = "turbine_rated_capacity_k_w"
	ColLatitude          = "latitude"
	ColLongitude         = "longitude"
)

// RawColumns lists the columns a raw table must carry, in projection order.
var RawColumns = []string{
	ColObjectID,
	ColProjectName,
	ColCommissioningDate,
	ColProjectCapacity,
	ColTurbineCapacity,
	ColLatitude,
	ColLongitude,
}

// columnRenames maps raw column names onto TurbineRecord field names.
var columnRenames = map[string]string{
	ColObjectID:          "id",
	ColProjectName:       "project_name",
	ColCommissioningDate: "year",
	ColProjectCapacity:   "capacity_project",
	ColTurbineCapacity:   "capacity_turbine",
	ColLatitude:          "lat",
	ColLongitude:         "lon",
}

// Correction overrides fields of a single known-bad record.
type Correction struct {
	ID          string
	ProjectName string
}

// Corrections lists hand-verified fixes to upstream records, matched by exact id.
var Corrections = []Correction{
	{ID: "1451", ProjectName: "Newfoundland Project"},
}

// yearTokenRe matches the first run of digits in a commissioning date.
var yearTokenRe = regexp.MustCompile(`\d+`)

// NormalizeTable projects, renames, parses, corrects and orders a raw table.
// A table with no columns at all is an empty release and yields no records.
// Any table with columns must carry every RawColumns entry, even with no rows.
func NormalizeTable(df dataframe.DataFrame) ([]TurbineRecord, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, df.Err)
	}
	if df.Ncol() == 0 {
		return []TurbineRecord{}, nil
	}
	if missing := missingColumns(df.Names()); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	if df.Nrow() == 0 {
		return []TurbineRecord{}, nil
	}

	df = df.Select(RawColumns)
	for _, raw := range RawColumns {
		if to := columnRenames[raw]; to != raw {
			df = df.Rename(to, raw)
		}
	}
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, df.Err)
	}

	ids := df.Col("id")
	names := df.Col("project_name")
	dates := df.Col("year")
	projectCaps := df.Col("capacity_project")
	turbineCaps := df.Col("capacity_turbine")
	lats := df.Col("lat")
	lons := df.Col("lon")

	records := make([]TurbineRecord, df.Nrow())
	for i := range records {
		date := cell(dates, i)
		records[i] = TurbineRecord{
			ID:                cell(ids, i),
			ProjectName:       cell(names, i),
			CommissioningDate: date,
			Year:              ParseYear(date),
			CapacityProject:   parseFloatOrZero(cell(projectCaps, i)),
			CapacityTurbine:   parseFloatOrZero(cell(turbineCaps, i)),
			Lat:               parseFloatOrZero(cell(lats, i)),
			Lon:               parseFloatOrZero(cell(lons, i)),
		}
	}

	return NormalizeRecords(records), nil
}

// NormalizeRecords applies Corrections and sorts by (year, id) with unset
// years last. It is idempotent and returns a new slice.
func NormalizeRecords(records []TurbineRecord) []TurbineRecord {
	out := make([]TurbineRecord, len(records))
	copy(out, records)
	for i := range out {
		out[i] = applyCorrections(out[i])
	}
	slices.SortStableFunc(out, func(a, b TurbineRecord) int {
		if c := compareYears(a.Year, b.Year); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out
}

// ParseYear extracts the first numeric token of a commissioning date.
// Returns nil when the text has no digits.
func ParseYear(text string) *int {
	tok := yearTokenRe.FindString(text)
	if tok == "" {
		return nil
	}
	year, err := strconv.Atoi(tok)
	if err != nil {
		return nil
	}
	return &year
}

func applyCorrections(rec TurbineRecord) TurbineRecord {
	for _, c := range Corrections {
		if rec.ID == c.ID {
			rec.ProjectName = c.ProjectName
		}
	}
	return rec
}

func missingColumns(names []string) []string {
	var missing []string
	for _, col := range RawColumns {
		if !slices.Contains(names, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// cell returns the trimmed text of row i, or "" for NA values.
func cell(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return strings.TrimSpace(e.String())
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// compareYears orders set years ascending and unset years last.
func compareYears(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}

// compareIDs compares numerically when both ids are integers, else as text.
func compareIDs(a, b string) int {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(a, b)
}
