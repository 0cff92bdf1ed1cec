package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Aggregate groups turbines by exact project name. Each project takes the mean
// coordinates, the max reported capacity and the earliest set year of its
// turbines. Output is ordered by (year, project name) with unset years last.
// Empty input yields an empty result.
func Aggregate(records []TurbineRecord) ([]ProjectRecord, error) {
	if len(records) == 0 {
		return []ProjectRecord{}, nil
	}

	// Preserve first-seen order so ties in the final sort stay deterministic.
	groups := make(map[string][]TurbineRecord)
	order := make([]string, 0)
	for _, rec := range records {
		if _, ok := groups[rec.ProjectName]; !ok {
			order = append(order, rec.ProjectName)
		}
		groups[rec.ProjectName] = append(groups[rec.ProjectName], rec)
	}

	projects := make([]ProjectRecord, 0, len(order))
	for _, name := range order {
		p, err := summarizeProject(name, groups[name])
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	slices.SortStableFunc(projects, func(a, b ProjectRecord) int {
		if c := compareYears(a.Year, b.Year); c != 0 {
			return c
		}
		return strings.Compare(a.ProjectName, b.ProjectName)
	})
	return projects, nil
}

func summarizeProject(name string, members []TurbineRecord) (ProjectRecord, error) {
	if len(members) == 0 {
		return ProjectRecord{}, fmt.Errorf("%w: project %q", ErrEmptyGroup, name)
	}

	var latSum, lonSum float64
	capacity := members[0].CapacityProject
	var year *int
	for _, m := range members {
		latSum += m.Lat
		lonSum += m.Lon
		capacity = max(capacity, m.CapacityProject)
		if m.Year != nil && (year == nil || *m.Year < *year) {
			year = IntPtr(*m.Year)
		}
	}

	n := float64(len(members))
	return ProjectRecord{
		ProjectName:     name,
		Year:            year,
		Lat:             latSum / n,
		Lon:             lonSum / n,
		CapacityProject: capacity,
		Turbines:        len(members),
	}, nil
}
