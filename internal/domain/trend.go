package domain

import "slices"

// BuildTrend sums project capacity by start year and accumulates it in
// ascending year order. Projects without a year are excluded.
func BuildTrend(projects []ProjectRecord) []YearlyCapacityPoint {
	byYear := make(map[int]float64)
	for _, p := range projects {
		if p.Year == nil {
			continue
		}
		byYear[*p.Year] += p.CapacityProject
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)

	points := make([]YearlyCapacityPoint, 0, len(years))
	var cum float64
	for _, y := range years {
		cum += byYear[y]
		points = append(points, YearlyCapacityPoint{
			Year:        y,
			Capacity:    byYear[y],
			CapacityCum: cum,
		})
	}
	return points
}
