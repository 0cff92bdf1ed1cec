package domain

import "time"

// TurbineRecord is one physical turbine after normalization.
type TurbineRecord struct {
	ID                string  `json:"id"`
	ProjectName       string  `json:"project_name"`
	CommissioningDate string  `json:"commissioning_date,omitempty"`
	Year              *int    `json:"year"`
	CapacityProject   float64 `json:"capacity_project"` // MW
	CapacityTurbine   float64 `json:"capacity_turbine"` // kW
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
}

// ProjectRecord summarizes all turbines sharing a project name.
type ProjectRecord struct {
	ProjectName     string  `json:"project_name"`
	Year            *int    `json:"year"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	CapacityProject float64 `json:"capacity_project"` // MW
	Turbines        int     `json:"turbines"`
}

// YearlyCapacityPoint is the capacity added in one year and the running total.
type YearlyCapacityPoint struct {
	Year        int     `json:"year"`
	Capacity    float64 `json:"capacity"`
	CapacityCum float64 `json:"capacity_cum"`
}

// Summary bundles the aggregated tables handed to summary sinks.
type Summary struct {
	Projects      []ProjectRecord       `json:"projects"`
	Trend         []YearlyCapacityPoint `json:"trend"`
	TotalCapacity float64               `json:"total_capacity"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// Summarize stamps the aggregated tables with the current time.
func Summarize(projects []ProjectRecord, trend []YearlyCapacityPoint) Summary {
	var total float64
	if len(trend) > 0 {
		total = trend[len(trend)-1].CapacityCum
	}
	return Summary{
		Projects:      projects,
		Trend:         trend,
		TotalCapacity: total,
		GeneratedAt:   clock.Now().UTC(),
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
