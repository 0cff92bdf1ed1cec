package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

func scenarioRecords() []domain.TurbineRecord {
	return domain.NormalizeRecords([]domain.TurbineRecord{
		{ID: "1", ProjectName: "A", Year: domain.IntPtr(2001), CapacityProject: 10, Lat: 50, Lon: -100},
		{ID: "2", ProjectName: "A", Year: domain.IntPtr(2001), CapacityProject: 10, Lat: 52, Lon: -102},
		{ID: "3", ProjectName: "B", Year: domain.IntPtr(2002), CapacityProject: 30, Lat: 45, Lon: -90},
		{ID: "1451", ProjectName: "", Year: domain.IntPtr(2001), CapacityProject: 0.39, Lat: 47, Lon: -53},
	})
}

func TestPhases_PassOnDomainOutput(t *testing.T) {
	records := scenarioRecords()
	projects, err := domain.Aggregate(records)
	require.NoError(t, err)
	trend := domain.BuildTrend(projects)

	for _, p := range []*phase{
		validateCorrections(records),
		validateAggregation(records, projects),
		validateTrend(projects, trend),
		validateIdempotence(records),
		validateTimeline(domain.DefaultAnimationConfig()),
	} {
		assert.True(t, p.passed(), "%s: %v", p.name, p.errors)
	}
}

func TestValidateCorrections_Fails(t *testing.T) {
	p := validateCorrections([]domain.TurbineRecord{{ID: "1451", ProjectName: "Unknown"}})
	assert.False(t, p.passed())
}

func TestValidateAggregation_Fails(t *testing.T) {
	records := scenarioRecords()
	projects, err := domain.Aggregate(records)
	require.NoError(t, err)
	projects[0].Lat += 1

	p := validateAggregation(records, projects)
	require.Len(t, p.errors, 1)
	assert.Contains(t, p.errors[0], "centroid")
}

func TestValidateTrend_Fails(t *testing.T) {
	projects := []domain.ProjectRecord{{ProjectName: "A", Year: domain.IntPtr(2001), CapacityProject: 10}}
	trend := []domain.YearlyCapacityPoint{
		{Year: 2001, Capacity: 10, CapacityCum: 10},
		{Year: 2000, Capacity: 0, CapacityCum: 5},
	}

	p := validateTrend(projects, trend)
	assert.Len(t, p.errors, 3, "order, monotonicity and final sum")
}

func TestValidateTimeline_Fails(t *testing.T) {
	cfg := domain.DefaultAnimationConfig()
	cfg.StartPause = 200
	assert.False(t, validateTimeline(cfg).passed())
}

func TestValidateFixtures(t *testing.T) {
	records := scenarioRecords()
	projects, err := domain.Aggregate(records)
	require.NoError(t, err)
	trend := domain.BuildTrend(projects)

	dir := t.TempDir()
	projectsPath := filepath.Join(dir, "projects.json")
	trendPath := filepath.Join(dir, "trend.json")
	writeFixture(t, projectsPath, projects)
	writeFixture(t, trendPath, trend[:1])

	p, err := validateFixtures(projectsPath, trendPath, projects, trend)
	require.NoError(t, err)
	require.Len(t, p.errors, 1)
	assert.Contains(t, p.errors[0], "trend differs")

	_, err = validateFixtures(filepath.Join(dir, "missing.json"), "", projects, trend)
	require.Error(t, err)
}

func writeFixture(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}
