package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTurbines() []TurbineRecord {
	return []TurbineRecord{
		{ID: "1", ProjectName: "A", Year: IntPtr(2001), CapacityProject: 10, Lat: 50, Lon: -100},
		{ID: "2", ProjectName: "A", Year: IntPtr(2001), CapacityProject: 10, Lat: 52, Lon: -102},
		{ID: "3", ProjectName: "B", Year: IntPtr(2002), CapacityProject: 30, Lat: 45, Lon: -90},
	}
}

func TestAggregate_Scenario(t *testing.T) {
	projects, err := Aggregate(scenarioTurbines())
	require.NoError(t, err)

	want := []ProjectRecord{
		{ProjectName: "A", Year: IntPtr(2001), Lat: 51, Lon: -101, CapacityProject: 10, Turbines: 2},
		{ProjectName: "B", Year: IntPtr(2002), Lat: 45, Lon: -90, CapacityProject: 30, Turbines: 1},
	}
	if diff := cmp.Diff(want, projects, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("projects mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_Empty(t *testing.T) {
	projects, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestAggregate_MeanAndMax(t *testing.T) {
	turbines := []TurbineRecord{
		{ID: "1", ProjectName: "Farm", Year: IntPtr(2010), CapacityProject: 99, Lat: 43.1, Lon: -81.2},
		{ID: "2", ProjectName: "Farm", Year: IntPtr(2008), CapacityProject: 100.5, Lat: 43.4, Lon: -81.9},
		{ID: "3", ProjectName: "Farm", CapacityProject: 100, Lat: 43.7, Lon: -81.5},
	}

	projects, err := Aggregate(turbines)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.InDelta(t, (43.1+43.4+43.7)/3, p.Lat, 1e-9)
	assert.InDelta(t, (-81.2-81.9-81.5)/3, p.Lon, 1e-9)
	assert.InDelta(t, 100.5, p.CapacityProject, 1e-9)
	require.NotNil(t, p.Year)
	assert.Equal(t, 2008, *p.Year, "min over members with a year")
	assert.Equal(t, 3, p.Turbines)
}

func TestAggregate_GroupsCaseSensitive(t *testing.T) {
	projects, err := Aggregate([]TurbineRecord{
		{ID: "1", ProjectName: "Erie Shores", Year: IntPtr(2006)},
		{ID: "2", ProjectName: "erie shores", Year: IntPtr(2006)},
	})
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestAggregate_Ordering(t *testing.T) {
	projects, err := Aggregate([]TurbineRecord{
		{ID: "1", ProjectName: "Zephyr", Year: IntPtr(2004)},
		{ID: "2", ProjectName: "Unknown Farm"},
		{ID: "3", ProjectName: "Alpha", Year: IntPtr(2004)},
		{ID: "4", ProjectName: "Early", Year: IntPtr(1993)},
	})
	require.NoError(t, err)

	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.ProjectName
	}
	assert.Equal(t, []string{"Early", "Alpha", "Zephyr", "Unknown Farm"}, names)
	assert.Nil(t, projects[3].Year)
}

func TestSummarizeProject_NoMembers(t *testing.T) {
	_, err := summarizeProject("ghost", nil)
	require.ErrorIs(t, err, ErrEmptyGroup)
	assert.Contains(t, err.Error(), "ghost")
}
