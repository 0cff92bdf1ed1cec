package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnimationConfig(t *testing.T) {
	cfg := DefaultAnimationConfig()
	assert.Equal(t, 100, cfg.Frames)
	assert.Equal(t, 25*time.Second, cfg.Duration)
	assert.Equal(t, 10, cfg.StartPause)
	assert.Equal(t, 15, cfg.EndPause)
	assert.Equal(t, 1992, cfg.YearFrom)
	assert.Equal(t, 2020, cfg.YearTo)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
	assert.Equal(t, 250*time.Millisecond, cfg.FrameDelay())
}

func TestTimeline(t *testing.T) {
	cfg := DefaultAnimationConfig()
	years := cfg.Timeline()
	require.Len(t, years, cfg.Frames)

	for i := 0; i < cfg.StartPause; i++ {
		assert.Equal(t, 1992.0, years[i], "start pause frame %d", i)
	}
	for i := cfg.Frames - cfg.EndPause; i < cfg.Frames; i++ {
		assert.Equal(t, 2020.0, years[i], "end pause frame %d", i)
	}
	for i := 1; i < len(years); i++ {
		assert.GreaterOrEqual(t, years[i], years[i-1])
	}
	assert.InDelta(t, 2020.0, years[cfg.Frames-cfg.EndPause-1], 1e-9, "last moving frame reaches the end year")
}

func TestTimeline_Degenerate(t *testing.T) {
	cfg := DefaultAnimationConfig()
	cfg.Frames = 3
	cfg.StartPause = 1
	cfg.EndPause = 1
	assert.Equal(t, []float64{1992, 2020, 2020}, cfg.Timeline())

	cfg.Frames = 0
	assert.Empty(t, cfg.Timeline())
	assert.Zero(t, cfg.FrameDelay())
}

func TestPointRadius(t *testing.T) {
	cfg := DefaultAnimationConfig()

	tests := []struct {
		name     string
		capacity float64
		expected float64
	}{
		{"below domain clamps to min", 5, 1},
		{"domain min", 100, 1},
		{"domain max", 300, 12},
		{"above domain clamps to max", 1000, 12},
		{"midpoint is area proportional", 200, 1 + 11*0.7071067811865476},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cfg.PointRadius(tt.capacity), 1e-9)
		})
	}

	prev := cfg.PointRadius(0)
	for c := 10.0; c <= 400; c += 10 {
		r := cfg.PointRadius(c)
		assert.GreaterOrEqual(t, r, prev, "monotone at %v", c)
		prev = r
	}
}

func TestRevealTrend(t *testing.T) {
	trend := []YearlyCapacityPoint{
		{Year: 2000, Capacity: 10, CapacityCum: 10},
		{Year: 2002, Capacity: 30, CapacityCum: 40},
		{Year: 2004, Capacity: 20, CapacityCum: 60},
	}

	t.Run("before first point", func(t *testing.T) {
		assert.Empty(t, RevealTrend(trend, 1999))
	})

	t.Run("between points interpolates head", func(t *testing.T) {
		got := RevealTrend(trend, 2001)
		assert.Equal(t, []TrendSample{
			{Year: 2000, CapacityCum: 10},
			{Year: 2001, CapacityCum: 25},
		}, got)
	})

	t.Run("on a point adds no head", func(t *testing.T) {
		got := RevealTrend(trend, 2002)
		assert.Equal(t, []TrendSample{
			{Year: 2000, CapacityCum: 10},
			{Year: 2002, CapacityCum: 40},
		}, got)
	})

	t.Run("after last point", func(t *testing.T) {
		assert.Len(t, RevealTrend(trend, 2020), 3)
	})

	t.Run("empty trend", func(t *testing.T) {
		assert.Empty(t, RevealTrend(nil, 2010))
	})
}

func TestRevealProjects(t *testing.T) {
	projects := []ProjectRecord{
		{ProjectName: "a", Year: IntPtr(1993)},
		{ProjectName: "b", Year: IntPtr(2005)},
		{ProjectName: "c"},
	}

	assert.Empty(t, RevealProjects(projects, 1992))
	assert.Len(t, RevealProjects(projects, 1993), 1)
	assert.Len(t, RevealProjects(projects, 2004.9), 1)
	assert.Len(t, RevealProjects(projects, 2020), 2)
}
