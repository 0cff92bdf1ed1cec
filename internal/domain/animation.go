package domain

import (
	"math"
	"slices"
	"time"
)

// AnimationConfig controls both rendered animations. The line chart and the
// map must share one config so their frames pair up index by index.
type AnimationConfig struct {
	Frames     int           `validate:"gt=0"`
	Duration   time.Duration `validate:"gt=0"`
	StartPause int           `validate:"gte=0"`
	EndPause   int           `validate:"gte=0"`
	YearFrom   int           `validate:"gt=0"`
	YearTo     int           `validate:"gtfield=YearFrom"`
	Width      int           `validate:"gt=0"`
	Height     int           `validate:"gt=0"`
	SizeBreaks []float64     `validate:"min=2"`
	SizeRange  [2]float64
}

// DefaultAnimationConfig returns the published animation settings.
func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		Frames:     100,
		Duration:   25 * time.Second,
		StartPause: 10,
		EndPause:   15,
		YearFrom:   1992,
		YearTo:     2020,
		Width:      400,
		Height:     400,
		SizeBreaks: []float64{100, 200, 300},
		SizeRange:  [2]float64{1, 12},
	}
}

// Geographic extent of the map background (Canada), in degrees.
const (
	MapLonMin = -141.0
	MapLonMax = -52.0
	MapLatMin = 41.0
	MapLatMax = 84.0
)

// FrameDelay is the display time of a single frame.
func (c AnimationConfig) FrameDelay() time.Duration {
	if c.Frames <= 0 {
		return 0
	}
	return c.Duration / time.Duration(c.Frames)
}

// Timeline returns the depicted (possibly fractional) year for every frame.
// The first StartPause frames hold YearFrom, the last EndPause frames hold
// YearTo, and the frames in between advance linearly.
func (c AnimationConfig) Timeline() []float64 {
	if c.Frames <= 0 {
		return nil
	}
	from, to := float64(c.YearFrom), float64(c.YearTo)
	moving := c.Frames - c.StartPause - c.EndPause

	years := make([]float64, c.Frames)
	for i := range years {
		switch {
		case i < c.StartPause:
			years[i] = from
		case i >= c.Frames-c.EndPause:
			years[i] = to
		case moving <= 1:
			years[i] = to
		default:
			step := float64(i - c.StartPause)
			years[i] = from + (to-from)*step/float64(moving-1)
		}
	}
	return years
}

// PointRadius maps a capacity onto the marker radius range. The scale is
// area-proportional over [min(SizeBreaks), max(SizeBreaks)] and clamps values
// outside it.
func (c AnimationConfig) PointRadius(capacity float64) float64 {
	lo, hi := c.SizeRange[0], c.SizeRange[1]
	if len(c.SizeBreaks) == 0 {
		return lo
	}
	dmin, dmax := slices.Min(c.SizeBreaks), slices.Max(c.SizeBreaks)
	if dmax <= dmin {
		return hi
	}
	f := (math.Min(math.Max(capacity, dmin), dmax) - dmin) / (dmax - dmin)
	return lo + (hi-lo)*math.Sqrt(f)
}

// TrendSample is one visible vertex of the line chart at a depicted year.
type TrendSample struct {
	Year        float64
	CapacityCum float64
}

// RevealTrend returns the trend vertices visible at year t: every point up to
// t plus an interpolated head on the segment crossing t.
func RevealTrend(trend []YearlyCapacityPoint, t float64) []TrendSample {
	samples := make([]TrendSample, 0, len(trend)+1)
	for i, p := range trend {
		y := float64(p.Year)
		if y <= t {
			samples = append(samples, TrendSample{Year: y, CapacityCum: p.CapacityCum})
			continue
		}
		if i > 0 && float64(trend[i-1].Year) < t {
			prev := trend[i-1]
			py := float64(prev.Year)
			frac := (t - py) / (y - py)
			samples = append(samples, TrendSample{
				Year:        t,
				CapacityCum: prev.CapacityCum + (p.CapacityCum-prev.CapacityCum)*frac,
			})
		}
		break
	}
	return samples
}

// RevealProjects returns the projects whose start year is at or before t.
// Projects without a year are never shown.
func RevealProjects(projects []ProjectRecord, t float64) []ProjectRecord {
	visible := make([]ProjectRecord, 0, len(projects))
	for _, p := range projects {
		if p.Year != nil && float64(*p.Year) <= t {
			visible = append(visible, p)
		}
	}
	return visible
}
