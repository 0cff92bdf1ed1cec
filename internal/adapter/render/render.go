// Package render draws animation frames for the capacity trend and the
// project map with gonum/plot.
package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// Frame DPI. At 72 DPI one point is one pixel, so Width and Height map
// straight onto the output bounds.
const dpi = 72

var (
	lineColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	pointColor  = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xb4}
	strokeColor = color.RGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff}
)

// Renderer produces the frames of both animations.
type Renderer struct {
	background image.Image
	logger     *slog.Logger
}

// NewRenderer creates a renderer. background is stretched over the map
// extent when non-nil.
func NewRenderer(background image.Image, logger *slog.Logger) *Renderer {
	return &Renderer{background: background, logger: logger}
}

// RenderTrend draws the cumulative capacity line, revealed along the timeline.
// It always returns cfg.Frames frames.
func (r *Renderer) RenderTrend(trend []domain.YearlyCapacityPoint, cfg domain.AnimationConfig) ([]image.Image, error) {
	ymax := 1.0
	for _, p := range trend {
		ymax = math.Max(ymax, p.CapacityCum)
	}
	ymax *= 1.05

	timeline := cfg.Timeline()
	frames := make([]image.Image, 0, len(timeline))
	for i, t := range timeline {
		p := newPlot(fmt.Sprintf("Wind capacity in Canada, %d", int(t)))
		p.X.Label.Text = "Year"
		p.Y.Label.Text = "Cumulative capacity (MW)"

		samples := domain.RevealTrend(trend, t)
		if err := addTrend(p, samples); err != nil {
			return nil, fmt.Errorf("trend frame %d: %w", i, err)
		}

		p.X.Min, p.X.Max = float64(cfg.YearFrom), float64(cfg.YearTo)
		p.Y.Min, p.Y.Max = 0, ymax

		frames = append(frames, rasterize(p, cfg))
	}

	r.logger.Debug("trend frames rendered", "frames", len(frames), "points", len(trend))
	return frames, nil
}

// RenderMap draws projects as capacity-scaled circles over Canada, each
// appearing once the timeline reaches its start year. It always returns
// cfg.Frames frames.
func (r *Renderer) RenderMap(projects []domain.ProjectRecord, cfg domain.AnimationConfig) ([]image.Image, error) {
	timeline := cfg.Timeline()
	frames := make([]image.Image, 0, len(timeline))
	for i, t := range timeline {
		p := newPlot(fmt.Sprintf("Wind projects, %d", int(t)))
		p.X.Label.Text = "Longitude"
		p.Y.Label.Text = "Latitude"

		if r.background != nil {
			p.Add(plotter.NewImage(r.background, domain.MapLonMin, domain.MapLatMin, domain.MapLonMax, domain.MapLatMax))
		}
		p.Add(plotter.NewGrid())

		if err := addProjects(p, domain.RevealProjects(projects, t), cfg); err != nil {
			return nil, fmt.Errorf("map frame %d: %w", i, err)
		}

		p.X.Min, p.X.Max = domain.MapLonMin, domain.MapLonMax
		p.Y.Min, p.Y.Max = domain.MapLatMin, domain.MapLatMax

		frames = append(frames, rasterize(p, cfg))
	}

	r.logger.Debug("map frames rendered", "frames", len(frames), "projects", len(projects))
	return frames, nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	return p
}

func addTrend(p *plot.Plot, samples []domain.TrendSample) error {
	if len(samples) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(samples))
	for i, s := range samples {
		xys[i].X = s.Year
		xys[i].Y = s.CapacityCum
	}

	if len(xys) > 1 {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = lineColor
		line.Width = vg.Points(2)
		p.Add(line)
	}

	head, err := plotter.NewScatter(xys[len(xys)-1:])
	if err != nil {
		return err
	}
	head.GlyphStyle.Color = lineColor
	head.GlyphStyle.Radius = vg.Points(3)
	head.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(head)
	return nil
}

func addProjects(p *plot.Plot, visible []domain.ProjectRecord, cfg domain.AnimationConfig) error {
	if len(visible) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(visible))
	for i, pr := range visible {
		xys[i].X = pr.Lon
		xys[i].Y = pr.Lat
	}

	fill, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	fill.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  pointColor,
			Radius: vg.Points(cfg.PointRadius(visible[i].CapacityProject)),
			Shape:  draw.CircleGlyph{},
		}
	}

	outline, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	outline.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  strokeColor,
			Radius: vg.Points(cfg.PointRadius(visible[i].CapacityProject)),
			Shape:  draw.RingGlyph{},
		}
	}

	p.Add(fill, outline)
	return nil
}

func rasterize(p *plot.Plot, cfg domain.AnimationConfig) image.Image {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(cfg.Width), vg.Length(cfg.Height)),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	p.Draw(draw.New(c))
	return c.Image()
}
