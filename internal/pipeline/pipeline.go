package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
	"github.com/couchcryptid/wind-turbine-etl/internal/observability"
)

// Output file names, relative to the output directory.
const (
	LineFile     = "capacity_line.gif"
	MapFile      = "projects_map.gif"
	CombinedFile = "combined.gif"
)

// ChartRenderer draws the two animations. Both must honor cfg.Frames.
type ChartRenderer interface {
	RenderTrend(trend []domain.YearlyCapacityPoint, cfg domain.AnimationConfig) ([]image.Image, error)
	RenderMap(projects []domain.ProjectRecord, cfg domain.AnimationConfig) ([]image.Image, error)
}

// FrameWriter persists an animation.
type FrameWriter interface {
	Write(path string, frames []image.Image, delay time.Duration) error
}

// SummarySink receives the aggregated tables once the animations are written.
type SummarySink interface {
	Name() string
	WriteSummary(ctx context.Context, summary domain.Summary) error
}

// Result describes a completed run.
type Result struct {
	Records int
	Summary domain.Summary
	Outputs []string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDataset selects the release to load.
func WithDataset(key domain.DatasetKey) Option {
	return func(p *Pipeline) { p.dataset = key }
}

// WithAnimation overrides the animation settings shared by both charts.
func WithAnimation(cfg domain.AnimationConfig) Option {
	return func(p *Pipeline) { p.animation = cfg }
}

// WithOutputDir sets the directory receiving the GIFs.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) { p.outputDir = dir }
}

// WithSinks appends summary sinks, run in order after the composite is written.
func WithSinks(sinks ...SummarySink) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, sinks...) }
}

// WithClock replaces the clock used for stage timings.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// Pipeline runs the turbine dataset through to the animated outputs.
type Pipeline struct {
	source   domain.DatasetSource
	renderer ChartRenderer
	writer   FrameWriter
	sinks    []SummarySink
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock

	dataset   domain.DatasetKey
	animation domain.AnimationConfig
	outputDir string
}

// New creates a Pipeline with the given stages and observability.
func New(source domain.DatasetSource, renderer ChartRenderer, writer FrameWriter, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    source,
		renderer:  renderer,
		writer:    writer,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		dataset:   domain.DefaultDatasetKey,
		animation: domain.DefaultAnimationConfig(),
		outputDir: ".",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage once. Both animations are rendered and paired
// before anything is written, so a frame count mismatch leaves no files
// behind. The first failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := p.clock.Now()
	p.logger.Info("pipeline started",
		"dataset", p.dataset.Name,
		"year", p.dataset.Year,
		"week", p.dataset.Week,
		"frames", p.animation.Frames,
	)

	res, err := p.run(ctx)
	if err != nil {
		p.metrics.RunSuccess.Set(0)
		return res, err
	}

	p.metrics.RunSuccess.Set(1)
	p.metrics.LastSuccess.Set(float64(p.clock.Now().Unix()))
	p.logger.Info("pipeline finished",
		"records", res.Records,
		"projects", len(res.Summary.Projects),
		"total_capacity_mw", res.Summary.TotalCapacity,
		"duration", p.clock.Since(start),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context) (Result, error) {
	var (
		res      Result
		table    dataframe.DataFrame
		records  []domain.TurbineRecord
		projects []domain.ProjectRecord
		trend    []domain.YearlyCapacityPoint
		line     []image.Image
		bubbles  []image.Image
		combined []image.Image
		err      error
	)
	delay := p.animation.FrameDelay()

	stages := []struct {
		name string
		fn   func() error
	}{
		{"load", func() error {
			table, err = p.source.Fetch(ctx, p.dataset)
			return err
		}},
		{"normalize", func() error {
			records, err = domain.NormalizeTable(table)
			res.Records = len(records)
			p.metrics.RecordsLoaded.Add(float64(len(records)))
			return err
		}},
		{"aggregate", func() error {
			projects, err = domain.Aggregate(records)
			p.metrics.Projects.Set(float64(len(projects)))
			return err
		}},
		{"trend", func() error {
			trend = domain.BuildTrend(projects)
			p.metrics.TrendPoints.Set(float64(len(trend)))
			return nil
		}},
		{"render_line", func() error {
			line, err = p.renderer.RenderTrend(trend, p.animation)
			p.metrics.FramesRendered.WithLabelValues("line").Add(float64(len(line)))
			return err
		}},
		{"render_map", func() error {
			bubbles, err = p.renderer.RenderMap(projects, p.animation)
			p.metrics.FramesRendered.WithLabelValues("map").Add(float64(len(bubbles)))
			return err
		}},
		{"compose", func() error {
			combined, err = Compose(line, bubbles)
			p.metrics.FramesRendered.WithLabelValues("combined").Add(float64(len(combined)))
			return err
		}},
		{"write_line", func() error {
			return p.write(&res, LineFile, line, delay)
		}},
		{"write_map", func() error {
			return p.write(&res, MapFile, bubbles, delay)
		}},
		{"write_combined", func() error {
			return p.write(&res, CombinedFile, combined, delay)
		}},
		{"summarize", func() error {
			res.Summary = domain.Summarize(projects, trend)
			return nil
		}},
	}

	for _, s := range stages {
		if err := p.stage(ctx, s.name, s.fn); err != nil {
			return res, err
		}
	}

	for _, sink := range p.sinks {
		name := "sink_" + sink.Name()
		if err := p.stage(ctx, name, func() error {
			return sink.WriteSummary(ctx, res.Summary)
		}); err != nil {
			return res, err
		}
	}
	return res, nil
}

// stage runs fn, records its duration, and prefixes any error with the stage
// name. A cancelled context stops the run before the next stage starts.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	start := p.clock.Now()
	err := fn()
	elapsed := p.clock.Since(start)
	p.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		p.logger.Error("stage failed", "stage", name, "error", err, "duration", elapsed)
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug("stage complete", "stage", name, "duration", elapsed)
	return nil
}

func (p *Pipeline) write(res *Result, file string, frames []image.Image, delay time.Duration) error {
	path := filepath.Join(p.outputDir, file)
	if err := p.writer.Write(path, frames, delay); err != nil {
		return err
	}
	res.Outputs = append(res.Outputs, path)
	return nil
}
