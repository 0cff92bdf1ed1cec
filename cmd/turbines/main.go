package main

import (
	"context"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/wind-turbine-etl/internal/adapter/gifout"
	kafkaadapter "github.com/couchcryptid/wind-turbine-etl/internal/adapter/kafka"
	"github.com/couchcryptid/wind-turbine-etl/internal/adapter/render"
	"github.com/couchcryptid/wind-turbine-etl/internal/adapter/tidytuesday"
	"github.com/couchcryptid/wind-turbine-etl/internal/adapter/xlsx"
	"github.com/couchcryptid/wind-turbine-etl/internal/config"
	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
	"github.com/couchcryptid/wind-turbine-etl/internal/observability"
	"github.com/couchcryptid/wind-turbine-etl/internal/pipeline"
)

const metricsJob = "wind-turbine-etl"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Error("create output dir", "path", cfg.OutputDir, "error", err)
		return 1
	}

	var background image.Image
	if cfg.MapBackground != "" {
		background, err = render.LoadBackground(cfg.MapBackground)
		if err != nil {
			logger.Error("map background unavailable", "path", cfg.MapBackground, "error", err)
			return 1
		}
	}

	opts := []pipeline.Option{
		pipeline.WithDataset(cfg.Dataset),
		pipeline.WithAnimation(cfg.Animation),
		pipeline.WithOutputDir(cfg.OutputDir),
	}
	if cfg.XLSXPath != "" {
		opts = append(opts, pipeline.WithSinks(xlsx.NewWorkbook(cfg.XLSXPath, logger)))
		logger.Info("workbook export enabled", "path", cfg.XLSXPath)
	}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		opts = append(opts, pipeline.WithSinks(writer))
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(
		newSource(cfg, logger),
		render.NewRenderer(background, logger),
		gifout.NewWriter(logger),
		logger,
		metrics,
		opts...,
	)

	_, runErr := p.Run(ctx)

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, metricsJob); err != nil {
			logger.Warn("metrics push failed", "url", cfg.PushgatewayURL, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("pipeline failed", "error", runErr)
		return 1
	}
	return 0
}

// newSource picks a local file when DATA_FILE is set, otherwise downloads the
// release, caching it under CACHE_DIR when configured.
func newSource(cfg *config.Config, logger *slog.Logger) domain.DatasetSource {
	if cfg.DataFile != "" {
		logger.Info("reading local dataset", "path", cfg.DataFile)
		return tidytuesday.NewFileSource(cfg.DataFile)
	}

	var source domain.DatasetSource = tidytuesday.NewClient(cfg.DatasetBaseURL, cfg.DatasetTimeout, logger)
	if cfg.CacheDir != "" {
		source = tidytuesday.NewCachedSource(source, cfg.CacheDir, logger)
		logger.Info("dataset cache enabled", "dir", cfg.CacheDir)
	}
	return source
}
