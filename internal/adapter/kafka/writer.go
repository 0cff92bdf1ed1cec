package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/wind-turbine-etl/internal/config"
	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// Writer publishes aggregated projects to a Kafka topic.
// It implements pipeline.SummarySink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured project topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string {
	return "kafka"
}

// WriteSummary publishes one message per project in a single WriteMessages
// call. Keys are project names, so a project always lands on one partition.
func (w *Writer) WriteSummary(ctx context.Context, summary domain.Summary) error {
	if len(summary.Projects) == 0 {
		w.logger.Info("no projects to publish", "topic", w.writer.Topic)
		return nil
	}
	msgs := make([]kafkago.Message, len(summary.Projects))
	for i := range summary.Projects {
		msg, err := serializeToMessage(summary.Projects[i], summary.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish projects: %w", err)
	}
	w.logger.Info("projects published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ProjectRecord into a Kafka message. The year
// header is empty for projects without a commissioning year.
func serializeToMessage(project domain.ProjectRecord, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(project)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize project: %w", err)
	}
	var year string
	if project.Year != nil {
		year = strconv.Itoa(*project.Year)
	}
	return kafkago.Message{
		Key:   []byte(project.ProjectName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(year)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
