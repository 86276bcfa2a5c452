// Package kafka publishes normalized feed reports to a Kafka topic. It is
// the dashboard's opaque persistence collaborator; nothing in the service
// reads reports back.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/heliowatch/spaceweather/internal/domain"
	"github.com/heliowatch/spaceweather/internal/observability"
)

// Sink implements domain.ReportSink over a Kafka topic.
type Sink struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSink creates a Kafka producer for the report topic.
func NewSink(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Sink {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Sink{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes one report and writes it to the topic. Reports are
// keyed by feed name so consumers see per-feed ordering.
func (s *Sink) Publish(ctx context.Context, report domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		s.metrics.ReportPublishErrors.Inc()
		return fmt.Errorf("serialize report: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(report.Feed),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "report_id", Value: []byte(report.ID)},
			{Key: "quality", Value: []byte(strconv.FormatFloat(report.Quality, 'f', -1, 64))},
			{Key: "generated_at", Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.metrics.ReportPublishErrors.Inc()
		return fmt.Errorf("publish report %s: %w", report.ID, err)
	}
	s.metrics.ReportsPublished.Inc()
	return nil
}

func (s *Sink) Close() error {
	return s.writer.Close()
}
