// Package kafka publishes report lifecycle events for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/roadscout/report-service/internal/config"
	"github.com/roadscout/report-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces report-created events to a Kafka topic.
// It implements domain.ReportPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured events topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishCreated serializes a persisted report and writes it to the events
// topic, keyed by the report identifier.
func (p *Publisher) PublishCreated(ctx context.Context, r domain.Report) error {
	msg, err := serializeToMessage(r)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a report into a Kafka message. The photo payload
// is dropped: event consumers care about what and where, not the image bytes.
func serializeToMessage(r domain.Report) (kafkago.Message, error) {
	r.PhotoBase64 = ""
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(r.Category)},
			{Key: "submitted_at", Value: []byte(r.Timestamp)},
		},
	}, nil
}
