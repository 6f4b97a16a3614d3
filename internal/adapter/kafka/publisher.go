// Package kafka streams completed assessments to a sink topic for downstream
// analytics. Publishing is feature-flagged by configuration; the service runs
// fine without it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-risk-service/internal/domain"
	"github.com/couchcryptid/climate-risk-service/internal/observability"
)

// Publisher produces assessment messages to a Kafka topic.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the sink topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes and writes one assessment. The message key is the
// deterministic assessment ID, so replays of the same input land on the same
// partition and compact away.
func (p *Publisher) Publish(ctx context.Context, assessment domain.Assessment) error {
	msg, err := serializeToMessage(assessment)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish assessment %s: %w", assessment.ID, err)
	}
	p.metrics.AssessmentsPublished.Inc()
	p.logger.Debug("assessment published", "id", assessment.ID, "outcome", assessment.Outcome)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an assessment into a Kafka message.
func serializeToMessage(assessment domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(assessment)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(assessment.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(assessment.Outcome)},
			{Key: "assessed_at", Value: []byte(assessment.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
