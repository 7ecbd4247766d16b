package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/domain"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// OutcomePublisher writes OutcomeEvents keyed by request id, so every change
// for one payout lands on the same partition in order.
type OutcomePublisher struct {
	writer messageWriter
}

// NewOutcomePublisher creates a publisher on the outcome topic.
func NewOutcomePublisher(cfg config.KafkaConfig) *OutcomePublisher {
	return &OutcomePublisher{writer: &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.BrokerList()...),
		Topic:                  cfg.OutcomeTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}}
}

// Publish writes one outcome event with trace context headers.
func (p *OutcomePublisher) Publish(ctx context.Context, event domain.OutcomeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal outcome event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.RequestID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(event.EventType())},
			{Key: HeaderRequestID, Value: []byte(event.RequestID)},
		},
	}
	msg.Headers = InjectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write outcome event: %w", err)
	}
	return nil
}

// Close flushes pending writes.
func (p *OutcomePublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events. It stands in when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.OutcomeEvent) error { return nil }
