package kafka

import (
	"context"
	"encoding/json"
	"time"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
	"supplier-payout-gateway/pkg/logger"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

// TriggerConsumer feeds payout trigger events from Kafka into the dispatcher.
type TriggerConsumer struct {
	reader     messageReader
	dispatcher ports.EventDispatcher
	log        zerolog.Logger
	backoff    time.Duration
}

// NewTriggerConsumer creates a consumer-group reader on the trigger topic.
func NewTriggerConsumer(cfg config.KafkaConfig, dispatcher ports.EventDispatcher, log zerolog.Logger) *TriggerConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.BrokerList(),
		GroupID:  cfg.GroupID,
		Topic:    cfg.TriggerTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newTriggerConsumer(reader, dispatcher, log)
}

func newTriggerConsumer(reader messageReader, dispatcher ports.EventDispatcher, log zerolog.Logger) *TriggerConsumer {
	return &TriggerConsumer{
		reader:     reader,
		dispatcher: dispatcher,
		log:        logger.Component(log, "kafka"),
		backoff:    time.Second,
	}
}

// Run reads until ctx is cancelled. Handler failures are logged and the
// message is skipped; a trigger can be re-emitted safely.
func (c *TriggerConsumer) Run(ctx context.Context) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.log.Warn().Err(err).Msg("kafka reader close failed")
		}
	}()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error().Err(err).Msg("kafka read error")
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
			continue
		}
		c.handleMessage(ctx, msg)
	}
}

func (c *TriggerConsumer) handleMessage(ctx context.Context, msg kafkago.Message) {
	ctx, span := otel.Tracer("kafka").Start(ExtractTraceContext(ctx, msg), "kafka.consume",
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	log := c.log.With().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Str("event_id", HeaderValue(msg.Headers, HeaderEventID)).
		Logger()

	var ev domain.TriggerEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.Error().Err(err).Msg("undecodable trigger event skipped")
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		return
	}
	if ev.RequestID == "" {
		ev.RequestID = string(msg.Key)
	}

	res, err := c.dispatcher.Dispatch(ctx, ev)
	switch {
	case err == nil:
		log.Info().Str("request_id", res.RequestID).Str("disposition", string(res.Disposition)).Msg("trigger event handled")
	case apperror.HasCode(err, apperror.CodeTriggerNotReady):
		log.Debug().Str("request_id", ev.RequestID).Str("workflow_state", ev.WorkflowState).Msg("trigger event not in a payout state")
	case apperror.HasCode(err, apperror.CodePayoutInProgress):
		log.Info().Str("request_id", ev.RequestID).Msg("payout already in progress, trigger event dropped")
	default:
		log.Error().Err(err).Str("request_id", ev.RequestID).Msg("trigger event failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
