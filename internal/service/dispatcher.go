package service

import (
	"context"
	"fmt"
	"sync"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// HandlerFunc handles one routed event.
type HandlerFunc func(ctx context.Context, event domain.Event) (*ports.Result, error)

// Dispatcher routes events to the handler registered for their type.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[domain.EventType]HandlerFunc
	log      zerolog.Logger
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[domain.EventType]HandlerFunc),
		log:      log,
	}
}

// Register binds fn to eventType, replacing any earlier handler.
func (d *Dispatcher) Register(eventType domain.EventType, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = fn
}

// Handle registers a handler typed on a concrete event.
func Handle[T domain.Event](d *Dispatcher, fn func(ctx context.Context, event T) (*ports.Result, error)) {
	var zero T
	d.Register(zero.EventType(), func(ctx context.Context, event domain.Event) (*ports.Result, error) {
		typed, ok := event.(T)
		if !ok {
			return nil, apperror.InternalError(fmt.Errorf("dispatcher: %s routed a %T", zero.EventType(), event))
		}
		return fn(ctx, typed)
	})
}

// Dispatch runs the handler for event's type.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) (*ports.Result, error) {
	if event == nil {
		return nil, apperror.Validation("event is required")
	}
	d.mu.RLock()
	fn, ok := d.handlers[event.EventType()]
	d.mu.RUnlock()
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("no handler for event type %q", event.EventType()))
	}

	res, err := fn(ctx, event)
	if err != nil {
		d.log.Debug().Err(err).Str("event_type", string(event.EventType())).Msg("event handler failed")
		return nil, err
	}
	return res, nil
}

// NewPayoutDispatcher wires the trigger and notification handlers.
func NewPayoutDispatcher(payouts ports.PayoutService, reconciliation ports.ReconciliationService, log zerolog.Logger) *Dispatcher {
	d := NewDispatcher(log)
	Handle(d, payouts.Trigger)
	Handle(d, reconciliation.HandleNotification)
	return d
}
