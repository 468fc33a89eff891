// Package events classifies verified webhook payloads by their event-type
// discriminator and routes each one to its typed handler.
//
// The dispatcher only ever sees payloads that already passed signature
// verification. Handling is expected to be fast and side-effect-light; the
// dispatcher does not wait on long-running downstream work before returning.
// Handlers must be idempotent with respect to at-least-once delivery - no
// dedup by message id happens at this layer.
package events

import (
	"context"
	"encoding/json"

	"webhook-consumer/internal/common/errors"
	"webhook-consumer/internal/common/logging"
)

// Handlers carries the per-kind callbacks. Nil entries route to the
// unhandled branch, same as an unknown event type.
type Handlers struct {
	Deposit        func(ctx context.Context, e Deposit) error
	Withdrawal     func(ctx context.Context, e Withdrawal) error
	Authorization  func(ctx context.Context, e Authorization) error
	Refund         func(ctx context.Context, e Refund) error
	DomainChange   func(ctx context.Context, e DomainChange) error
	OrderCompleted func(ctx context.Context, e OrderCompleted) error
}

// Dispatcher routes verified payloads to typed handlers
type Dispatcher struct {
	handlers Handlers
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher over the given handler set
func NewDispatcher(handlers Handlers, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Dispatcher{
		handlers: handlers,
		logger:   logger.WithFields(logging.Field{Key: "component", Value: "dispatcher"}),
	}
}

// Dispatch decodes the raw verified body and routes it by event type.
//
// Unknown event types are logged and dropped without error - the producer
// must not be made to retry just because this consumer doesn't recognize a
// new kind. Handler errors and panics are converted to internal errors at
// this boundary; the delivery pipeline never crashes on a single handler.
func (d *Dispatcher) Dispatch(ctx context.Context, rawBody []byte) (err error) {
	var payload Payload
	if jsonErr := json.Unmarshal(rawBody, &payload); jsonErr != nil {
		return errors.ValidationError("payload is not valid JSON").WithCode("PARSE")
	}
	if payload.EventType == "" {
		return errors.ValidationError("payload is missing eventType")
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Handler panicked", nil,
				logging.Field{Key: "event_type", Value: payload.EventType},
				logging.Field{Key: "panic", Value: r},
			)
			err = errors.InternalError("event processing error", nil).
				WithContext("event_type", payload.EventType)
		}
	}()

	switch payload.EventType {
	case TypeDeposit:
		err = decodeAndHandle(ctx, payload.Data, d.handlers.Deposit)
	case TypeWithdrawal:
		err = decodeAndHandle(ctx, payload.Data, d.handlers.Withdrawal)
	case TypeAuthorization:
		err = decodeAndHandle(ctx, payload.Data, d.handlers.Authorization)
	case TypeRefund:
		err = decodeAndHandle(ctx, payload.Data, d.handlers.Refund)
	case TypeDomainChange:
		err = decodeAndHandle(ctx, payload.Data, d.handlers.DomainChange)
	case TypeOrderCompleted:
		err = decodeAndHandle(ctx, payload.Data, d.handlers.OrderCompleted)
	default:
		d.logger.Info("Unhandled event type",
			logging.Field{Key: "event_type", Value: payload.EventType},
		)
		return nil
	}

	if err != nil && !errors.IsType(err, errors.ErrTypeValidation) {
		err = errors.InternalError("event processing error", err).
			WithContext("event_type", payload.EventType)
	}

	return err
}

// decodeAndHandle unmarshals the data section into the handler's typed event.
// A nil handler is treated like an unknown kind: tolerated, not an error.
func decodeAndHandle[E any](ctx context.Context, data json.RawMessage, handler func(context.Context, E) error) error {
	if handler == nil {
		return nil
	}

	var event E
	if len(data) > 0 {
		if err := json.Unmarshal(data, &event); err != nil {
			return errors.ValidationError("event data does not match event type")
		}
	}

	return handler(ctx, event)
}
