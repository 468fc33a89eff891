package app

import (
	"context"

	"webhook-consumer/internal/common/logging"
	"webhook-consumer/internal/events"
)

// DefaultEventHandlers returns the handler set wired at startup. Each handler
// records the verified event; downstream processing hangs off these hooks.
func DefaultEventHandlers(logger logging.Logger) events.Handlers {
	log := logger.WithFields(logging.Field{Key: "component", Value: "events"})

	return events.Handlers{
		Deposit: func(ctx context.Context, e events.Deposit) error {
			log.Info("Deposit received",
				logging.Field{Key: "transaction_id", Value: e.TransactionID},
				logging.Field{Key: "account_id", Value: e.AccountID},
				logging.Field{Key: "amount", Value: e.Amount},
				logging.Field{Key: "currency", Value: e.Currency},
			)
			return nil
		},
		Withdrawal: func(ctx context.Context, e events.Withdrawal) error {
			log.Info("Withdrawal received",
				logging.Field{Key: "transaction_id", Value: e.TransactionID},
				logging.Field{Key: "account_id", Value: e.AccountID},
				logging.Field{Key: "amount", Value: e.Amount},
				logging.Field{Key: "currency", Value: e.Currency},
			)
			return nil
		},
		Authorization: func(ctx context.Context, e events.Authorization) error {
			log.Info("Authorization received",
				logging.Field{Key: "transaction_id", Value: e.TransactionID},
				logging.Field{Key: "merchant", Value: e.Merchant},
				logging.Field{Key: "approved", Value: e.Approved},
			)
			return nil
		},
		Refund: func(ctx context.Context, e events.Refund) error {
			log.Info("Refund received",
				logging.Field{Key: "transaction_id", Value: e.TransactionID},
				logging.Field{Key: "original_id", Value: e.OriginalID},
				logging.Field{Key: "amount", Value: e.Amount},
			)
			return nil
		},
		DomainChange: func(ctx context.Context, e events.DomainChange) error {
			log.Info("Domain change received",
				logging.Field{Key: "domain", Value: e.Domain},
				logging.Field{Key: "change_type", Value: e.ChangeType},
			)
			return nil
		},
		OrderCompleted: func(ctx context.Context, e events.OrderCompleted) error {
			log.Info("Order completed",
				logging.Field{Key: "order_id", Value: e.OrderID},
				logging.Field{Key: "customer_id", Value: e.CustomerID},
				logging.Field{Key: "total", Value: e.Total},
			)
			return nil
		},
	}
}
