package ports

import "context"

// EventBus publishes order lifecycle events to downstream consumers
// (receipts, fulfillment). Events fire only on actual state transitions,
// so replayed confirmations cannot re-trigger side effects.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID string) error
	PublishOrderPaid(ctx context.Context, orderID string) error
	PublishOrderFailed(ctx context.Context, orderID string, reason string) error
}
