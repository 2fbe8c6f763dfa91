package adapters

import (
	"context"
	"time"

	"github.com/prabinkarki/storefront/internal/checkout/ports"
	"github.com/prabinkarki/storefront/internal/kafka"
	"github.com/prabinkarki/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	topicOrderCreated = "orders.created"
	topicOrderPaid    = "orders.paid"
	topicOrderFailed  = "orders.failed"
)

// ObservableEventBus wraps an event bus with spans and producer metrics.
type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{bus: bus, metrics: metrics}
}

func (b *ObservableEventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	return b.publish(ctx, topicOrderCreated, orderID, func(ctx context.Context) error {
		return b.bus.PublishOrderCreated(ctx, orderID)
	})
}

func (b *ObservableEventBus) PublishOrderPaid(ctx context.Context, orderID string) error {
	return b.publish(ctx, topicOrderPaid, orderID, func(ctx context.Context) error {
		return b.bus.PublishOrderPaid(ctx, orderID)
	})
}

func (b *ObservableEventBus) PublishOrderFailed(ctx context.Context, orderID string, reason string) error {
	return b.publish(ctx, topicOrderFailed, orderID, func(ctx context.Context) error {
		return b.bus.PublishOrderFailed(ctx, orderID, reason)
	})
}

func (b *ObservableEventBus) publish(ctx context.Context, topic, orderID string, fn func(ctx context.Context) error) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.Publish")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("messaging.destination", topic),
		attribute.String("order.id", orderID),
	)

	start := time.Now()
	err := fn(ctx)
	b.metrics.RecordPublish(ctx, topic, time.Since(start).Seconds(), err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
