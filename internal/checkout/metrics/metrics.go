package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	cartMutationsTotal   metric.Int64Counter
	checkoutsTotal       metric.Int64Counter
	checkoutDuration     metric.Float64Histogram
	confirmationsTotal   metric.Int64Counter
	confirmationDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.cartMutationsTotal, err = meter.Int64Counter(
		"cart_mutations_total",
		metric.WithDescription("Total number of cart line mutations"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cart_mutations_total counter: %w", err)
	}

	m.checkoutsTotal, err = meter.Int64Counter(
		"checkouts_total",
		metric.WithDescription("Total number of checkout attempts"),
		metric.WithUnit("{checkout}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkouts_total counter: %w", err)
	}

	m.checkoutDuration, err = meter.Float64Histogram(
		"checkout_duration_seconds",
		metric.WithDescription("Duration of checkout operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_duration histogram: %w", err)
	}

	m.confirmationsTotal, err = meter.Int64Counter(
		"payment_confirmations_total",
		metric.WithDescription("Total number of payment confirmations processed"),
		metric.WithUnit("{confirmation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_confirmations_total counter: %w", err)
	}

	m.confirmationDuration, err = meter.Float64Histogram(
		"payment_confirmation_duration_seconds",
		metric.WithDescription("Duration of payment confirmation processing"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_confirmation_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordCartMutation(ctx context.Context, operation string, success bool) {
	m.cartMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", statusLabel(success)),
	))
}

func (m *Metrics) RecordCheckout(ctx context.Context, success bool) {
	m.checkoutsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", statusLabel(success)),
	))
}

func (m *Metrics) RecordCheckoutDuration(ctx context.Context, durationSeconds float64) {
	m.checkoutDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordConfirmation(ctx context.Context, result string) {
	m.confirmationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}

func (m *Metrics) RecordConfirmationDuration(ctx context.Context, durationSeconds float64) {
	m.confirmationDuration.Record(ctx, durationSeconds)
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
