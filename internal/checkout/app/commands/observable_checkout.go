package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/metrics"
	"github.com/prabinkarki/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCheckoutHandler struct {
	handler CheckoutHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCheckoutHandler(handler CheckoutHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCheckoutHandler {
	return &ObservableCheckoutHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CheckoutCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordCheckoutDuration(ctx, duration)
		o.metrics.RecordCheckout(ctx, success)
	}()

	o.logger.InfoContext(ctx, "checking out cart", "owner_id", cmd.OwnerID)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "checkout failed",
			"error", err,
			"owner_id", cmd.OwnerID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID.String()),
		attribute.String("cart.id", order.CartID.String()),
		attribute.String("order.total", order.Total.String()),
	)

	o.logger.InfoContext(ctx, "cart checked out",
		"order_id", order.ID,
		"cart_id", order.CartID,
		"total", order.Total.String(),
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
