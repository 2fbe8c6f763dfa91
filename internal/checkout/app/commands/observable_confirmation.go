package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/metrics"
	"github.com/prabinkarki/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableConfirmationHandler struct {
	handler ConfirmationHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableConfirmationHandler(handler ConfirmationHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableConfirmationHandler {
	return &ObservableConfirmationHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableConfirmationHandler) Handle(ctx context.Context, cmd RecordConfirmationCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "RecordConfirmationCommand.Handle")
	defer span.End()

	start := time.Now()
	defer func() {
		o.metrics.RecordConfirmationDuration(ctx, time.Since(start).Seconds())
	}()

	o.logger.InfoContext(ctx, "recording payment confirmation",
		"purchase_order_id", cmd.PurchaseOrderID,
		"external_txn_id", cmd.ExternalTxnID,
	)

	order, err := o.handler.Handle(ctx, cmd)

	switch {
	case errors.Is(err, domain.ErrAmountMismatch):
		o.metrics.RecordConfirmation(ctx, "amount_mismatch")
	case err != nil:
		o.metrics.RecordConfirmation(ctx, "error")
	case order.Status == domain.OrderStatusPaid:
		o.metrics.RecordConfirmation(ctx, "paid")
	default:
		o.metrics.RecordConfirmation(ctx, "failed")
	}

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "payment confirmation not applied",
			"error", err,
			"purchase_order_id", cmd.PurchaseOrderID,
			"external_txn_id", cmd.ExternalTxnID,
		)
		if order == nil {
			return nil, err
		}
		return order, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.status", string(order.Status)),
		attribute.String("payment.external_txn_id", cmd.ExternalTxnID),
	)

	o.logger.InfoContext(ctx, "payment confirmation applied",
		"order_id", order.ID,
		"status", order.Status,
	)

	telemetry.SetSpanSuccess(span)
	return order, nil
}
