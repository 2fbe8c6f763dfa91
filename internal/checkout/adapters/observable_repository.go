package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
	"github.com/prabinkarki/storefront/internal/database"
	"github.com/prabinkarki/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableCartRepository wraps a cart repository with spans and query
// duration metrics.
type ObservableCartRepository struct {
	repo    ports.CartRepository
	metrics *database.Metrics
}

func NewObservableCartRepository(repo ports.CartRepository, metrics *database.Metrics) *ObservableCartRepository {
	return &ObservableCartRepository{repo: repo, metrics: metrics}
}

func (r *ObservableCartRepository) GetOrCreateOpen(ctx context.Context, ownerID string) (*domain.Cart, error) {
	return observeCart(ctx, r.metrics, "CartRepository.GetOrCreateOpen", "get_or_create_open_cart", nil,
		func(ctx context.Context) (*domain.Cart, error) {
			return r.repo.GetOrCreateOpen(ctx, ownerID)
		})
}

func (r *ObservableCartRepository) GetOpen(ctx context.Context, ownerID string) (*domain.Cart, error) {
	return observeCart(ctx, r.metrics, "CartRepository.GetOpen", "get_open_cart", nil,
		func(ctx context.Context) (*domain.Cart, error) {
			return r.repo.GetOpen(ctx, ownerID)
		})
}

func (r *ObservableCartRepository) GetByID(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	return observeCart(ctx, r.metrics, "CartRepository.GetByID", "get_cart_by_id", attrCart(cartID),
		func(ctx context.Context) (*domain.Cart, error) {
			return r.repo.GetByID(ctx, cartID)
		})
}

func (r *ObservableCartRepository) AddLine(ctx context.Context, cartID, productID uuid.UUID, unitPrice domain.Money, quantity int32) (*domain.Cart, error) {
	return observeCart(ctx, r.metrics, "CartRepository.AddLine", "add_cart_line", attrCart(cartID),
		func(ctx context.Context) (*domain.Cart, error) {
			return r.repo.AddLine(ctx, cartID, productID, unitPrice, quantity)
		})
}

func (r *ObservableCartRepository) AdjustLine(ctx context.Context, cartID, lineID uuid.UUID, delta int32) (*domain.Cart, error) {
	return observeCart(ctx, r.metrics, "CartRepository.AdjustLine", "adjust_cart_line", attrCart(cartID),
		func(ctx context.Context) (*domain.Cart, error) {
			return r.repo.AdjustLine(ctx, cartID, lineID, delta)
		})
}

func (r *ObservableCartRepository) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*domain.Cart, error) {
	return observeCart(ctx, r.metrics, "CartRepository.RemoveLine", "remove_cart_line", attrCart(cartID),
		func(ctx context.Context) (*domain.Cart, error) {
			return r.repo.RemoveLine(ctx, cartID, lineID)
		})
}

// ObservableOrderRepository wraps an order repository with spans and query
// duration metrics.
type ObservableOrderRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableOrderRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableOrderRepository {
	return &ObservableOrderRepository{repo: repo, metrics: metrics}
}

func (r *ObservableOrderRepository) CreateFromCart(ctx context.Context, cartID uuid.UUID) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.CreateFromCart")
	defer span.End()
	telemetry.AddSpanAttributes(span, attribute.String("cart.id", cartID.String()))

	start := time.Now()
	order, err := r.repo.CreateFromCart(ctx, cartID)
	r.metrics.RecordQuery(ctx, "create_order_from_cart", time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.String("order.id", order.ID.String()))
	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableOrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetByID")
	defer span.End()
	telemetry.AddSpanAttributes(span, attribute.String("order.id", orderID.String()))

	start := time.Now()
	order, err := r.repo.GetByID(ctx, orderID)
	r.metrics.RecordQuery(ctx, "get_order_by_id", time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableOrderRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.List")
	defer span.End()

	start := time.Now()
	orders, err := r.repo.List(ctx, filter)
	r.metrics.RecordQuery(ctx, "list_orders", time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(orders)))
	telemetry.SetSpanSuccess(span)
	return orders, nil
}

func (r *ObservableOrderRepository) Finalize(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, externalTxnID string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Finalize")
	defer span.End()
	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID.String()),
		attribute.String("order.new_status", string(status)),
	)

	start := time.Now()
	applied, err := r.repo.Finalize(ctx, orderID, status, externalTxnID)
	r.metrics.RecordQuery(ctx, "finalize_order", time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return false, err
	}

	telemetry.AddSpanAttributes(span, attribute.Bool("order.transition_applied", applied))
	telemetry.SetSpanSuccess(span)
	return applied, nil
}

func (r *ObservableOrderRepository) RecordConfirmation(ctx context.Context, conf domain.PaymentConfirmation) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.RecordConfirmation")
	defer span.End()
	telemetry.AddSpanAttributes(span, attribute.String("payment.external_txn_id", conf.ExternalTxnID))

	start := time.Now()
	err := r.repo.RecordConfirmation(ctx, conf)
	r.metrics.RecordQuery(ctx, "record_payment_confirmation", time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func attrCart(cartID uuid.UUID) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("cart.id", cartID.String())}
}

func observeCart(
	ctx context.Context,
	metrics *database.Metrics,
	spanName, operation string,
	attrs []attribute.KeyValue,
	fn func(ctx context.Context) (*domain.Cart, error),
) (*domain.Cart, error) {
	ctx, span := telemetry.StartSpan(ctx, spanName)
	defer span.End()
	telemetry.AddSpanAttributes(span, attrs...)

	start := time.Now()
	cart, err := fn(ctx)
	metrics.RecordQuery(ctx, operation, time.Since(start).Seconds())

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return cart, nil
}
