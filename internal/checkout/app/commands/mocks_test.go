package commands_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

type mockCartRepository struct {
	getOrCreateOpenFn func(ctx context.Context, ownerID string) (*domain.Cart, error)
	getOpenFn         func(ctx context.Context, ownerID string) (*domain.Cart, error)
	addLineFn         func(ctx context.Context, cartID, productID uuid.UUID, unitPrice domain.Money, quantity int32) (*domain.Cart, error)
	adjustLineFn      func(ctx context.Context, cartID, lineID uuid.UUID, delta int32) (*domain.Cart, error)
	removeLineFn      func(ctx context.Context, cartID, lineID uuid.UUID) (*domain.Cart, error)
}

func (m *mockCartRepository) GetOrCreateOpen(ctx context.Context, ownerID string) (*domain.Cart, error) {
	if m.getOrCreateOpenFn != nil {
		return m.getOrCreateOpenFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockCartRepository) GetOpen(ctx context.Context, ownerID string) (*domain.Cart, error) {
	if m.getOpenFn != nil {
		return m.getOpenFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockCartRepository) GetByID(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	return nil, nil
}

func (m *mockCartRepository) AddLine(ctx context.Context, cartID, productID uuid.UUID, unitPrice domain.Money, quantity int32) (*domain.Cart, error) {
	if m.addLineFn != nil {
		return m.addLineFn(ctx, cartID, productID, unitPrice, quantity)
	}
	return nil, nil
}

func (m *mockCartRepository) AdjustLine(ctx context.Context, cartID, lineID uuid.UUID, delta int32) (*domain.Cart, error) {
	if m.adjustLineFn != nil {
		return m.adjustLineFn(ctx, cartID, lineID, delta)
	}
	return nil, nil
}

func (m *mockCartRepository) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*domain.Cart, error) {
	if m.removeLineFn != nil {
		return m.removeLineFn(ctx, cartID, lineID)
	}
	return nil, nil
}

type mockOrderRepository struct {
	createFromCartFn     func(ctx context.Context, cartID uuid.UUID) (*domain.Order, error)
	getByIDFn            func(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	finalizeFn           func(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, externalTxnID string) (bool, error)
	recordConfirmationFn func(ctx context.Context, conf domain.PaymentConfirmation) error
}

func (m *mockOrderRepository) CreateFromCart(ctx context.Context, cartID uuid.UUID) (*domain.Order, error) {
	if m.createFromCartFn != nil {
		return m.createFromCartFn(ctx, cartID)
	}
	return nil, nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, orderID)
	}
	return nil, nil
}

func (m *mockOrderRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return nil, nil
}

func (m *mockOrderRepository) Finalize(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, externalTxnID string) (bool, error) {
	if m.finalizeFn != nil {
		return m.finalizeFn(ctx, orderID, status, externalTxnID)
	}
	return true, nil
}

func (m *mockOrderRepository) RecordConfirmation(ctx context.Context, conf domain.PaymentConfirmation) error {
	if m.recordConfirmationFn != nil {
		return m.recordConfirmationFn(ctx, conf)
	}
	return nil
}

type mockPriceOracle struct {
	lookupPriceFn func(ctx context.Context, productID uuid.UUID) (domain.Money, bool, error)
}

func (m *mockPriceOracle) LookupPrice(ctx context.Context, productID uuid.UUID) (domain.Money, bool, error) {
	if m.lookupPriceFn != nil {
		return m.lookupPriceFn(ctx, productID)
	}
	return domain.Money{}, false, nil
}

type mockVerifier struct {
	verifyFn func(ctx context.Context, externalTxnID string) (ports.Verification, error)
}

func (m *mockVerifier) Verify(ctx context.Context, externalTxnID string) (ports.Verification, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, externalTxnID)
	}
	return ports.Verification{}, nil
}

type mockEventBus struct {
	publishOrderCreatedFn func(ctx context.Context, orderID string) error
	publishOrderPaidFn    func(ctx context.Context, orderID string) error
	publishOrderFailedFn  func(ctx context.Context, orderID string, reason string) error
}

func (m *mockEventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	if m.publishOrderCreatedFn != nil {
		return m.publishOrderCreatedFn(ctx, orderID)
	}
	return nil
}

func (m *mockEventBus) PublishOrderPaid(ctx context.Context, orderID string) error {
	if m.publishOrderPaidFn != nil {
		return m.publishOrderPaidFn(ctx, orderID)
	}
	return nil
}

func (m *mockEventBus) PublishOrderFailed(ctx context.Context, orderID string, reason string) error {
	if m.publishOrderFailedFn != nil {
		return m.publishOrderFailedFn(ctx, orderID, reason)
	}
	return nil
}
