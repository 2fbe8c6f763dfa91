package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/app/commands"
	"github.com/prabinkarki/storefront/internal/checkout/app/queries"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/metrics"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

// Service bundles the cart, checkout and reconciliation use cases exposed
// over the API.
type Service struct {
	carts     ports.CartRepository
	orders    ports.OrderRepository
	idemStore ports.IdempotencyStore

	addItemHandler      *commands.AddItemCommandHandler
	adjustItemHandler   *commands.AdjustItemCommandHandler
	removeItemHandler   *commands.RemoveItemCommandHandler
	checkoutHandler     commands.CheckoutHandler
	confirmationHandler commands.ConfirmationHandler
	getCartHandler      *queries.GetCartQueryHandler
	getOrderHandler     *queries.GetOrderQueryHandler
}

// NewService wires required dependencies. The checkout and confirmation
// handlers are wrapped with logging, tracing and metrics since those are
// the two money paths.
func NewService(
	carts ports.CartRepository,
	orders ports.OrderRepository,
	oracle ports.PriceOracle,
	verifier ports.PaymentVerifier,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	checkoutHandler := commands.NewCheckoutCommandHandler(carts, orders, events)
	confirmationHandler := commands.NewRecordConfirmationCommandHandler(orders, verifier, events)

	return &Service{
		carts:               carts,
		orders:              orders,
		idemStore:           idem,
		addItemHandler:      commands.NewAddItemCommandHandler(carts, oracle),
		adjustItemHandler:   commands.NewAdjustItemCommandHandler(carts),
		removeItemHandler:   commands.NewRemoveItemCommandHandler(carts),
		checkoutHandler:     commands.NewObservableCheckoutHandler(checkoutHandler, logger, m),
		confirmationHandler: commands.NewObservableConfirmationHandler(confirmationHandler, logger, m),
		getCartHandler:      queries.NewGetCartQueryHandler(carts),
		getOrderHandler:     queries.NewGetOrderQueryHandler(orders),
	}
}

// AddItemInput captures payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

// AddItem merges a product into the owner's open cart, creating the cart
// on first use.
func (s *Service) AddItem(ctx context.Context, ownerID string, input AddItemInput) (*domain.Cart, error) {
	return s.addItemHandler.Handle(ctx, commands.AddItemCommand{
		OwnerID:   ownerID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	})
}

// AdjustItem changes a line's quantity by a signed delta.
func (s *Service) AdjustItem(ctx context.Context, ownerID string, lineID uuid.UUID, delta int32) (*domain.Cart, error) {
	return s.adjustItemHandler.Handle(ctx, commands.AdjustItemCommand{
		OwnerID: ownerID,
		LineID:  lineID,
		Delta:   delta,
	})
}

// RemoveItem deletes a line from the owner's open cart.
func (s *Service) RemoveItem(ctx context.Context, ownerID string, lineID uuid.UUID) (*domain.Cart, error) {
	return s.removeItemHandler.Handle(ctx, commands.RemoveItemCommand{
		OwnerID: ownerID,
		LineID:  lineID,
	})
}

// GetCart retrieves the owner's open cart with its lines.
func (s *Service) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	return s.getCartHandler.Handle(ctx, queries.GetCartQuery{OwnerID: ownerID})
}

// Checkout freezes the owner's open cart into a pending order.
func (s *Service) Checkout(ctx context.Context, ownerID string) (*domain.Order, error) {
	return s.checkoutHandler.Handle(ctx, commands.CheckoutCommand{OwnerID: ownerID})
}

// ConfirmationInput captures the gateway callback payload.
type ConfirmationInput struct {
	PurchaseOrderID uuid.UUID    `json:"purchase_order_id"`
	ExternalTxnID   string       `json:"external_transaction_id"`
	VerifiedAmount  domain.Money `json:"verified_amount"`
	GatewayStatus   string       `json:"status"`
}

// RecordConfirmation reconciles a payment confirmation against its order.
func (s *Service) RecordConfirmation(ctx context.Context, input ConfirmationInput) (*domain.Order, error) {
	return s.confirmationHandler.Handle(ctx, commands.RecordConfirmationCommand{
		PurchaseOrderID: input.PurchaseOrderID,
		ExternalTxnID:   input.ExternalTxnID,
		VerifiedAmount:  input.VerifiedAmount,
		GatewayStatus:   input.GatewayStatus,
	})
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders using a filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, filter)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
