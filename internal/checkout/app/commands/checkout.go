package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

type CheckoutCommand struct {
	OwnerID string
}

func (c CheckoutCommand) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return errors.New("owner_id is required")
	}
	return nil
}

type CheckoutHandler interface {
	Handle(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error)
}

// CheckoutCommandHandler freezes the owner's open cart into a pending
// order. The snapshot and the cart status flip commit together in the
// ledger store, so a racing mutation either lands before the snapshot or
// fails with ErrCartCheckedOut, never half of each.
type CheckoutCommandHandler struct {
	carts  ports.CartRepository
	orders ports.OrderRepository
	events ports.EventBus
}

func NewCheckoutCommandHandler(
	carts ports.CartRepository,
	orders ports.OrderRepository,
	events ports.EventBus,
) *CheckoutCommandHandler {
	return &CheckoutCommandHandler{carts: carts, orders: orders, events: events}
}

func (h *CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	cart, err := h.carts.GetOpen(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	order, err := h.orders.CreateFromCart(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderCreated(ctx, order.ID.String()); err != nil {
		return order, fmt.Errorf("order created but failed to publish event: %w", err)
	}

	return order, nil
}
