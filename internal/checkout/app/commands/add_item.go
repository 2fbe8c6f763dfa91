package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

type AddItemCommand struct {
	OwnerID   string
	ProductID uuid.UUID
	Quantity  int32
}

func (c AddItemCommand) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return errors.New("owner_id is required")
	}
	if c.ProductID == uuid.Nil {
		return errors.New("product_id is required")
	}
	if c.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

type AddItemHandler interface {
	Handle(ctx context.Context, cmd AddItemCommand) (*domain.Cart, error)
}

// AddItemCommandHandler snapshots the current catalog price and merges the
// product into the owner's open cart, creating the cart if needed.
type AddItemCommandHandler struct {
	carts  ports.CartRepository
	oracle ports.PriceOracle
}

func NewAddItemCommandHandler(carts ports.CartRepository, oracle ports.PriceOracle) *AddItemCommandHandler {
	return &AddItemCommandHandler{carts: carts, oracle: oracle}
}

func (h *AddItemCommandHandler) Handle(ctx context.Context, cmd AddItemCommand) (*domain.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unitPrice, exists, err := h.oracle.LookupPrice(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("lookup price: %w", err)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	cart, err := h.carts.GetOrCreateOpen(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	return h.carts.AddLine(ctx, cart.ID, cmd.ProductID, unitPrice, cmd.Quantity)
}
