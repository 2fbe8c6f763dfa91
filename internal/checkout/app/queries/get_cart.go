package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

// GetCartQuery requests the owner's current open cart.
type GetCartQuery struct {
	OwnerID string
}

func (q GetCartQuery) Validate() error {
	if strings.TrimSpace(q.OwnerID) == "" {
		return errors.New("owner_id is required")
	}
	return nil
}

// GetCartQueryHandler resolves the open cart with its lines.
type GetCartQueryHandler struct {
	carts ports.CartRepository
}

func NewGetCartQueryHandler(carts ports.CartRepository) *GetCartQueryHandler {
	return &GetCartQueryHandler{carts: carts}
}

func (h *GetCartQueryHandler) Handle(ctx context.Context, query GetCartQuery) (*domain.Cart, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.carts.GetOpen(ctx, query.OwnerID)
}
