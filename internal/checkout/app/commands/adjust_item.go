package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

type AdjustItemCommand struct {
	OwnerID string
	LineID  uuid.UUID
	Delta   int32
}

func (c AdjustItemCommand) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return errors.New("owner_id is required")
	}
	if c.LineID == uuid.Nil {
		return errors.New("line_id is required")
	}
	if c.Delta == 0 {
		return errors.New("delta must not be zero")
	}
	return nil
}

// AdjustItemCommandHandler changes a line's quantity by a signed delta.
// A quantity driven to zero or below removes the line.
type AdjustItemCommandHandler struct {
	carts ports.CartRepository
}

func NewAdjustItemCommandHandler(carts ports.CartRepository) *AdjustItemCommandHandler {
	return &AdjustItemCommandHandler{carts: carts}
}

func (h *AdjustItemCommandHandler) Handle(ctx context.Context, cmd AdjustItemCommand) (*domain.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	cart, err := h.carts.GetOpen(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	return h.carts.AdjustLine(ctx, cart.ID, cmd.LineID, cmd.Delta)
}
