package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

type RemoveItemCommand struct {
	OwnerID string
	LineID  uuid.UUID
}

func (c RemoveItemCommand) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return errors.New("owner_id is required")
	}
	if c.LineID == uuid.Nil {
		return errors.New("line_id is required")
	}
	return nil
}

// RemoveItemCommandHandler deletes a line from the owner's open cart.
type RemoveItemCommandHandler struct {
	carts ports.CartRepository
}

func NewRemoveItemCommandHandler(carts ports.CartRepository) *RemoveItemCommandHandler {
	return &RemoveItemCommandHandler{carts: carts}
}

func (h *RemoveItemCommandHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (*domain.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	cart, err := h.carts.GetOpen(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	return h.carts.RemoveLine(ctx, cart.ID, cmd.LineID)
}
