package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

// GetOrderQuery represents a request to retrieve an order by its ID.
type GetOrderQuery struct {
	OrderID uuid.UUID
}

func (q GetOrderQuery) Validate() error {
	if q.OrderID == uuid.Nil {
		return errors.New("order_id is required")
	}
	return nil
}

// GetOrderQueryHandler executes GetOrderQuery and returns the order if found.
type GetOrderQueryHandler struct {
	orders ports.OrderRepository
}

func NewGetOrderQueryHandler(orders ports.OrderRepository) *GetOrderQueryHandler {
	return &GetOrderQueryHandler{orders: orders}
}

func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.orders.GetByID(ctx, query.OrderID)
}
