package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
)

// OrderRepository keeps checkout snapshots and confirmation audit rows in
// memory. It shares the cart repository so checkout and cart mutation
// serialize on the same lock.
type OrderRepository struct {
	mu            sync.Mutex
	orders        map[uuid.UUID]*domain.Order
	confirmations map[string]domain.PaymentConfirmation
	carts         *CartRepository
}

// NewOrderRepository constructs an in-memory order repository bound to the
// given cart repository.
func NewOrderRepository(carts *CartRepository) *OrderRepository {
	return &OrderRepository{
		orders:        make(map[uuid.UUID]*domain.Order),
		confirmations: make(map[string]domain.PaymentConfirmation),
		carts:         carts,
	}
}

// CreateFromCart snapshots the cart and flips it to checked_out atomically.
// Only the first of N concurrent calls observes an open cart.
func (r *OrderRepository) CreateFromCart(_ context.Context, cartID uuid.UUID) (*domain.Order, error) {
	order, err := r.carts.checkout(cartID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return cloneOrder(order), nil
}

// GetByID fetches a single order by identifier.
func (r *OrderRepository) GetByID(_ context.Context, orderID uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// List returns orders respecting the provided filter. Pagination is 1-based.
func (r *OrderRepository) List(_ context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Order
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		result = append(result, *cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.Order{}, nil
	}

	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Finalize is the pending-to-terminal compare-and-set. It reports false
// when the order was already settled by a concurrent writer.
func (r *OrderRepository) Finalize(_ context.Context, orderID uuid.UUID, status domain.OrderStatus, externalTxnID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return false, domain.ErrOrderNotFound
	}

	if order.Status != domain.OrderStatusPending {
		return false, nil
	}

	order.Status = status
	order.ExternalTxnID = externalTxnID
	order.UpdatedAt = time.Now().UTC()
	return true, nil
}

// RecordConfirmation stores the first delivery for an external transaction
// id; duplicates are no-ops.
func (r *OrderRepository) RecordConfirmation(_ context.Context, conf domain.PaymentConfirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.confirmations[conf.ExternalTxnID]; ok {
		return nil
	}
	r.confirmations[conf.ExternalTxnID] = conf
	return nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	out := *order
	out.Lines = make([]domain.OrderLine, len(order.Lines))
	copy(out.Lines, order.Lines)
	return &out
}
