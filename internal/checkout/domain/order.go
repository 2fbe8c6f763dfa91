package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus captures the lifecycle of a checkout snapshot.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Valid reports whether s names a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// Order is an immutable snapshot of a cart taken at checkout. Later cart
// mutations never affect an existing order, and a terminal status never
// reverts.
type Order struct {
	ID            uuid.UUID   `json:"id"`
	CartID        uuid.UUID   `json:"cart_id"`
	Lines         []OrderLine `json:"lines"`
	Total         Money       `json:"total"`
	Status        OrderStatus `json:"status"`
	ExternalTxnID string      `json:"external_txn_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderLine is a frozen copy of a cart line.
type OrderLine struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	UnitPrice Money     `json:"unit_price"`
	Quantity  int32     `json:"quantity"`
}

// NewOrderFromCart snapshots an open, non-empty cart into a pending order.
// Both ledger adapters build checkout through this so the preconditions
// live in one place.
func NewOrderFromCart(cart *Cart) (*Order, error) {
	if !cart.IsOpen() {
		return nil, ErrCartCheckedOut
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	order := &Order{
		ID:        uuid.New(),
		CartID:    cart.ID,
		Total:     cart.Total,
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, line := range cart.Lines {
		order.Lines = append(order.Lines, OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	return order, nil
}

// IsTerminal indicates whether the order accepts no further transitions.
func (o Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// LinesTotal sums unit price times quantity over the frozen lines.
func (o Order) LinesTotal() (Money, error) {
	total := ZeroMoney(o.Total.Currency)
	for _, line := range o.Lines {
		sum, err := total.Add(line.UnitPrice.MulInt(int64(line.Quantity)))
		if err != nil {
			return Money{}, err
		}
		total = sum
	}
	return total, nil
}
