package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
)

// CartRepository is the ledger-store contract for cart state. Every
// mutating method commits the line change and the derived total in a
// single atomic unit: a reader never observes lines inconsistent with
// the cached total. Mutations against the same cart are serialized by
// the store (row lock or equivalent), so concurrent callers see a
// consistent read-modify-write.
type CartRepository interface {
	// GetOrCreateOpen returns the owner's open cart, creating an empty one
	// if none exists. At most one open cart per owner is enforced by the
	// store itself, not by check-then-act.
	GetOrCreateOpen(ctx context.Context, ownerID string) (*domain.Cart, error)

	// GetOpen returns the owner's open cart or domain.ErrCartNotFound.
	GetOpen(ctx context.Context, ownerID string) (*domain.Cart, error)

	// GetByID returns any cart, including checked-out ones kept for audit.
	GetByID(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error)

	// AddLine merges quantity of a product into the cart, snapshotting the
	// unit price on first add, and returns the updated cart.
	AddLine(ctx context.Context, cartID, productID uuid.UUID, unitPrice domain.Money, quantity int32) (*domain.Cart, error)

	// AdjustLine changes a line's quantity by delta; zero or below removes
	// the line. Returns the updated cart.
	AdjustLine(ctx context.Context, cartID, lineID uuid.UUID, delta int32) (*domain.Cart, error)

	// RemoveLine deletes a line and returns the updated cart.
	RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*domain.Cart, error)
}

// OrderRepository is the ledger-store contract for checkout snapshots and
// their payment state.
type OrderRepository interface {
	// CreateFromCart atomically snapshots the cart's current lines and total
	// into a pending order and flips the cart to checked_out. Exactly one
	// order is ever produced per cart.
	CreateFromCart(ctx context.Context, cartID uuid.UUID) (*domain.Order, error)

	GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)

	// Finalize is a compare-and-set from pending to the given terminal
	// status, recording the external transaction id in the same write.
	// It reports false when the order was not pending, in which case a
	// concurrent writer already settled it.
	Finalize(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, externalTxnID string) (bool, error)

	// RecordConfirmation keeps the raw confirmation as an audit row.
	// Duplicate deliveries for the same external transaction id are no-ops.
	RecordConfirmation(ctx context.Context, conf domain.PaymentConfirmation) error
}

// ListFilter narrows order listings by status and pagination.
type ListFilter struct {
	Status   *domain.OrderStatus
	Page     int
	PageSize int
}
