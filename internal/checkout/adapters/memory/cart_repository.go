package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"golang.org/x/text/currency"
)

// CartRepository provides an in-memory ledger useful for local development
// and tests. A single mutex serializes all cart mutations, which gives the
// same per-cart read-modify-write guarantee the postgres adapter gets from
// row locks.
type CartRepository struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*domain.Cart
	unit  currency.Unit
}

// NewCartRepository constructs an in-memory cart repository. New carts are
// opened in the given currency.
func NewCartRepository(unit currency.Unit) *CartRepository {
	return &CartRepository{
		carts: make(map[uuid.UUID]*domain.Cart),
		unit:  unit,
	}
}

// GetOrCreateOpen returns the owner's open cart, creating an empty one when
// none exists. The whole lookup-or-insert runs under the store lock, so two
// concurrent calls can never produce two open carts for one owner.
func (r *CartRepository) GetOrCreateOpen(_ context.Context, ownerID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart := r.openForOwner(ownerID); cart != nil {
		return cloneCart(cart), nil
	}

	cart := domain.NewOpenCart(ownerID, r.unit)
	r.carts[cart.ID] = &cart
	return cloneCart(&cart), nil
}

// GetOpen returns the owner's open cart or domain.ErrCartNotFound.
func (r *CartRepository) GetOpen(_ context.Context, ownerID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.openForOwner(ownerID)
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

// GetByID fetches any cart by identifier, checked-out ones included.
func (r *CartRepository) GetByID(_ context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

// AddLine merges a product into the cart and recomputes the total under
// the same lock.
func (r *CartRepository) AddLine(_ context.Context, cartID, productID uuid.UUID, unitPrice domain.Money, quantity int32) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	if err := cart.MergeLine(productID, unitPrice, quantity); err != nil {
		return nil, err
	}
	return cloneCart(cart), nil
}

// AdjustLine applies a quantity delta and recomputes the total.
func (r *CartRepository) AdjustLine(_ context.Context, cartID, lineID uuid.UUID, delta int32) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	if err := cart.AdjustLine(lineID, delta); err != nil {
		return nil, err
	}
	return cloneCart(cart), nil
}

// RemoveLine deletes a line and recomputes the total.
func (r *CartRepository) RemoveLine(_ context.Context, cartID, lineID uuid.UUID) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	if err := cart.RemoveLine(lineID); err != nil {
		return nil, err
	}
	return cloneCart(cart), nil
}

// checkout snapshots the cart into a pending order and flips the cart to
// checked_out, all under the store lock. Used by the order repository so
// checkout and line mutations linearize against the same cart.
func (r *CartRepository) checkout(cartID uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	order, err := domain.NewOrderFromCart(cart)
	if err != nil {
		return nil, err
	}

	cart.Status = domain.CartStatusCheckedOut
	return order, nil
}

func (r *CartRepository) openForOwner(ownerID string) *domain.Cart {
	for _, cart := range r.carts {
		if cart.OwnerID == ownerID && cart.IsOpen() {
			return cart
		}
	}
	return nil
}

func cloneCart(cart *domain.Cart) *domain.Cart {
	out := *cart
	out.Lines = make([]domain.CartLine, len(cart.Lines))
	copy(out.Lines, cart.Lines)
	return &out
}
