package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
)

// PriceOracle is a map-backed catalog lookup for local development and tests.
type PriceOracle struct {
	mu     sync.RWMutex
	prices map[uuid.UUID]domain.Money
}

func NewPriceOracle() *PriceOracle {
	return &PriceOracle{prices: make(map[uuid.UUID]domain.Money)}
}

// SetPrice registers or updates the unit price for a product.
func (o *PriceOracle) SetPrice(productID uuid.UUID, price domain.Money) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[productID] = price
}

// LookupPrice returns the unit price and whether the product exists.
func (o *PriceOracle) LookupPrice(_ context.Context, productID uuid.UUID) (domain.Money, bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	price, ok := o.prices[productID]
	if !ok {
		return domain.Money{}, false, nil
	}
	return price, true, nil
}
