package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
)

// PriceOracle looks up the current unit price for a product. The checkout
// subsystem treats the catalog as read-only; prices are snapshotted into
// cart lines at add time.
type PriceOracle interface {
	// LookupPrice returns the unit price and whether the product exists.
	LookupPrice(ctx context.Context, productID uuid.UUID) (domain.Money, bool, error)
}
