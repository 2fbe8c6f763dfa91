package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/shopspring/decimal"
)

// CatalogOracle reads current unit prices from the product catalog table.
// The checkout subsystem only ever reads it.
type CatalogOracle struct {
	pool *pgxpool.Pool
}

func NewCatalogOracle(pool *pgxpool.Pool) *CatalogOracle {
	return &CatalogOracle{pool: pool}
}

// LookupPrice returns the unit price and whether the product exists.
func (o *CatalogOracle) LookupPrice(ctx context.Context, productID uuid.UUID) (domain.Money, bool, error) {
	query := `SELECT price_amount, price_currency FROM products WHERE id = $1`

	var (
		amount decimal.Decimal
		code   string
	)
	err := o.pool.QueryRow(ctx, query, productID).Scan(&amount, &code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Money{}, false, nil
		}
		return domain.Money{}, false, fmt.Errorf("select product price: %w", err)
	}

	price, err := moneyFromColumns(amount, code)
	if err != nil {
		return domain.Money{}, false, err
	}

	return price, true, nil
}
