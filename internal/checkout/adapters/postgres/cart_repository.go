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
	"golang.org/x/text/currency"
)

// CartRepository persists carts and their lines. Every mutating method
// locks the cart row and commits the line change together with the derived
// total, so readers never observe lines inconsistent with the cached total.
type CartRepository struct {
	pool *pgxpool.Pool
	unit currency.Unit
}

// NewCartRepository constructs a cart repository opening new carts in the
// given currency.
func NewCartRepository(pool *pgxpool.Pool, unit currency.Unit) *CartRepository {
	return &CartRepository{pool: pool, unit: unit}
}

// GetOrCreateOpen upserts the owner's open cart. The partial unique index
// on (owner_id) WHERE status = 'open' makes this safe under concurrency:
// one insert wins, everyone reads the same row back.
func (r *CartRepository) GetOrCreateOpen(ctx context.Context, ownerID string) (*domain.Cart, error) {
	query := `
		INSERT INTO carts (id, owner_id, status, total_amount, total_currency)
		VALUES ($1, $2, 'open', 0, $3)
		ON CONFLICT (owner_id) WHERE status = 'open' DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, uuid.New(), ownerID, r.unit.String()); err != nil {
		return nil, mapPgError(fmt.Errorf("insert open cart: %w", err))
	}

	cart, err := r.GetOpen(ctx, ownerID)
	if err != nil {
		// The freshly upserted cart can only be gone if a concurrent
		// checkout flipped it between the two statements.
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, domain.ErrConcurrentModification
		}
		return nil, err
	}

	return cart, nil
}

// GetOpen returns the owner's open cart with its lines.
func (r *CartRepository) GetOpen(ctx context.Context, ownerID string) (*domain.Cart, error) {
	query := `
		SELECT id, owner_id, status, total_amount, total_currency, created_at, updated_at
		FROM carts
		WHERE owner_id = $1 AND status = 'open'
	`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("select open cart: %w", err)
	}

	cart.Lines, err = loadCartLines(ctx, r.pool, cart.ID)
	if err != nil {
		return nil, err
	}

	return cart, nil
}

// GetByID fetches any cart, including checked-out ones kept for audit.
func (r *CartRepository) GetByID(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT id, owner_id, status, total_amount, total_currency, created_at, updated_at
		FROM carts
		WHERE id = $1
	`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, cartID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	cart.Lines, err = loadCartLines(ctx, r.pool, cart.ID)
	if err != nil {
		return nil, err
	}

	return cart, nil
}

// AddLine merges a product into the cart. The price snapshot taken at
// first add is kept on conflict; only the quantity grows.
func (r *CartRepository) AddLine(ctx context.Context, cartID, productID uuid.UUID, unitPrice domain.Money, quantity int32) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	return withTx(ctx, r.pool, func(tx pgx.Tx) (*domain.Cart, error) {
		if err := lockOpenCart(ctx, tx, cartID); err != nil {
			return nil, err
		}

		var mixed int
		err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM cart_lines WHERE cart_id = $1 AND unit_price_currency <> $2`,
			cartID, unitPrice.Currency.String(),
		).Scan(&mixed)
		if err != nil {
			return nil, fmt.Errorf("check line currencies: %w", err)
		}
		if mixed > 0 {
			return nil, domain.ErrCurrencyMismatch
		}

		upsert := `
			INSERT INTO cart_lines (id, cart_id, product_id, unit_price_amount, unit_price_currency, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (cart_id, product_id)
			DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		`
		_, err = tx.Exec(ctx, upsert,
			uuid.New(), cartID, productID, unitPrice.Amount, unitPrice.Currency.String(), quantity)
		if err != nil {
			return nil, fmt.Errorf("upsert cart line: %w", err)
		}

		if err := recomputeTotal(ctx, tx, cartID); err != nil {
			return nil, err
		}

		return loadCart(ctx, tx, cartID)
	})
}

// AdjustLine changes a line's quantity by delta; zero or below removes it.
func (r *CartRepository) AdjustLine(ctx context.Context, cartID, lineID uuid.UUID, delta int32) (*domain.Cart, error) {
	return withTx(ctx, r.pool, func(tx pgx.Tx) (*domain.Cart, error) {
		if err := lockOpenCart(ctx, tx, cartID); err != nil {
			return nil, err
		}

		// The CHECK (quantity >= 1) constraint forbids ever writing a
		// zero quantity, so a delta that empties the line must delete
		// instead of update. The cart row lock serializes both paths.
		tag, err := tx.Exec(ctx,
			`DELETE FROM cart_lines WHERE id = $2 AND cart_id = $1 AND quantity + $3 <= 0`,
			cartID, lineID, delta)
		if err != nil {
			return nil, fmt.Errorf("remove emptied cart line: %w", err)
		}

		if tag.RowsAffected() == 0 {
			tag, err = tx.Exec(ctx,
				`UPDATE cart_lines SET quantity = quantity + $3 WHERE id = $2 AND cart_id = $1`,
				cartID, lineID, delta)
			if err != nil {
				return nil, fmt.Errorf("adjust cart line: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return nil, domain.ErrLineNotFound
			}
		}

		if err := recomputeTotal(ctx, tx, cartID); err != nil {
			return nil, err
		}

		return loadCart(ctx, tx, cartID)
	})
}

// RemoveLine deletes a line and recomputes the total in the same commit.
func (r *CartRepository) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*domain.Cart, error) {
	return withTx(ctx, r.pool, func(tx pgx.Tx) (*domain.Cart, error) {
		if err := lockOpenCart(ctx, tx, cartID); err != nil {
			return nil, err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE id = $2 AND cart_id = $1`, cartID, lineID)
		if err != nil {
			return nil, fmt.Errorf("delete cart line: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrLineNotFound
		}

		if err := recomputeTotal(ctx, tx, cartID); err != nil {
			return nil, err
		}

		return loadCart(ctx, tx, cartID)
	})
}

// lockOpenCart serializes cart work on the cart row. Mutations against a
// checked-out cart fail here rather than racing the checkout snapshot.
func lockOpenCart(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCartNotFound
		}
		return fmt.Errorf("lock cart: %w", err)
	}

	if domain.CartStatus(status) != domain.CartStatusOpen {
		return domain.ErrCartCheckedOut
	}
	return nil
}

// recomputeTotal derives the cached total from the lines inside the same
// transaction as the line mutation.
func recomputeTotal(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	query := `
		UPDATE carts
		SET total_amount = COALESCE(agg.total, 0),
		    total_currency = COALESCE(agg.cur, carts.total_currency),
		    updated_at = now()
		FROM (
			SELECT SUM(unit_price_amount * quantity) AS total,
			       MIN(unit_price_currency) AS cur
			FROM cart_lines
			WHERE cart_id = $1
		) agg
		WHERE carts.id = $1
	`

	if _, err := tx.Exec(ctx, query, cartID); err != nil {
		return fmt.Errorf("recompute cart total: %w", err)
	}
	return nil
}

// loadCart reads the cart and its lines through the given querier, which
// inside a transaction reflects uncommitted writes.
func loadCart(ctx context.Context, q querier, cartID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT id, owner_id, status, total_amount, total_currency, created_at, updated_at
		FROM carts
		WHERE id = $1
	`

	cart, err := scanCart(q.QueryRow(ctx, query, cartID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	cart.Lines, err = loadCartLines(ctx, q, cartID)
	if err != nil {
		return nil, err
	}

	return cart, nil
}

func loadCartLines(ctx context.Context, q querier, cartID uuid.UUID) ([]domain.CartLine, error) {
	query := `
		SELECT id, cart_id, product_id, unit_price_amount, unit_price_currency, quantity, created_at
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var (
			line   domain.CartLine
			amount decimal.Decimal
			code   string
		)
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &amount, &code, &line.Quantity, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}

		line.UnitPrice, err = moneyFromColumns(amount, code)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	return lines, nil
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var (
		cart   domain.Cart
		status string
		amount decimal.Decimal
		code   string
	)
	if err := row.Scan(&cart.ID, &cart.OwnerID, &status, &amount, &code, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, err
	}

	cart.Status = domain.CartStatus(status)

	total, err := moneyFromColumns(amount, code)
	if err != nil {
		return nil, err
	}
	cart.Total = total

	return &cart, nil
}

func moneyFromColumns(amount decimal.Decimal, code string) (domain.Money, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency %q is not valid: %w", code, err)
	}
	return domain.Money{Amount: amount, Currency: unit}, nil
}
