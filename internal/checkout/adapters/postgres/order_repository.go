package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
	"github.com/shopspring/decimal"
)

// OrderRepository persists checkout snapshots and payment state.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateFromCart snapshots the cart into a pending order and flips the
// cart to checked_out in one transaction. The cart row lock pins the
// linearization point: a racing line mutation either committed before the
// lock was taken (and ships with the order) or fails afterwards with
// ErrCartCheckedOut.
func (r *OrderRepository) CreateFromCart(ctx context.Context, cartID uuid.UUID) (*domain.Order, error) {
	return withTx(ctx, r.pool, func(tx pgx.Tx) (*domain.Order, error) {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrCartNotFound
			}
			return nil, fmt.Errorf("lock cart: %w", err)
		}

		cart, err := loadCart(ctx, tx, cartID)
		if err != nil {
			return nil, err
		}

		order, err := domain.NewOrderFromCart(cart)
		if err != nil {
			return nil, err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE carts SET status = 'checked_out', updated_at = now() WHERE id = $1 AND status = 'open'`,
			cartID)
		if err != nil {
			return nil, fmt.Errorf("freeze cart: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrCartCheckedOut
		}

		insertOrder := `
			INSERT INTO orders (id, cart_id, total_amount, total_currency, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.Exec(ctx, insertOrder,
			order.ID, order.CartID, order.Total.Amount, order.Total.Currency.String(),
			order.Status, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}

		insertLine := `
			INSERT INTO order_lines (id, order_id, product_id, unit_price_amount, unit_price_currency, quantity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for i, line := range order.Lines {
			_, err = tx.Exec(ctx, insertLine,
				line.ID, line.OrderID, line.ProductID,
				line.UnitPrice.Amount, line.UnitPrice.Currency.String(), line.Quantity, i)
			if err != nil {
				return nil, fmt.Errorf("insert order line: %w", err)
			}
		}

		return order, nil
	})
}

// GetByID fetches an order with its frozen lines.
func (r *OrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, cart_id, total_amount, total_currency, status, external_txn_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	order.Lines, err = r.loadOrderLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// List returns orders respecting the provided filter.
func (r *OrderRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT id, cart_id, total_amount, total_currency, status, external_txn_id, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}

	rows, err := r.pool.Query(ctx, query, statusFilter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		order.Lines, err = r.loadOrderLines(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

// Finalize is the pending-to-terminal compare-and-set. Zero rows affected
// with an existing order means a concurrent delivery already settled it.
func (r *OrderRepository) Finalize(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, externalTxnID string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, external_txn_id = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.pool.Exec(ctx, query, orderID, status, externalTxnID, time.Now().UTC())
	if err != nil {
		return false, mapPgError(fmt.Errorf("finalize order: %w", err))
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return false, domain.ErrOrderNotFound
	}

	return false, nil
}

// RecordConfirmation keeps the first delivery per external transaction id.
func (r *OrderRepository) RecordConfirmation(ctx context.Context, conf domain.PaymentConfirmation) error {
	query := `
		INSERT INTO payment_confirmations (external_txn_id, order_id, verified_amount, verified_currency, gateway_status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_txn_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		conf.ExternalTxnID, conf.PurchaseOrderID,
		conf.VerifiedAmount.Amount, conf.VerifiedAmount.Currency.String(),
		conf.GatewayStatus, conf.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert payment confirmation: %w", err)
	}

	return nil
}

func (r *OrderRepository) loadOrderLines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, unit_price_amount, unit_price_currency, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var (
			line   domain.OrderLine
			amount decimal.Decimal
			code   string
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &amount, &code, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}

		line.UnitPrice, err = moneyFromColumns(amount, code)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return lines, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
		amount decimal.Decimal
		code   string
		txnID  *string
	)
	if err := row.Scan(&order.ID, &order.CartID, &amount, &code, &status, &txnID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	if txnID != nil {
		order.ExternalTxnID = *txnID
	}

	total, err := moneyFromColumns(amount, code)
	if err != nil {
		return nil, err
	}
	order.Total = total

	return &order, nil
}
