package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
)

func TestNewOrderFromCart(t *testing.T) {
	t.Run("snapshots lines and total into a pending order", func(t *testing.T) {
		cart := openCart(t)
		if err := cart.MergeLine(uuid.New(), mustMoneyRaw("19.99", "NPR"), 2); err != nil {
			t.Fatal(err)
		}
		if err := cart.MergeLine(uuid.New(), mustMoneyRaw("5", "NPR"), 1); err != nil {
			t.Fatal(err)
		}

		order, err := domain.NewOrderFromCart(&cart)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status pending, got %s", order.Status)
		}
		if order.CartID != cart.ID {
			t.Errorf("expected cart id %s, got %s", cart.ID, order.CartID)
		}
		if len(order.Lines) != len(cart.Lines) {
			t.Fatalf("expected %d lines, got %d", len(cart.Lines), len(order.Lines))
		}
		if !order.Total.Equal(cart.Total) {
			t.Errorf("expected total %s, got %s", cart.Total, order.Total)
		}

		linesTotal, err := order.LinesTotal()
		if err != nil {
			t.Fatal(err)
		}
		if !linesTotal.Equal(order.Total) {
			t.Errorf("order total %s diverged from line sum %s", order.Total, linesTotal)
		}
	})

	t.Run("order lines are copies, not references", func(t *testing.T) {
		cart := openCart(t)
		productID := uuid.New()
		if err := cart.MergeLine(productID, mustMoneyRaw("10", "NPR"), 1); err != nil {
			t.Fatal(err)
		}

		order, err := domain.NewOrderFromCart(&cart)
		if err != nil {
			t.Fatal(err)
		}

		// A later cart mutation must not leak into the snapshot.
		cart.Lines[0].Quantity = 99

		if order.Lines[0].Quantity != 1 {
			t.Errorf("expected frozen quantity 1, got %d", order.Lines[0].Quantity)
		}
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		cart := openCart(t)

		_, err := domain.NewOrderFromCart(&cart)
		if !errors.Is(err, domain.ErrEmptyCart) {
			t.Errorf("expected ErrEmptyCart, got: %v", err)
		}
	})

	t.Run("rejects a checked-out cart", func(t *testing.T) {
		cart := openCart(t)
		if err := cart.MergeLine(uuid.New(), mustMoneyRaw("10", "NPR"), 1); err != nil {
			t.Fatal(err)
		}
		cart.Status = domain.CartStatusCheckedOut

		_, err := domain.NewOrderFromCart(&cart)
		if !errors.Is(err, domain.ErrCartCheckedOut) {
			t.Errorf("expected ErrCartCheckedOut, got: %v", err)
		}
	})
}

func TestOrderIsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status domain.OrderStatus
		want   bool
	}{
		{"paid is terminal", domain.OrderStatusPaid, true},
		{"failed is terminal", domain.OrderStatusFailed, true},
		{"pending is not terminal", domain.OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.Order{Status: tt.status}
			if got := order.IsTerminal(); got != tt.want {
				t.Errorf("Order.IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentConfirmationValidate(t *testing.T) {
	valid := domain.PaymentConfirmation{
		PurchaseOrderID: uuid.New(),
		ExternalTxnID:   "txn-1",
		VerifiedAmount:  mustMoneyRaw("10", "NPR"),
		GatewayStatus:   domain.GatewayStatusCompleted,
	}

	tests := []struct {
		name    string
		mutate  func(c *domain.PaymentConfirmation)
		wantErr bool
	}{
		{"valid confirmation", func(c *domain.PaymentConfirmation) {}, false},
		{"missing order id", func(c *domain.PaymentConfirmation) { c.PurchaseOrderID = uuid.Nil }, true},
		{"blank transaction id", func(c *domain.PaymentConfirmation) { c.ExternalTxnID = "   " }, true},
		{"negative amount", func(c *domain.PaymentConfirmation) { c.VerifiedAmount = mustMoneyRaw("-1", "NPR") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := valid
			tt.mutate(&conf)

			err := conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
