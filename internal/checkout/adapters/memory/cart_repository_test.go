package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/adapters/memory"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var npr = currency.MustParseISO("NPR")

func money(amount int64) domain.Money {
	return domain.NewMoney(decimal.NewFromInt(amount), npr)
}

func TestGetOrCreateOpen(t *testing.T) {
	t.Run("creates an empty open cart on first use", func(t *testing.T) {
		repo := memory.NewCartRepository(npr)

		cart, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if cart.Status != domain.CartStatusOpen {
			t.Errorf("expected open cart, got %s", cart.Status)
		}
		if len(cart.Lines) != 0 {
			t.Errorf("expected empty cart, got %d lines", len(cart.Lines))
		}
		if !cart.Total.IsZero() {
			t.Errorf("expected zero total, got %s", cart.Total)
		}
	})

	t.Run("returns the same cart on repeat calls", func(t *testing.T) {
		repo := memory.NewCartRepository(npr)

		first, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
		if err != nil {
			t.Fatal(err)
		}
		second, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
		if err != nil {
			t.Fatal(err)
		}

		if first.ID != second.ID {
			t.Errorf("expected one open cart per owner, got %s and %s", first.ID, second.ID)
		}
	})

	t.Run("concurrent calls produce exactly one open cart", func(t *testing.T) {
		repo := memory.NewCartRepository(npr)

		const workers = 32
		ids := make([]uuid.UUID, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				cart, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
				if err != nil {
					t.Errorf("worker %d: %v", i, err)
					return
				}
				ids[i] = cart.ID
			}(i)
		}
		wg.Wait()

		for i := 1; i < workers; i++ {
			if ids[i] != ids[0] {
				t.Fatalf("worker %d got cart %s, worker 0 got %s", i, ids[i], ids[0])
			}
		}
	})
}

func TestAddLine(t *testing.T) {
	t.Run("merges repeat adds of the same product", func(t *testing.T) {
		repo := memory.NewCartRepository(npr)
		cart, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
		if err != nil {
			t.Fatal(err)
		}
		productID := uuid.New()

		if _, err := repo.AddLine(context.Background(), cart.ID, productID, money(100), 1); err != nil {
			t.Fatal(err)
		}
		got, err := repo.AddLine(context.Background(), cart.ID, productID, money(120), 2)
		if err != nil {
			t.Fatal(err)
		}

		if len(got.Lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(got.Lines))
		}
		if got.Lines[0].Quantity != 3 {
			t.Errorf("expected quantity 3, got %d", got.Lines[0].Quantity)
		}
		if !got.Lines[0].UnitPrice.Equal(money(100)) {
			t.Errorf("expected first-add price 100 NPR, got %s", got.Lines[0].UnitPrice)
		}
		if !got.Total.Equal(money(300)) {
			t.Errorf("expected total 300 NPR, got %s", got.Total)
		}
	})

	t.Run("concurrent adds never desync the total", func(t *testing.T) {
		repo := memory.NewCartRepository(npr)
		cart, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
		if err != nil {
			t.Fatal(err)
		}
		productID := uuid.New()

		const workers = 50
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.AddLine(context.Background(), cart.ID, productID, money(10), 1); err != nil {
					t.Error(err)
				}
			}()
		}
		wg.Wait()

		got, err := repo.GetOpen(context.Background(), "owner-1")
		if err != nil {
			t.Fatal(err)
		}

		if got.Lines[0].Quantity != workers {
			t.Errorf("expected quantity %d, got %d", workers, got.Lines[0].Quantity)
		}
		if !got.Total.Equal(money(10 * workers)) {
			t.Errorf("expected total %d NPR, got %s", 10*workers, got.Total)
		}
	})

	t.Run("mutating a checked-out cart fails", func(t *testing.T) {
		repo := memory.NewCartRepository(npr)
		orders := memory.NewOrderRepository(repo)

		cart, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := repo.AddLine(context.Background(), cart.ID, uuid.New(), money(10), 1); err != nil {
			t.Fatal(err)
		}
		if _, err := orders.CreateFromCart(context.Background(), cart.ID); err != nil {
			t.Fatal(err)
		}

		_, err = repo.AddLine(context.Background(), cart.ID, uuid.New(), money(10), 1)
		if !errors.Is(err, domain.ErrCartCheckedOut) {
			t.Errorf("expected ErrCartCheckedOut, got: %v", err)
		}
	})
}

func TestAdjustAndRemoveLine(t *testing.T) {
	repo := memory.NewCartRepository(npr)
	cart, err := repo.GetOrCreateOpen(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.AddLine(context.Background(), cart.ID, uuid.New(), money(40), 3)
	if err != nil {
		t.Fatal(err)
	}
	lineID := got.Lines[0].ID

	t.Run("negative delta shrinks the line", func(t *testing.T) {
		got, err := repo.AdjustLine(context.Background(), cart.ID, lineID, -1)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.Lines[0].Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", got.Lines[0].Quantity)
		}
		if !got.Total.Equal(money(80)) {
			t.Errorf("expected total 80 NPR, got %s", got.Total)
		}
	})

	t.Run("delta to zero removes the line", func(t *testing.T) {
		got, err := repo.AdjustLine(context.Background(), cart.ID, lineID, -2)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(got.Lines) != 0 {
			t.Errorf("expected no lines, got %d", len(got.Lines))
		}
		if !got.Total.IsZero() {
			t.Errorf("expected zero total, got %s", got.Total)
		}
	})

	t.Run("removing an unknown line fails", func(t *testing.T) {
		_, err := repo.RemoveLine(context.Background(), cart.ID, lineID)
		if !errors.Is(err, domain.ErrLineNotFound) {
			t.Errorf("expected ErrLineNotFound, got: %v", err)
		}
	})
}
