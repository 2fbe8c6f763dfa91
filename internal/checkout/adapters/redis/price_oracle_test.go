package redis_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	redisadapter "github.com/prabinkarki/storefront/internal/checkout/adapters/redis"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type stubOracle struct {
	price  domain.Money
	exists bool
	calls  int
}

func (s *stubOracle) LookupPrice(context.Context, uuid.UUID) (domain.Money, bool, error) {
	s.calls++
	return s.price, s.exists, nil
}

// An unreachable cache must degrade to the inner oracle, never fail the
// lookup.
func TestLookupPriceCacheUnreachable(t *testing.T) {
	price := domain.NewMoney(decimal.NewFromInt(120), currency.MustParseISO("NPR"))
	inner := &stubOracle{price: price, exists: true}

	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	oracle := redisadapter.NewCachedPriceOracle(inner, client, time.Minute, slog.Default())

	got, exists, err := oracle.LookupPrice(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !exists {
		t.Fatal("expected product to exist")
	}
	if !got.Equal(price) {
		t.Errorf("expected %s, got %s", price, got)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 catalog lookup, got %d", inner.calls)
	}
}

func TestLookupPriceMissingProduct(t *testing.T) {
	inner := &stubOracle{}

	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	oracle := redisadapter.NewCachedPriceOracle(inner, client, time.Minute, slog.Default())

	_, exists, err := oracle.LookupPrice(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if exists {
		t.Error("expected missing product to stay missing")
	}
}
