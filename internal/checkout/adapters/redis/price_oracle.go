package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prabinkarki/storefront/internal/checkout/domain"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
	"github.com/redis/go-redis/v9"
)

// CachedPriceOracle fronts a price oracle with a redis cache. Cache
// problems are logged and fall through to the inner oracle; a flaky cache
// must never block an add-to-cart.
type CachedPriceOracle struct {
	inner  ports.PriceOracle
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedPriceOracle(inner ports.PriceOracle, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedPriceOracle {
	return &CachedPriceOracle{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// LookupPrice serves from cache when possible. Only existing products are
// cached; misses always consult the catalog.
func (o *CachedPriceOracle) LookupPrice(ctx context.Context, productID uuid.UUID) (domain.Money, bool, error) {
	key := cacheKey(productID)

	cached, err := o.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		price, parseErr := decodePrice(cached)
		if parseErr == nil {
			return price, true, nil
		}
		o.logger.WarnContext(ctx, "dropping malformed cached price", "key", key, "error", parseErr)
	case err != redis.Nil:
		o.logger.WarnContext(ctx, "price cache read failed", "key", key, "error", err)
	}

	price, exists, err := o.inner.LookupPrice(ctx, productID)
	if err != nil || !exists {
		return price, exists, err
	}

	if err := o.client.Set(ctx, key, encodePrice(price), o.ttl).Err(); err != nil {
		o.logger.WarnContext(ctx, "price cache write failed", "key", key, "error", err)
	}

	return price, true, nil
}

func cacheKey(productID uuid.UUID) string {
	return fmt.Sprintf("checkout:price:%s", productID)
}

func encodePrice(price domain.Money) string {
	return fmt.Sprintf("%s|%s", price.Amount.String(), price.Currency.String())
}

func decodePrice(raw string) (domain.Money, error) {
	amount, code, ok := strings.Cut(raw, "|")
	if !ok {
		return domain.Money{}, fmt.Errorf("malformed cached price %q", raw)
	}
	return domain.ParseMoney(amount, code)
}
