package database

import (
	"context"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckHealth reports whether the database answers within the probe
// deadline. Used by the readiness endpoint.
func CheckHealth(ctx context.Context, pool Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	return pool.Ping(ctx)
}
