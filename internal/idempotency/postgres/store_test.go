//go:build integration

package postgres_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
	"github.com/prabinkarki/storefront/internal/database"
	"github.com/prabinkarki/storefront/internal/idempotency/postgres"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testpostgres.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	migrationsPath := filepath.Join(findProjectRoot(t), "migrations")
	if err := database.RunMigrations(connStr, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	t.Cleanup(pool.Close)

	return pool
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewStore(pool)
	ctx := context.Background()

	stored := ports.StoredResponse{
		StatusCode: 201,
		Body:       []byte(`{"id":"order-abc","status":"pending"}`),
		OrderID:    "order-abc",
	}

	if err := store.Save(ctx, "checkout-key-1", stored); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Get(ctx, "checkout-key-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a replayed response, got nil")
	}

	if got.StatusCode != stored.StatusCode {
		t.Errorf("expected status %d, got %d", stored.StatusCode, got.StatusCode)
	}
	if !bytes.Equal(got.Body, stored.Body) {
		t.Errorf("expected body %s, got %s", stored.Body, got.Body)
	}
	if got.OrderID != stored.OrderID {
		t.Errorf("expected order ID %s, got %s", stored.OrderID, got.OrderID)
	}
}

func TestStoreGetUnknownKey(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewStore(pool)

	got, err := store.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an unknown key, got %+v", got)
	}
}

func TestStoreSaveKeepsFirstResponse(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewStore(pool)
	ctx := context.Background()

	first := ports.StoredResponse{StatusCode: 201, Body: []byte(`{"id":"order-1"}`), OrderID: "order-1"}
	second := ports.StoredResponse{StatusCode: 200, Body: []byte(`{"id":"order-2"}`), OrderID: "order-2"}

	if err := store.Save(ctx, "checkout-key-dup", first); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save(ctx, "checkout-key-dup", second); err != nil {
		t.Fatalf("Save() on duplicate key failed: %v", err)
	}

	got, err := store.Get(ctx, "checkout-key-dup")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.OrderID != first.OrderID {
		t.Errorf("expected the first response to win, got order ID %s", got.OrderID)
	}
}
