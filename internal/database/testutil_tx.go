package database

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDatabaseURLEnv names the variable that enables integration tests.
const TestDatabaseURLEnv = "TEST_DATABASE_URL"

// shared is migrated and connected once per test binary.
var shared struct {
	once sync.Once
	pool *pgxpool.Pool
	err  error
}

// TestPool returns the shared pool for integration tests, skipping t when
// TEST_DATABASE_URL is unset.
func TestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(TestDatabaseURLEnv)
	if url == "" {
		t.Skip(TestDatabaseURLEnv + " not set, skipping integration test")
	}

	shared.once.Do(func() {
		if shared.err = RunMigrations(url); shared.err != nil {
			return
		}
		shared.pool, shared.err = Connect(context.Background(), url, PoolOptions{MaxConns: 8})
	})
	if shared.err != nil {
		t.Fatalf("integration database unavailable: %v", shared.err)
	}
	return shared.pool
}

// TestTx begins a transaction on the shared pool and rolls it back in
// t.Cleanup. Rows written by one test are never seen by another, so tests
// may call t.Parallel.
func TestTx(t *testing.T) Querier {
	t.Helper()

	tx, err := TestPool(t).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin test transaction: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}
