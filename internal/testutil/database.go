// Package testutil provides shared helpers for package tests: in-memory
// databases with migrations applied and builders for message fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/costwise/costwise/internal/service"
	"github.com/costwise/costwise/internal/storage"
)

// TestDB wraps an in-memory store for a single test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database with migrations applied.
// Cleanup is registered automatically.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}
