package turso_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/adapters/turso"
	"github.com/emiliopalmerini/despertar/internal/migrate"
)

func testDB(t *testing.T) *turso.DB {
	t.Helper()

	ctx := context.Background()
	db, err := turso.Open(ctx, ":memory:", "")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := migrate.RunAll(ctx, db.DB, zap.NewNop()); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
