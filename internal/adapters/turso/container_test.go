package turso_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/adapters/turso"
	"github.com/emiliopalmerini/despertar/internal/migrate"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

// testTursoDB starts a libsql-server container and returns a migrated
// connection to it. It needs Docker, so it only runs when
// DESPERTAR_CONTAINER_TESTS is set.
func testTursoDB(t *testing.T) *turso.DB {
	t.Helper()
	if testing.Short() || os.Getenv("DESPERTAR_CONTAINER_TESTS") == "" {
		t.Skip("set DESPERTAR_CONTAINER_TESTS to run against a libsql-server container")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "ghcr.io/tursodatabase/libsql-server:latest",
			ExposedPorts: []string{"8080/tcp"},
			WaitingFor:   wait.ForHTTP("/health").WithPort("8080/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Turso container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "8080")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	db, err := turso.Open(ctx, fmt.Sprintf("http://%s:%s", host, port.Port()), "")
	if err != nil {
		t.Fatalf("Failed to connect to Turso: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrate.RunAll(ctx, db.DB, zap.NewNop()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestKeyValueStore_AgainstTurso(t *testing.T) {
	db := testTursoDB(t)
	if db.Driver != turso.DriverLibsql {
		t.Fatalf("Expected libsql driver, got %s", db.Driver)
	}
	store := turso.NewKeyValueStore(db.DB)
	ctx := context.Background()

	if err := store.Set(ctx, "onboarding_u1", `{"stage":"onboarding"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, "onboarding_u1")
	if err != nil || got != `{"stage":"onboarding"}` {
		t.Errorf("Unexpected value %q (%v)", got, err)
	}
	if err := store.Remove(ctx, "onboarding_u1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Get(ctx, "onboarding_u1"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
