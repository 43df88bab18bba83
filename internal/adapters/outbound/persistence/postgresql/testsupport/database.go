package testsupport

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"freightflow/internal/adapters/outbound/persistence/postgresql/bootstrap"
)

// MigratedDatabase opens TEST_DATABASE_URL with every migration applied, or skips the test.
func MigratedDatabase(t *testing.T) *sql.DB {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set TEST_DATABASE_URL to run integration test")
	}

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(currentFile), "..", "migrations")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gateway := bootstrap.NewGateway(databaseURL, "integration-target", migrationsPath, nil)
	if appErr := gateway.RunMigrations(ctx); appErr != nil {
		t.Fatalf("failed to apply migrations: %v", appErr)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
