//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"go-book-library/internal/database"
)

// setupPostgres starts a PostgreSQL container, applies migrations and
// returns a connected DB. Tests are skipped when no container runtime is available.
func setupPostgres(t *testing.T) *database.DB {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("books_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(ctx, database.Options{URL: connStr, MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	// Second run is a no-op.
	require.NoError(t, db.Migrate(ctx))

	return db
}

func truncate(t *testing.T, db *database.DB) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), `TRUNCATE books, users`)
	require.NoError(t, err)
}

func TestPostgresRepositories(t *testing.T) {
	db := setupPostgres(t)

	t.Run("users", func(t *testing.T) {
		truncate(t, db)
		runUserRepositoryContract(t, NewUserRepository(db.Pool))
	})

	t.Run("books", func(t *testing.T) {
		truncate(t, db)
		runBookRepositoryContract(t, NewUserRepository(db.Pool), NewBookRepository(db.Pool))
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, db.Health(context.Background()))
	})
}
