package e2e

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/glizzus/c2rec/internal/datalayer"
	"github.com/glizzus/c2rec/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	once              sync.Once
	postgresContainer *postgres.PostgresContainer
	connStr           string
	startErr          error
	wg                sync.WaitGroup
)

// UsePostgres signals that the test is using Postgres as its database.
// This will either provision or reuse a Postgres container for the test.
// Do not expect a clean state in the database; it is shared across tests.
func UsePostgres(t *testing.T) string {
	t.Helper()

	once.Do(func() {
		ctx := context.Background()
		postgresContainer, startErr = postgres.Run(
			ctx,
			"postgres",
			postgres.WithDatabase("c2rec"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			postgres.BasicWaitStrategies(),
		)
		if startErr != nil {
			return
		}
		connStr, startErr = postgresContainer.ConnectionString(ctx)
		if startErr != nil {
			return
		}

		var pool *pgxpool.Pool
		pool, startErr = pgxpool.New(ctx, connStr)
		if startErr != nil {
			return
		}
		defer pool.Close()

		startErr = datalayer.MigratePostgres(pool)
	})

	if startErr != nil {
		t.Fatalf("failed to start postgres container: %v", startErr)
	}
	wg.Add(1)
	t.Cleanup(wg.Done)

	return connStr
}

// GetRepository creates a PostgresRecordingRepository for testing.
// It performs no modifications or migrations on the database schema.
func GetRepository(t *testing.T, connStr string) *repository.PostgresRecordingRepository {
	t.Helper()
	pool, err := pgxpool.New(t.Context(), connStr)
	if err != nil {
		t.Fatalf("failed to create postgres pool: %v", err)
	}

	t.Cleanup(pool.Close)
	return repository.NewPostgresRecordingRepository(pool)
}

func TerminatePostgresForE2E() {
	wg.Wait()
	if postgresContainer != nil {
		err := postgresContainer.Terminate(context.Background())
		if err != nil {
			fmt.Printf("failed to terminate postgres container: %v", err)
		}
	}
}
