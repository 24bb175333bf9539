package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/glizzus/c2rec/internal/datalayer"
	"github.com/glizzus/c2rec/internal/repository"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestRecordingDuration(t *testing.T) {
	rec := repository.Recording{Mode: codec2.Mode700C, Frames: 150}
	if got, want := rec.Duration(), 3*time.Second; got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
}

func TestMemoryRecordingRepository(t *testing.T) {
	repo := repository.NewMemoryRecordingRepository()
	base := time.Date(2024, 10, 29, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		err := repo.Save(t.Context(), repository.Recording{
			ID:        id,
			Mode:      codec2.Mode2400,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := repo.List(t.Context(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := []string{got[0].ID, got[1].ID}
	if diff := cmp.Diff([]string{"c", "b"}, ids); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.List(t.Context(), -1); !errors.Is(err, repository.ErrNegativeLimit) {
		t.Errorf("expected ErrNegativeLimit, got %v", err)
	}

	if _, err := repo.Get(t.Context(), "missing"); !errors.Is(err, repository.ErrRecordingNotFound) {
		t.Errorf("expected ErrRecordingNotFound, got %v", err)
	}
}

func TestPostgresRecordingRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := t.Context()
	postgresContainer, err := postgres.Run(
		ctx,
		"postgres",
		postgres.WithDatabase("c2rec"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate postgres container: %v", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create postgres pool: %v", err)
	}
	defer pool.Close()

	if err := datalayer.MigratePostgres(pool); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	repo := repository.NewPostgresRecordingRepository(pool)

	want := repository.Recording{
		ID:        "0192d8a4-7c3e-7a41-9b2e-c0ffee084f27",
		Name:      "field notes",
		Mode:      codec2.Mode700C,
		SideInfo:  true,
		Frames:    250,
		SizeBytes: 7 + 250*6,
		ObjectKey: "recordings/0192d8a4-7c3e-7a41-9b2e-c0ffee084f27.c2",
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("failed to save recording: %v", err)
	}

	t.Run("The recording should be readable by ID", func(t *testing.T) {
		got, err := repo.Get(ctx, want.ID)
		if err != nil {
			t.Fatalf("failed to get recording: %v", err)
		}
		if got.CreatedAt.IsZero() {
			t.Errorf("expected created_at to be set")
		}
		if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(repository.Recording{}, "CreatedAt")); diff != "" {
			t.Errorf("Get() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("The recording should be listed", func(t *testing.T) {
		got, err := repo.List(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list recordings: %v", err)
		}
		if len(got) != 1 || got[0].ID != want.ID {
			t.Errorf("List() = %+v, want only %s", got, want.ID)
		}
	})

	t.Run("A negative limit should be rejected", func(t *testing.T) {
		if _, err := repo.List(ctx, -1); !errors.Is(err, repository.ErrNegativeLimit) {
			t.Errorf("expected ErrNegativeLimit, got %v", err)
		}
	})

	t.Run("An unknown ID should not be found", func(t *testing.T) {
		_, err := repo.Get(ctx, "00000000-0000-7000-8000-000000000000")
		if !errors.Is(err, repository.ErrRecordingNotFound) {
			t.Errorf("expected ErrRecordingNotFound, got %v", err)
		}
	})
}
