package identity

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests are opt-in and require ROSTER_TEST_DATABASE_URL.

func mustOpenTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("ROSTER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ROSTER_TEST_DATABASE_URL not set; skipping postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	return pool
}

func mustApplyPrincipalSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS principals (
			id           TEXT PRIMARY KEY,
			email        TEXT NOT NULL,
			email_norm   TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			credential   TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = pool.Exec(ctx, `TRUNCATE principals`)
	})
}

func TestPostgresStore_InsertConflictAndRoundtrip(t *testing.T) {
	pool := mustOpenTestPool(t)
	defer pool.Close()
	mustApplyPrincipalSchema(t, pool)

	s, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	p := newTestPrincipal(t, "pg@example.com", "PG")
	if err := s.Insert(ctx, p); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	dup := newTestPrincipal(t, "PG@example.com", "PG2")
	if err := s.Insert(ctx, dup); !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := s.FindByEmail(ctx, "pg@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != p.ID || got.Credential != p.Credential {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	got.DisplayName = "Renamed"
	got.UpdatedAt = time.Now().UTC()
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	again, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if again.DisplayName != "Renamed" {
		t.Fatalf("update not visible: %q", again.DisplayName)
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByID(ctx, p.ID); !IsNotFound(err) {
		t.Fatalf("expected not_found after delete, got %v", err)
	}
}
