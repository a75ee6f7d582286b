package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL. The pool is owned by
// the caller.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("session: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, sess Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (
			id, principal_id, created_at, expires_at, revoked_at
		) VALUES ($1, $2, $3, $4, NULL)
	`, sess.ID, sess.PrincipalID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("session.Create: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (Session, error) {
	var sess Session

	err := s.pool.QueryRow(ctx, `
		SELECT id, principal_id, created_at, expires_at, revoked_at
		FROM sessions
		WHERE id = $1
	`, sessionID).Scan(
		&sess.ID,
		&sess.PrincipalID,
		&sess.CreatedAt,
		&sess.ExpiresAt,
		&sess.RevokedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session.Get: %w", err)
	}

	return sess, nil
}

func (s *PostgresStore) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE sessions
		SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL
	`, sessionID, now)
	if err != nil {
		return fmt.Errorf("session.Revoke: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("session.Delete: %w", err)
	}
	return nil
}
