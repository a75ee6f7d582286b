package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
// Errors are mapped to identity sentinel kinds where appropriate.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed principal store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const principalColumns = `id, email, email_norm, display_name, credential, created_at, updated_at`

func scanPrincipal(row pgx.Row) (Principal, error) {
	var p Principal
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.EmailNorm,
		&p.DisplayName,
		&p.Credential,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Principal, error) {
	const op = "identity.FindByEmail"

	p, err := scanPrincipal(s.pool.QueryRow(ctx, `
		SELECT `+principalColumns+`
		FROM principals
		WHERE email_norm = $1
	`, NormalizeEmail(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Principal{}, NotFoundError{Op: op, Resource: "principal"}
	}
	if err != nil {
		return Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (Principal, error) {
	const op = "identity.FindByID"

	p, err := scanPrincipal(s.pool.QueryRow(ctx, `
		SELECT `+principalColumns+`
		FROM principals
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Principal{}, NotFoundError{Op: op, Resource: "principal"}
	}
	if err != nil {
		return Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *PostgresStore) Insert(ctx context.Context, p Principal) error {
	const op = "identity.Insert"

	_, err := s.pool.Exec(ctx, `
		INSERT INTO principals (
			id, email, email_norm, display_name, credential, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Email, p.EmailNorm, p.DisplayName, p.Credential, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return ConflictError{Op: op, Field: "email"}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p Principal) error {
	const op = "identity.Update"

	tag, err := s.pool.Exec(ctx, `
		UPDATE principals
		SET email = $2, email_norm = $3, display_name = $4, credential = $5, updated_at = $6
		WHERE id = $1
	`, p.ID, p.Email, p.EmailNorm, p.DisplayName, p.Credential, p.UpdatedAt)
	if isUniqueViolation(err) {
		return ConflictError{Op: op, Field: "email"}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "principal"}
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	const op = "identity.Delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "principal"}
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Principal, error) {
	const op = "identity.List"

	rows, err := s.pool.Query(ctx, `
		SELECT `+principalColumns+`
		FROM principals
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
