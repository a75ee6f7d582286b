package session

import (
	"context"
	"time"
)

// Session is the server-side record of an authenticated session.
//
// PrincipalID is a weak back-reference: the principal is re-resolved on
// every Deserialize so profile changes are never frozen into the session.
type Session struct {
	ID          string
	PrincipalID string

	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session is neither revoked nor expired at now.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Store abstracts persistence for session records.
//
// Implementations must provide atomic single-record operations; the
// Manager does no extra locking on top.
type Store interface {
	// Create persists a new session record.
	Create(ctx context.Context, s Session) error

	// Get loads a session record by id. ErrNotFound if absent.
	Get(ctx context.Context, sessionID string) (Session, error)

	// Revoke marks the session revoked. Idempotent; revoking a missing or
	// already-revoked session is not an error.
	Revoke(ctx context.Context, now time.Time, sessionID string) error

	// Delete removes the record entirely (expiry hygiene). Idempotent.
	Delete(ctx context.Context, sessionID string) error
}
