package session

import (
	"context"
	"time"

	"roster/internal/identity"
)

// Manager implements the session lifecycle: Serialize on login,
// Deserialize on each authenticated request, Revoke on logout.
//
// State machine per session: Active -> Expired (past ExpiresAt, treated as
// absent) or Active -> Revoked (explicit logout, terminal). There is no
// transition back to Active.
type Manager struct {
	cfg        Config
	store      Store
	principals identity.Store
}

// NewManager constructs a Manager over the given session store and
// principal store. The principal store is consulted on every Deserialize
// so the returned principal always reflects current profile state.
func NewManager(cfg Config, store Store, principals identity.Store) *Manager {
	return &Manager{cfg: cfg, store: store, principals: principals}
}

// Serialize allocates a new session for the authenticated principal.
// Only the principal id is persisted; no sanitized-but-still-sensitive
// fields are copied into the record.
func (m *Manager) Serialize(ctx context.Context, now time.Time, principal identity.Summary) (Session, error) {
	id, err := NewSessionID(m.cfg.IDBytes)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		ID:          id,
		PrincipalID: principal.ID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.cfg.TTL),
	}

	if err := m.store.Create(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Deserialize resolves a session id back into its principal.
//
// Failure modes:
//   - ErrNotFound: unknown or revoked session id.
//   - ErrExpired: past ExpiresAt; the record is lazily deleted.
//   - ErrDanglingPrincipal: session is live but the account was deleted.
func (m *Manager) Deserialize(ctx context.Context, now time.Time, sessionID string) (identity.Summary, error) {
	if sessionID == "" {
		return identity.Summary{}, ErrNotFound
	}

	s, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return identity.Summary{}, err
	}

	// Revoked sessions are indistinguishable from missing ones.
	if s.RevokedAt != nil {
		return identity.Summary{}, ErrNotFound
	}

	if !now.Before(s.ExpiresAt) {
		// Lazy cleanup; best-effort, expiry holds regardless.
		_ = m.store.Delete(ctx, sessionID)
		return identity.Summary{}, ErrExpired
	}

	p, err := m.principals.FindByID(ctx, s.PrincipalID)
	if err != nil {
		if identity.IsNotFound(err) {
			return identity.Summary{}, ErrDanglingPrincipal
		}
		return identity.Summary{}, err
	}

	return p.Summary(), nil
}

// Revoke transitions the session to Revoked regardless of current state.
// Idempotent: revoking an unknown or already-revoked id succeeds.
func (m *Manager) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Revoke(ctx, now, sessionID)
}
