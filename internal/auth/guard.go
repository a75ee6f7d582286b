package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"roster/internal/auth/session"
	"roster/internal/identity"
)

// Guard is the authorization checkpoint for protected routes. It resolves
// a session token to the current principal, collapsing every session
// failure (missing, expired, revoked, dangling principal) into the single
// ErrUnauthenticated signal.
type Guard struct {
	sessions *session.Manager
}

// NewGuard constructs a Guard over the session manager.
func NewGuard(sessions *session.Manager) *Guard {
	return &Guard{sessions: sessions}
}

// Authorize resolves token to a principal. An empty token fails without
// touching storage. Storage failures propagate unchanged; only session
// failures are collapsed.
func (g *Guard) Authorize(ctx context.Context, now time.Time, token string) (identity.Summary, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Summary{}, ErrUnauthenticated
	}

	p, err := g.sessions.Deserialize(ctx, now, token)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound),
			errors.Is(err, session.ErrExpired),
			errors.Is(err, session.ErrDanglingPrincipal):
			return identity.Summary{}, ErrUnauthenticated
		default:
			return identity.Summary{}, err
		}
	}

	return p, nil
}
