package session

import "errors"

var (
	// ErrNotFound is returned when no live session matches the id. Revoked
	// sessions are indistinguishable from ones that never existed.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when the session's absolute expiry has passed.
	ErrExpired = errors.New("session expired")

	// ErrDanglingPrincipal is returned when the session is live but its
	// principal no longer exists (e.g. deleted account).
	ErrDanglingPrincipal = errors.New("session principal no longer exists")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid session config")
)
