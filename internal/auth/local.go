package auth

import (
	"context"

	"roster/internal/identity"
	"roster/internal/security/credential"
)

// LocalName is the registration key of the password strategy.
const LocalName = "local"

// Local authenticates principals by email + password against the
// principal store. It holds no mutable state after construction.
type Local struct {
	codec      credential.Config
	principals identity.Store

	// dummy is verified when the identifier is unknown so that lookup
	// misses cost roughly the same as a wrong password.
	dummy string
}

// NewLocal constructs the password strategy.
func NewLocal(codec credential.Config, principals identity.Store) (*Local, error) {
	dummy, err := codec.Derive("dummy-password-for-timing-only")
	if err != nil {
		return nil, err
	}

	return &Local{
		codec:      codec,
		principals: principals,
		dummy:      dummy,
	}, nil
}

// Name implements Strategy.
func (l *Local) Name() string { return LocalName }

// Authenticate implements Strategy.
//
// Unknown identifier, wrong password, and an undecodable stored credential
// all collapse into ErrInvalidCredentials. Storage failures propagate.
func (l *Local) Authenticate(ctx context.Context, identifier, password string) (identity.Summary, error) {
	p, err := l.principals.FindByEmail(ctx, identifier)
	if err != nil {
		if identity.IsNotFound(err) {
			_, _ = l.codec.Verify(l.dummy, password)
			return identity.Summary{}, ErrInvalidCredentials
		}
		return identity.Summary{}, err
	}

	ok, err := l.codec.Verify(p.Credential, password)
	if err != nil || !ok {
		return identity.Summary{}, ErrInvalidCredentials
	}

	return p.Summary(), nil
}
