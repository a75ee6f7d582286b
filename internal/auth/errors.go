package auth

import "errors"

var (
	// ErrInvalidCredentials is the single login-failure signal. Callers must
	// never learn whether the identifier or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated is the single authorization-failure signal emitted
	// by the Guard, regardless of why the session was unusable.
	ErrUnauthenticated = errors.New("authentication needed")

	// ErrUnknownStrategy is returned when no strategy is registered under
	// the requested name.
	ErrUnknownStrategy = errors.New("unknown authentication strategy")
)
