package credential

import "errors"

// Public, stable errors for callers.
var (
	ErrInvalidCredential = errors.New("invalid credential encoding")
)
