package session

import (
	"crypto/rand"
	"encoding/base64"
)

// NewSessionID returns a cryptographically random session identifier.
// Identifiers are URL-safe (base64url, no padding), never sequential and
// never derived from user data.
func NewSessionID(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}

	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
