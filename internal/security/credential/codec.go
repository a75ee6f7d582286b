package credential

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const credentialVersion = 1

// Derive derives a fresh credential for password and returns it as an
// encoded string. Format:
// $pbkdf2-sha512$v=1$i=<iterations>$<salt_b64>$<key_b64>
//
// A new random salt is generated on every call, so two derivations of the
// same password produce different credentials. Empty-password rejection is
// the caller's responsibility.
func (c Config) Derive(password string) (string, error) {
	salt := make([]byte, c.Params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, c.Params.Iterations, c.Params.KeyLength, sha512.New)

	b64 := base64.RawStdEncoding
	enc := fmt.Sprintf(
		"$pbkdf2-sha512$v=%d$i=%d$%s$%s",
		credentialVersion,
		c.Params.Iterations,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	)

	return enc, nil
}

// Verify checks whether password matches the given encoded credential.
// Returns (true, nil) for a match, (false, nil) for a mismatch, and
// (false, ErrInvalidCredential) for malformed/unsupported encodings.
//
// The derived key is recomputed with the parameters stored in the
// credential itself, so cost upgrades never break existing credentials.
// Comparison is constant-time.
func (c Config) Verify(encoded, password string) (bool, error) {
	params, salt, expected, err := decode(encoded)
	if err != nil {
		return false, err
	}

	// Refuse parameters far outside our configured cost: a stored blob must
	// never be able to drive pathological resource usage during verify.
	if !withinReasonableBounds(params, c.Params) {
		return false, ErrInvalidCredential
	}

	key := pbkdf2.Key([]byte(password), salt, params.Iterations, len(expected), sha512.New)

	if subtle.ConstantTimeCompare(key, expected) == 1 {
		return true, nil
	}
	return false, nil
}

func withinReasonableBounds(got Params, limits Params) bool {
	// Allow verifying credentials derived with older/smaller settings,
	// but reject wildly larger ones.
	if got.Iterations < 1 || got.Iterations > limits.Iterations*4 {
		return false
	}
	if got.SaltLength < 8 || got.SaltLength > 64 {
		return false
	}
	if got.KeyLength < 16 || got.KeyLength > 128 {
		return false
	}
	return true
}

// decode parses the encoded credential and returns params, salt and the
// expected derived key.
func decode(encoded string) (Params, []byte, []byte, error) {
	// Expected:
	// $pbkdf2-sha512$v=1$i=210000$<salt>$<key>
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "pbkdf2-sha512" {
		return Params{}, nil, nil, ErrInvalidCredential
	}

	if parts[2] != fmt.Sprintf("v=%d", credentialVersion) {
		return Params{}, nil, nil, ErrInvalidCredential
	}

	var iter int
	if _, err := fmt.Sscanf(parts[3], "i=%d", &iter); err != nil || iter <= 0 {
		return Params{}, nil, nil, ErrInvalidCredential
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidCredential
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidCredential
	}

	params := Params{
		Iterations: iter,
		SaltLength: len(salt),
		KeyLength:  len(key),
	}

	return params, salt, key, nil
}
