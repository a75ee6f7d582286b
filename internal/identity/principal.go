package identity

import "time"

// Principal is the canonical registered-user record.
//
// Credential is the encoded salt+derived-key pair produced by
// internal/security/credential. It never leaves the auth boundary:
// everything HTTP-facing works with Summary instead.
type Principal struct {
	ID          string
	Email       string
	EmailNorm   string
	DisplayName string
	Credential  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is a Principal with the credential stripped. It is the only
// principal shape allowed to cross the API boundary.
type Summary struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary returns the sanitized view of the principal.
func (p Principal) Summary() Summary {
	return Summary{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		CreatedAt:   p.CreatedAt,
	}
}
