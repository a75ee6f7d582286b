package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization. The normalized
// form is the uniqueness key for principals; the user-entered form is kept
// for display.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
