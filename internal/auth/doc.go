// Package auth coordinates credential verification and the
// access-control decision for protected requests.
//
// It deliberately exposes a single, undifferentiated failure for bad
// logins (unknown identifier and wrong password are indistinguishable)
// and a single unauthenticated signal at the guard boundary, to avoid
// user-enumeration and session-probing leaks.
package auth
