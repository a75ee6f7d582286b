// Package credential derives and verifies password credentials.
//
// A credential is a salted PBKDF2-SHA512 key encoded as a single
// self-describing string. The package is pure: no storage access, no
// policy decisions, safe for unlimited concurrent use.
package credential
