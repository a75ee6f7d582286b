// Package session converts an authenticated principal into a durable,
// revocable server-side session and back.
//
// A session record carries an opaque random id, a principal reference and
// an absolute expiry; it never embeds credentials or profile data. Expiry
// is evaluated lazily when a session is deserialized, so no background
// sweeper is required for correctness.
package session
