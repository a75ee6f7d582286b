// Package identity defines the Principal model and its persistence
// boundary. It owns the canonical user records; every other subsystem
// holds principals by reference (id) only.
package identity
