package identity

import "context"

// Store is the principal persistence boundary.
//
// Implementations must guarantee:
//   - EmailNorm uniqueness at Insert time (deterministic reject with
//     ErrConflict, never upsert).
//   - Atomic single-record reads and writes; callers do no extra locking.
type Store interface {
	// FindByEmail looks up a principal by email (normalized internally).
	FindByEmail(ctx context.Context, email string) (Principal, error)

	// FindByID looks up a principal by id.
	FindByID(ctx context.Context, id string) (Principal, error)

	// Insert stores a new principal. ErrConflict on duplicate email or id.
	Insert(ctx context.Context, p Principal) error

	// Update replaces mutable fields of an existing principal.
	Update(ctx context.Context, p Principal) error

	// Delete removes a principal. ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns all principals ordered by id.
	List(ctx context.Context) ([]Principal, error)
}
