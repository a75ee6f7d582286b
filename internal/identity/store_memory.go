package identity

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is the default store when no database is configured.
// It mirrors the contract of the Postgres store, including deterministic
// conflict rejection on normalized email.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]Principal
	byEmail map[string]string // email_norm -> id
}

// NewMemoryStore constructs an empty in-memory principal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]Principal),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (Principal, error) {
	if err := ctx.Err(); err != nil {
		return Principal{}, err
	}

	norm := NormalizeEmail(email)
	if norm == "" {
		return Principal{}, NotFoundError{Op: "identity.FindByEmail", Resource: "principal"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[norm]
	if !ok {
		return Principal{}, NotFoundError{Op: "identity.FindByEmail", Resource: "principal"}
	}
	return s.byID[id], nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (Principal, error) {
	if err := ctx.Err(); err != nil {
		return Principal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return Principal{}, NotFoundError{Op: "identity.FindByID", Resource: "principal"}
	}
	return p, nil
}

func (s *MemoryStore) Insert(ctx context.Context, p Principal) error {
	const op = "identity.Insert"

	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ID == "" || p.EmailNorm == "" {
		return fmt.Errorf("%s: %w: missing id or email", op, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ID]; ok {
		return ConflictError{Op: op, Field: "id"}
	}
	if _, ok := s.byEmail[p.EmailNorm]; ok {
		return ConflictError{Op: op, Field: "email"}
	}

	s.byID[p.ID] = p
	s.byEmail[p.EmailNorm] = p.ID
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, p Principal) error {
	const op = "identity.Update"

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[p.ID]
	if !ok {
		return NotFoundError{Op: op, Resource: "principal"}
	}

	if p.EmailNorm != old.EmailNorm {
		if _, taken := s.byEmail[p.EmailNorm]; taken {
			return ConflictError{Op: op, Field: "email"}
		}
		delete(s.byEmail, old.EmailNorm)
		s.byEmail[p.EmailNorm] = p.ID
	}

	s.byID[p.ID] = p
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: "identity.Delete", Resource: "principal"}
	}

	delete(s.byID, id)
	delete(s.byEmail, p.EmailNorm)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	out := make([]Principal, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
