package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"roster/internal/identity"
)

// Strategy verifies a claimed identifier and secret and produces the
// sanitized principal on success.
//
// Implementations must be safe for concurrent use and must return
// ErrInvalidCredentials for every verification failure, without
// distinguishing unknown identifiers from wrong secrets.
type Strategy interface {
	// Name is the stable registration key for this strategy.
	Name() string

	// Authenticate verifies identifier/password. The returned principal is
	// always sanitized; credential bytes never cross this boundary.
	Authenticate(ctx context.Context, identifier, password string) (identity.Summary, error)
}

// Registry holds named strategies. Registration normally happens once at
// wiring time; lookups are cheap and concurrent.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry constructs an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register adds a strategy under its Name. Registering a second strategy
// under the same name is a wiring bug and is rejected.
func (r *Registry) Register(s Strategy) error {
	if s == nil {
		return fmt.Errorf("auth: nil strategy")
	}
	name := strings.TrimSpace(s.Name())
	if name == "" {
		return fmt.Errorf("auth: strategy with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.strategies[name]; dup {
		return fmt.Errorf("auth: strategy %q already registered", name)
	}
	r.strategies[name] = s
	return nil
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[name]
	if !ok {
		return nil, ErrUnknownStrategy
	}
	return s, nil
}
