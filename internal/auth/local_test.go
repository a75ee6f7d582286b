package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"roster/internal/identity"
	"roster/internal/security/credential"
)

func testCodec() credential.Config {
	cfg := credential.DefaultConfig()
	cfg.Params.Iterations = 1_000
	return cfg
}

func registerPrincipal(t *testing.T, codec credential.Config, store identity.Store, email, name, password string) identity.Principal {
	t.Helper()

	enc, err := codec.Derive(password)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	now := time.Now().UTC()
	id, err := identity.NewID(now)
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}

	p := identity.Principal{
		ID:          id,
		Email:       email,
		EmailNorm:   identity.NormalizeEmail(email),
		DisplayName: name,
		Credential:  enc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.Insert(context.Background(), p); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return p
}

func TestLocal_Authenticate_Success(t *testing.T) {
	ctx := context.Background()
	codec := testCodec()
	store := identity.NewMemoryStore()

	p := registerPrincipal(t, codec, store, "peter@example.com", "Peter", "abc123")

	local, err := NewLocal(codec, store)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	got, err := local.Authenticate(ctx, "peter@example.com", "abc123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != p.ID || got.Email != "peter@example.com" {
		t.Fatalf("wrong principal: %+v", got)
	}
}

func TestLocal_Authenticate_SingleFailureSignal(t *testing.T) {
	ctx := context.Background()
	codec := testCodec()
	store := identity.NewMemoryStore()
	registerPrincipal(t, codec, store, "known@example.com", "Known", "right-password")

	local, err := NewLocal(codec, store)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	// Unknown identifier and wrong password must yield the exact same
	// error value; no user-enumeration signal.
	_, errUnknown := local.Authenticate(ctx, "unknown@example.com", "anything")
	_, errWrongPw := local.Authenticate(ctx, "known@example.com", "wrong-password")

	if !errvalEqual(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown identifier: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errvalEqual(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func errvalEqual(err, target error) bool { return errors.Is(err, target) }

func TestLocal_Authenticate_CorruptCredentialCollapses(t *testing.T) {
	ctx := context.Background()
	codec := testCodec()
	store := identity.NewMemoryStore()

	p := registerPrincipal(t, codec, store, "corrupt@example.com", "Corrupt", "whatever")
	p.Credential = "not-a-credential"
	if err := store.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	local, err := NewLocal(codec, store)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	if _, err := local.Authenticate(ctx, "corrupt@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for corrupt stored credential, got %v", err)
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	codec := testCodec()
	store := identity.NewMemoryStore()

	local, err := NewLocal(codec, store)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	reg := NewRegistry()
	if err := reg.Register(local); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Get(LocalName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name() != LocalName {
		t.Fatalf("wrong strategy: %s", got.Name())
	}

	if err := reg.Register(local); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if _, err := reg.Get("saml"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}
