package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTestStore(t *testing.T) *RedisStore {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := NewRedisStore(rdb)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	return store
}

func TestRedisStore_CreateGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newRedisTestStore(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	sess := Session{
		ID:          "redis-test-session",
		PrincipalID: "01JTESTPRINCIPAL0000000000",
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}

	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PrincipalID != sess.PrincipalID {
		t.Fatalf("principal mismatch: %s", got.PrincipalID)
	}
	if !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v != %v", got.ExpiresAt, sess.ExpiresAt)
	}
	if got.RevokedAt != nil {
		t.Fatalf("fresh session must not be revoked")
	}
}

func TestRedisStore_GetUnknown(t *testing.T) {
	ctx := context.Background()
	store := newRedisTestStore(t)

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_RevokeIsTerminalAndIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newRedisTestStore(t)

	now := time.Now().UTC()
	sess := Session{
		ID:          "to-revoke",
		PrincipalID: "01JTESTPRINCIPAL0000000000",
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Revoke(ctx, now, sess.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := store.Revoke(ctx, now, sess.ID); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}

	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
}

func TestRedisStore_CorruptBlobTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := NewRedisStore(rdb)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}

	if err := mr.Set(redisKeyPrefix+"corrupt", "{not json"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	if _, err := store.Get(ctx, "corrupt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for corrupt blob, got %v", err)
	}
}

func TestRedisStore_ManagerEndToEnd(t *testing.T) {
	// The full lifecycle must behave identically over Redis and memory.
	ctx := context.Background()
	store := newRedisTestStore(t)

	principals := newManagerPrincipals(t)
	cfg := DefaultConfig()
	cfg.TTL = time.Hour
	m := NewManager(cfg, store, principals.store)

	now := time.Now().UTC()
	sess, err := m.Serialize(ctx, now, principals.principal.Summary())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := m.Deserialize(ctx, now.Add(time.Minute), sess.ID)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.ID != principals.principal.ID {
		t.Fatalf("wrong principal: %+v", got)
	}

	if err := m.Revoke(ctx, now.Add(time.Minute), sess.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := m.Deserialize(ctx, now.Add(2*time.Minute), sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
}
