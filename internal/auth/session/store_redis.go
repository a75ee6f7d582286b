package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "roster:sess:"

// redisRecord is the stored wire form of a Session. The id is the key, so
// it is not repeated in the value.
type redisRecord struct {
	PrincipalID string     `json:"pid"`
	CreatedAt   time.Time  `json:"cat"`
	ExpiresAt   time.Time  `json:"eat"`
	RevokedAt   *time.Time `json:"rat,omitempty"`
}

// RedisStore implements Store on Redis. Each record carries a key TTL
// slightly past its absolute expiry so Redis reclaims dead sessions on its
// own; expiry is still enforced by the Manager, never by key eviction.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-backed session store. The client is owned
// by the caller.
func NewRedisStore(rdb *redis.Client) (*RedisStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("session: nil redis client")
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Create(ctx context.Context, sess Session) error {
	rec := redisRecord{
		PrincipalID: sess.PrincipalID,
		CreatedAt:   sess.CreatedAt,
		ExpiresAt:   sess.ExpiresAt,
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session.Create: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt) + time.Minute
	if ttl < time.Second {
		ttl = time.Second
	}

	if err := s.rdb.Set(ctx, redisKeyPrefix+sess.ID, blob, ttl).Err(); err != nil {
		return fmt.Errorf("session.Create: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Session, error) {
	blob, err := s.rdb.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session.Get: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		// A corrupt blob is unusable; treat it as absent.
		return Session{}, ErrNotFound
	}

	return Session{
		ID:          sessionID,
		PrincipalID: rec.PrincipalID,
		CreatedAt:   rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
		RevokedAt:   rec.RevokedAt,
	}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	// Revoked is terminal and indistinguishable from missing, so the record
	// is simply removed. DEL is idempotent.
	if err := s.rdb.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session.Revoke: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session.Delete: %w", err)
	}
	return nil
}
