package session

import (
	"context" // Context for Redis operations
	"time"    // Expiry checks

	"storefront/internal/utils" // Redis JSON helpers

	"github.com/redis/go-redis/v9" // Redis client
)

// RedisStore keeps sessions as JSON values whose key TTL tracks ExpiresAt
type RedisStore struct {
	rdb *redis.Client // Shared Redis client
}

// NewRedisStore wraps an existing client
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get loads a session by id
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var s Session
	found, err := utils.GetCache(ctx, r.rdb, utils.SessionKey(id), &s)
	if err != nil {
		return nil, err
	}
	if !found || s.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save stores the session until its ExpiresAt
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	return utils.SetCache(ctx, r.rdb, utils.SessionKey(s.ID), s, time.Until(s.ExpiresAt))
}

// Delete removes the session key
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return utils.DeleteCache(ctx, r.rdb, utils.SessionKey(id))
}
