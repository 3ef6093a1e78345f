package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// sessionKeyPrefix namespaces session records in a shared Redis
const sessionKeyPrefix = "session:"

// SessionKey returns the Redis key holding the session with this id
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist or has expired
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal(val, dest); err != nil {
		_ = rdb.Del(ctx, key).Err() // Drop values that no longer decode
		return false, nil
	}
	return true, nil
}

// SetCache stores value as JSON for ttl. A non-positive ttl removes the key
// instead, since Redis would otherwise keep it forever
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return DeleteCache(ctx, rdb, key) // Already expired
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}
