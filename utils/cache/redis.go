// Package cache holds the Redis-backed counters used for login lockouts.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix keeps admissions keys apart when the Redis instance is shared
const keyPrefix = "admissions:"

// RedisCache is a namespaced counter store over a Redis client
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redisURL and pings it before returning
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewFromClient(client), nil
}

// NewFromClient wraps an existing client
func NewFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func key(k string) string { return keyPrefix + k }

// Set stores a value with expiration
func (r *RedisCache) Set(ctx context.Context, k string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key(k), value, expiration).Err()
}

// Delete removes keys
func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = key(k)
	}
	return r.client.Del(ctx, prefixed...).Err()
}

// Exists checks if a key exists
func (r *RedisCache) Exists(ctx context.Context, k string) (bool, error) {
	count, err := r.client.Exists(ctx, key(k)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Increment increments a counter and returns the new value
func (r *RedisCache) Increment(ctx context.Context, k string) (int64, error) {
	return r.client.Incr(ctx, key(k)).Result()
}

// Expire sets an expiration time on a key
func (r *RedisCache) Expire(ctx context.Context, k string, expiration time.Duration) error {
	return r.client.Expire(ctx, key(k), expiration).Err()
}

// TTL returns the remaining time to live of a key
func (r *RedisCache) TTL(ctx context.Context, k string) (time.Duration, error) {
	return r.client.TTL(ctx, key(k)).Result()
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
