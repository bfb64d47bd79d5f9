// Package redisstore provides a redis backed cache store.
//
// Keys are namespaced with a prefix so several services can share one
// database and DeleteAll only touches this store's entries.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisStore is a redis backed key-value store.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// New creates and returns a new RedisStore instance.
func New(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Get retrieves the data stored under key. A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

// Set stores data under key without expiration.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, data, 0).Err()
}

// Delete removes key. Missing keys are a no-op.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

// DeleteAll removes every key carrying the store prefix.
func (s *RedisStore) DeleteAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
