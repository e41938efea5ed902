// Package cache is a thin JSON cache over Redis. A nil *Store is valid and
// behaves as a permanent miss, so callers need no "is redis configured" checks.
//
//	store, err := cache.Connect(config.RedisAddr(), config.RedisPassword())
//	var products []models.Product
//	if !store.Get(ctx, key, &products) { ... load and store.Set(ctx, key, products, ttl) }
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freshchoice/storefront/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "freshchoice:"

type Store struct {
	rdb *redis.Client
}

// Connect dials Redis and verifies the connection with a ping. An empty addr
// returns (nil, nil): caching is disabled.
func Connect(addr, password string) (*Store, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// New wraps an existing client.
func New(rdb *redis.Client) *Store {
	if rdb == nil {
		return nil
	}
	return &Store{rdb: rdb}
}

// Client exposes the underlying client for stores that need raw commands.
func (s *Store) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.rdb
}

// Get unmarshals the value under key into dest. Returns true on a hit.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if s == nil {
		return false
	}

	val, err := s.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil || json.Unmarshal(val, dest) != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

// Set stores value as JSON under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return s.rdb.Set(ctx, KeyPrefix+key, data, ttl).Err()
}

// Del removes keys.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if s == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = KeyPrefix + k
	}
	return s.rdb.Del(ctx, full...).Err()
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return errors.New("cache: not configured")
	}
	return s.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.rdb.Close()
}
