// Package cache keeps rendered reports keyed by snapshot digest, so that an
// unchanged snapshot is never recomputed nor re-rendered.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores payloads by key.
type Cache interface {
	// Get returns the payload of key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the payload of key.
	Set(ctx context.Context, key string, payload []byte) error
}

// Key returns the cache key of a rendering of a snapshot.
func Key(digest, format string) string {
	return fmt.Sprintf("tradebook:report:%s:%s", format, digest)
}

// GetOrCompute returns the cached payload of key, or computes, stores and
// returns it. Cache failures are logged and fall back to computing.
func GetOrCompute(ctx context.Context, c Cache, logger *zap.Logger, key string, compute func() ([]byte, error)) ([]byte, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	payload, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		logger.Debug("cache hit", zap.String("key", key))
		return payload, nil
	}
	payload, err = compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, payload); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return payload, nil
}

// Redis is a Cache in Redis with an expiration.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis at addr and verifies the connection.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0, // use default DB
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, key, payload, r.ttl).Err()
}

// Close closes the Redis connection.
func (r *Redis) Close() error { return r.client.Close() }

// Memory is an in-process Cache without expiration. Its zero value is ready
// to use.
type Memory struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.m == nil {
		m.m = make(map[string][]byte)
	}
	m.m[key] = payload
	return nil
}

var (
	_ Cache = (*Redis)(nil)
	_ Cache = (*Memory)(nil)
)
