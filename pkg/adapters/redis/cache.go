// Package redis provides a Redis-backed voice audio cache, so synthesized
// speech survives restarts and can be shared between devices.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces the cache keys.
const DefaultPrefix = "tinytop:voice:"

// AudioCache implements ports.AudioCache using Redis.
type AudioCache struct {
	client *backend.Client
	prefix string
}

// Option configures the AudioCache.
type Option func(*AudioCache)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *AudioCache) {
		c.prefix = prefix
	}
}

// New creates a new Redis audio cache with options.
func New(address, password string, db int, opts ...Option) *AudioCache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis audio cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *AudioCache {
	c := &AudioCache{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AudioCache) key(k string) string {
	return c.prefix + k
}

// Put stores audio under key. A zero ttl never expires.
func (c *AudioCache) Put(ctx context.Context, key string, audio []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), audio, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves audio from Redis.
func (c *AudioCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, true, nil
}

// Ping checks that the server is reachable.
func (c *AudioCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *AudioCache) Close() error {
	return c.client.Close()
}
