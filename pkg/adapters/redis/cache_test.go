package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tinytop/pkg/adapters/redis"
	"github.com/aretw0/tinytop/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAudioCache_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	ports.RunAudioCacheContract(t, redis.NewFromClient(client))
}

func TestRedisAudioCache_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.New(mr.Addr(), "", 0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "hello", []byte("wav"), time.Second))
	_, ok, err := cache.Get(ctx, "hello")
	require.NoError(t, err)
	assert.True(t, ok)

	// Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	_, ok, err = cache.Get(ctx, "hello")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisAudioCache_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	cache := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))

	require.NoError(t, cache.Put(context.Background(), "cat", []byte("meow"), 0))
	assert.True(t, mr.Exists("custom:app:cat"), "Expected key with custom prefix to exist")
}

func TestRedisAudioCache_Ping(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cache := redis.New(mr.Addr(), "", 0)
	defer cache.Close()
	assert.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
