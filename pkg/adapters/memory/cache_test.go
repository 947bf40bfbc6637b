package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioCache_Contract(t *testing.T) {
	ports.RunAudioCacheContract(t, NewAudioCache())
}

func TestAudioCache_TTL(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := NewAudioCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, cache.Put(ctx, "forever", []byte("b"), 0))

	now = now.Add(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())

	got, ok, err := cache.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("b"), got)
}
