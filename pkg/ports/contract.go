package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAudioCacheContract runs a suite of tests to verify that an AudioCache
// implementation adheres to the defined interface contract.
func RunAudioCacheContract(t *testing.T, cache AudioCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405.000000000")

	t.Run("Put and Get", func(t *testing.T) {
		audio := []byte("RIFF....WAVEfmt ")

		err := cache.Put(ctx, key, audio, 0)
		require.NoError(t, err, "Put should not return error")

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.True(t, ok)
		assert.Equal(t, audio, got)
	})

	t.Run("Get Missing", func(t *testing.T) {
		got, ok, err := cache.Get(ctx, "missing-"+key)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, []byte("first"), 0))
		require.NoError(t, cache.Put(ctx, key, []byte("second"), 0))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("Stored Copy Is Isolated", func(t *testing.T) {
		audio := []byte("abc")
		require.NoError(t, cache.Put(ctx, key+"-iso", audio, 0))
		audio[0] = 'z'

		got, ok, err := cache.Get(ctx, key+"-iso")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("abc"), got)
	})
}
