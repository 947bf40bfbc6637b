package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	audio   []byte
	expires time.Time
}

// AudioCache implements ports.AudioCache in memory.
// Safe for concurrent use.
type AudioCache struct {
	data map[string]entry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewAudioCache creates a new in-memory audio cache.
func NewAudioCache() *AudioCache {
	return &AudioCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Put stores a copy of audio. A zero ttl never expires.
func (c *AudioCache) Put(ctx context.Context, key string, audio []byte, ttl time.Duration) error {
	e := entry{audio: append([]byte(nil), audio...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

// Get returns a copy of the cached audio.
func (c *AudioCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.audio...), true, nil
}

// Len returns the number of entries, expired or not.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
