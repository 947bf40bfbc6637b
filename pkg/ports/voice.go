package ports

import (
	"context"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
)

// Voice synthesizes speech asynchronously.
type Voice interface {
	// Enabled reports whether requests can be attempted at all.
	Enabled() bool

	// Synthesize starts a request and returns a channel that receives
	// exactly one result and is then closed.
	Synthesize(ctx context.Context, text string) <-chan domain.VoiceResult
}

// AudioCache stores synthesized audio keyed by request fingerprint.
type AudioCache interface {
	// Get returns the audio and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, audio []byte, ttl time.Duration) error
}

// Sounder plays sounds without blocking the caller.
type Sounder interface {
	// Play plays a named effect (e.g. "click", "confirm", "brrrp").
	Play(name string)

	// PlayAudio plays raw audio bytes (WAV).
	PlayAudio(audio []byte)
}
