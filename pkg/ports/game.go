package ports

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
)

// Game is the contract every game module implements. The session controller
// drives an instance through Created -> Active -> Finished -> Disposed and
// never special-cases a particular game.
type Game interface {
	// Init allocates game-local state. It runs once per play session and
	// must not block (no network calls; use Services.Speak for voice).
	Init(surface Surface, services Services) error

	// HandleInput consumes one normalized event. A returned error (or a
	// panic) ends the play session.
	HandleInput(ev domain.InputEvent) error

	// Update advances the game by one frame. It must not draw.
	Update(dt time.Duration) error

	// Render draws the current state. It must not reconfigure the surface.
	Render(surface Surface) error

	// Finished reports whether control should return to the menu. Polled
	// once per frame after Update and Render.
	Finished() bool

	// Cleanup releases game-local resources. Called exactly once before the
	// instance is discarded, including after failures.
	Cleanup() error
}

// Services bundles the shared collaborators handed to a game on Init.
type Services struct {
	Voice   Voice
	Sounder Sounder
	Logger  *slog.Logger
	Rand    *rand.Rand

	// Context is cancelled when the play session ends.
	Context context.Context

	// Notify posts an async notification into the frame loop. The event is
	// tagged with the play session and dropped if the session has ended.
	Notify func(domain.InputEvent) bool
}

// Speak requests speech for text without blocking. The result arrives later
// through HandleInput as an EventVoice event carrying a domain.VoiceResult.
// It is a no-op when voice is disabled.
func (s Services) Speak(text string) {
	if s.Voice == nil || !s.Voice.Enabled() || s.Notify == nil {
		return
	}
	ctx := s.Context
	if ctx == nil {
		ctx = context.Background()
	}
	results := s.Voice.Synthesize(ctx, text)
	notify := s.Notify
	go func() {
		for res := range results {
			notify(domain.InputEvent{Kind: domain.EventVoice, Payload: res, Time: time.Now()})
		}
	}()
}

// Prefetch warms the voice cache for the given texts in the background.
func (s Services) Prefetch(texts ...string) {
	if s.Voice == nil || !s.Voice.Enabled() {
		return
	}
	ctx := s.Context
	if ctx == nil {
		ctx = context.Background()
	}
	for _, text := range texts {
		results := s.Voice.Synthesize(ctx, text)
		go func() {
			for range results {
			}
		}()
	}
}

// PlaySound plays a named sound if a Sounder is configured.
func (s Services) PlaySound(name string) {
	if s.Sounder != nil {
		s.Sounder.Play(name)
	}
}

// IsExitKey reports whether ev is the conventional "back to menu" key.
func IsExitKey(ev domain.InputEvent) bool {
	return ev.IsKeyDown(domain.KeyEscape)
}
