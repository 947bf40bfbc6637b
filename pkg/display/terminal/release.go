package terminal

import (
	"sort"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
)

// Terminals report presses (and auto-repeat) but never releases. The tracker
// infers a release once a key has not repeated for the configured window.
type releaseTracker struct {
	after time.Duration
	held  map[heldKey]time.Time
}

type heldKey struct {
	key domain.Key
	r   rune
}

func newReleaseTracker(after time.Duration) *releaseTracker {
	return &releaseTracker{after: after, held: make(map[heldKey]time.Time)}
}

func (t *releaseTracker) press(ev domain.InputEvent) {
	if ev.Kind != domain.EventKeyDown {
		return
	}
	t.held[heldKey{ev.Key, ev.Rune}] = ev.Time
}

// expire returns key-up events for every key idle longer than the window.
func (t *releaseTracker) expire(now time.Time) []domain.InputEvent {
	var out []domain.InputEvent
	for k, last := range t.held {
		if now.Sub(last) >= t.after {
			out = append(out, domain.InputEvent{Kind: domain.EventKeyUp, Key: k.key, Rune: k.r, Time: now})
			delete(t.held, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Rune < out[j].Rune
	})
	return out
}
