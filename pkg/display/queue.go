package display

import (
	"sync/atomic"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
)

// DefaultQueueSize is the capacity used by NewQueue when size <= 0.
const DefaultQueueSize = 256

// Queue is a bounded, non-blocking EventSource. Producers (terminal reader,
// voice workers) may Post from any goroutine; the frame loop Polls.
// Quit events are never dropped.
type Queue struct {
	ch      chan domain.InputEvent
	quit    atomic.Bool
	dropped atomic.Uint64
}

var _ ports.EventSource = (*Queue)(nil)

// NewQueue creates a queue with the given capacity.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan domain.InputEvent, size)}
}

// Post enqueues ev, dropping it when the queue is full. A quit that finds
// the queue full is delivered at the end of the next Poll.
func (q *Queue) Post(ev domain.InputEvent) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		if ev.Kind == domain.EventQuit {
			q.quit.Store(true)
			return true
		}
		q.dropped.Add(1)
		return false
	}
}

// Poll drains the pending events in arrival order.
func (q *Queue) Poll() []domain.InputEvent {
	var out []domain.InputEvent
	for {
		select {
		case ev := <-q.ch:
			out = append(out, ev)
		default:
			if q.quit.Swap(false) {
				out = append(out, domain.QuitEvent())
			}
			return out
		}
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }
