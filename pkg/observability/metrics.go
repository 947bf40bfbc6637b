package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records Prometheus metrics for play sessions and frames.
type Metrics struct {
	launches *prometheus.CounterVec
	failures *prometheus.CounterVec
	active   prometheus.Gauge
	playTime *prometheus.HistogramVec
	frames   *prometheus.HistogramVec
	late     prometheus.Counter

	budget time.Duration

	mu      sync.Mutex
	started map[string]time.Time
}

// NewMetrics creates the collectors and registers them with reg.
// budget is the per-frame time budget (1/fps); slower frames count as late.
func NewMetrics(reg prometheus.Registerer, budget time.Duration) *Metrics {
	m := &Metrics{
		launches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tinytop",
			Name:      "game_launches_total",
			Help:      "Total number of play sessions started",
		}, []string{"game_id"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tinytop",
			Name:      "game_failures_total",
			Help:      "Total number of play sessions ended by a game failure",
		}, []string{"game_id", "phase"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tinytop",
			Name:      "game_active",
			Help:      "1 while a game owns the display",
		}),
		playTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tinytop",
			Name:      "game_session_seconds",
			Help:      "Play session length",
			Buckets:   []float64{5, 30, 60, 300, 900, 1800, 3600},
		}, []string{"game_id", "reason"}),
		frames: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tinytop",
			Name:      "frame_duration_seconds",
			Help:      "Time spent producing one frame",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
		}, []string{"mode"}),
		late: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinytop",
			Name:      "frames_late_total",
			Help:      "Frames that exceeded the frame budget",
		}),
		budget:  budget,
		started: make(map[string]time.Time),
	}
	reg.MustRegister(m.launches, m.failures, m.active, m.playTime, m.frames, m.late)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGameStart: func(_ context.Context, e *domain.GameEvent) {
			m.launches.WithLabelValues(e.GameID).Inc()
			m.active.Set(1)
			m.mu.Lock()
			m.started[e.SessionID] = e.Timestamp
			m.mu.Unlock()
		},
		OnGameError: func(_ context.Context, e *domain.GameEvent) {
			m.failures.WithLabelValues(e.GameID, string(e.Phase)).Inc()
		},
		OnGameStop: func(_ context.Context, e *domain.GameEvent) {
			m.active.Set(0)
			m.mu.Lock()
			start, ok := m.started[e.SessionID]
			delete(m.started, e.SessionID)
			m.mu.Unlock()
			if ok {
				m.playTime.WithLabelValues(e.GameID, e.Reason).Observe(e.Timestamp.Sub(start).Seconds())
			}
		},
		OnFrame: func(_ context.Context, e *domain.FrameEvent) {
			m.frames.WithLabelValues(string(e.Mode)).Observe(e.Duration.Seconds())
			if m.budget > 0 && e.Duration > m.budget {
				m.late.Inc()
			}
		},
	}
}
