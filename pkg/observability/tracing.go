package observability

import (
	"context"
	"sync"

	"github.com/aretw0/tinytop/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans created by this package.
const TracerName = "github.com/aretw0/tinytop"

// Tracing records one span per play session.
type Tracing struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewTracing uses tp, or the global provider when tp is nil.
func NewTracing(tp trace.TracerProvider) *Tracing {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracing{
		tracer: tp.Tracer(TracerName),
		spans:  make(map[string]trace.Span),
	}
}

// Hooks returns lifecycle hooks that open and close session spans.
func (t *Tracing) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGameStart: func(ctx context.Context, e *domain.GameEvent) {
			_, span := t.tracer.Start(ctx, "game.session",
				trace.WithTimestamp(e.Timestamp),
				trace.WithAttributes(
					attribute.String("game.id", e.GameID),
					attribute.String("session.id", e.SessionID),
				),
			)
			t.mu.Lock()
			t.spans[e.SessionID] = span
			t.mu.Unlock()
		},
		OnGameError: func(_ context.Context, e *domain.GameEvent) {
			if span := t.span(e.SessionID, false); span != nil {
				span.RecordError(e.Err, trace.WithAttributes(attribute.String("game.phase", string(e.Phase))))
				span.SetStatus(codes.Error, string(e.Phase))
			}
		},
		OnGameStop: func(_ context.Context, e *domain.GameEvent) {
			if span := t.span(e.SessionID, true); span != nil {
				span.SetAttributes(attribute.String("game.stop_reason", e.Reason))
				span.End(trace.WithTimestamp(e.Timestamp))
			}
		},
	}
}

func (t *Tracing) span(sessionID string, remove bool) trace.Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	span := t.spans[sessionID]
	if remove {
		delete(t.spans, sessionID)
	}
	return span
}
