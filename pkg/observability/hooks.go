package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tinytop/pkg/domain"
)

// Combine merges several hook sets. Callbacks run in argument order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var starts, stops, errs []func(context.Context, *domain.GameEvent)
	var frames []func(context.Context, *domain.FrameEvent)
	for _, h := range all {
		if h.OnGameStart != nil {
			starts = append(starts, h.OnGameStart)
		}
		if h.OnGameStop != nil {
			stops = append(stops, h.OnGameStop)
		}
		if h.OnGameError != nil {
			errs = append(errs, h.OnGameError)
		}
		if h.OnFrame != nil {
			frames = append(frames, h.OnFrame)
		}
	}

	var out domain.LifecycleHooks
	if len(starts) > 0 {
		out.OnGameStart = fanOut(starts)
	}
	if len(stops) > 0 {
		out.OnGameStop = fanOut(stops)
	}
	if len(errs) > 0 {
		out.OnGameError = fanOut(errs)
	}
	if len(frames) > 0 {
		out.OnFrame = func(ctx context.Context, e *domain.FrameEvent) {
			for _, fn := range frames {
				fn(ctx, e)
			}
		}
	}
	return out
}

func fanOut(fns []func(context.Context, *domain.GameEvent)) func(context.Context, *domain.GameEvent) {
	return func(ctx context.Context, e *domain.GameEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}

// LoggingHooks logs game lifecycle events at debug level. Frames are not
// logged.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGameStart: func(ctx context.Context, e *domain.GameEvent) {
			logger.DebugContext(ctx, "game_start", "game_id", e.GameID, "session_id", e.SessionID)
		},
		OnGameStop: func(ctx context.Context, e *domain.GameEvent) {
			logger.DebugContext(ctx, "game_stop", "game_id", e.GameID, "session_id", e.SessionID, "reason", e.Reason)
		},
		OnGameError: func(ctx context.Context, e *domain.GameEvent) {
			logger.DebugContext(ctx, "game_error", "game_id", e.GameID, "phase", e.Phase, "err", e.Err)
		},
	}
}
