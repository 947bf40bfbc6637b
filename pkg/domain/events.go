package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGameStart EventType = "game_start"
	EventGameStop  EventType = "game_stop"
	EventGameError EventType = "game_error"
	EventFrame     EventType = "frame"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GameEvent represents a play session starting, stopping or failing.
type GameEvent struct {
	EventBase
	GameID    string `json:"game_id"`
	SessionID string `json:"session_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Phase     Phase  `json:"phase,omitempty"`
	Err       error  `json:"-"`
}

// FrameEvent is emitted once per completed frame.
type FrameEvent struct {
	EventBase
	Mode     Mode          `json:"mode"`
	GameID   string        `json:"game_id,omitempty"`
	Delta    time.Duration `json:"delta"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnGameStart func(context.Context, *GameEvent)
	OnGameStop  func(context.Context, *GameEvent)
	OnGameError func(context.Context, *GameEvent)
	OnFrame     func(context.Context, *FrameEvent)
}
