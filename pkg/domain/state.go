package domain

// Mode defines which component currently owns the display surface.
type Mode string

const (
	ModeAtMenu Mode = "at_menu"
	ModeInGame Mode = "in_game"
)

// Phase names a Game lifecycle call.
type Phase string

const (
	PhaseCreate   Phase = "create"
	PhaseInit     Phase = "init"
	PhaseInput    Phase = "handle_input"
	PhaseUpdate   Phase = "update"
	PhaseRender   Phase = "render"
	PhaseFinished Phase = "is_finished"
	PhaseCleanup  Phase = "cleanup"
)

// Status is a read-only snapshot of the session controller, safe to share
// with other goroutines (e.g. the status HTTP server).
type Status struct {
	Mode      Mode   `json:"mode"`
	GameID    string `json:"game_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Frames    uint64 `json:"frames"`
	Games     int    `json:"games"`
	Cursor    int    `json:"cursor"`
}
