package domain

import "time"

// EventKind defines the category of an InputEvent.
type EventKind string

const (
	EventKeyDown EventKind = "key_down"
	EventKeyUp   EventKind = "key_up"
	EventQuit    EventKind = "quit"  // Application-wide quit (window closed, Ctrl+C)
	EventVoice   EventKind = "voice" // Async voice synthesis result
)

// Key identifies a named key. Printable characters use KeyRune and carry the
// character in InputEvent.Rune.
type Key string

const (
	KeyNone      Key = ""
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyEnter     Key = "enter"
	KeyEscape    Key = "escape"
	KeySpace     Key = "space"
	KeyBackspace Key = "backspace"
	KeyTab       Key = "tab"
	KeyRune      Key = "rune"
)

// InputEvent is the normalized event produced by the display surface and
// consumed by exactly one component per frame.
type InputEvent struct {
	Kind EventKind
	Key  Key
	Rune rune

	// Payload carries kind-specific data (VoiceResult for EventVoice).
	Payload any

	// Session is the play session that requested an async notification.
	// Empty for events produced by the display.
	Session string

	Time time.Time
}

// KeyPress builds a key-down event for a named key.
func KeyPress(k Key) InputEvent {
	return InputEvent{Kind: EventKeyDown, Key: k, Time: time.Now()}
}

// KeyRelease builds a key-up event for a named key.
func KeyRelease(k Key) InputEvent {
	return InputEvent{Kind: EventKeyUp, Key: k, Time: time.Now()}
}

// RunePress builds a key-down event for a printable character.
func RunePress(r rune) InputEvent {
	return InputEvent{Kind: EventKeyDown, Key: KeyRune, Rune: r, Time: time.Now()}
}

// QuitEvent builds the global quit event.
func QuitEvent() InputEvent {
	return InputEvent{Kind: EventQuit, Time: time.Now()}
}

// IsKeyDown reports whether the event is a press of k.
func (e InputEvent) IsKeyDown(k Key) bool {
	return e.Kind == EventKeyDown && e.Key == k
}

// VoiceResult is the outcome of a voice synthesis request.
type VoiceResult struct {
	Text  string
	Audio []byte
	Err   error
}
