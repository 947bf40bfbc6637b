package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a game id cannot be resolved.
var ErrNotFound = errors.New("game not found")

// ErrVoiceDisabled is returned by voice services without a configured credential.
var ErrVoiceDisabled = errors.New("voice service disabled")

// DiscoveryError reports a game directory that does not satisfy the game
// module contract. The registry logs it and skips the directory.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery: %s: %v", e.Dir, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// LaunchError reports a failure to resolve or construct a selected game.
// The session returns to the menu with a message.
type LaunchError struct {
	ID  string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %q: %v", e.ID, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// RuntimeGameError reports a failure inside an active game's lifecycle call.
type RuntimeGameError struct {
	ID    string
	Phase Phase
	Err   error
}

func (e *RuntimeGameError) Error() string {
	return fmt.Sprintf("game %q failed during %s: %v", e.ID, e.Phase, e.Err)
}

func (e *RuntimeGameError) Unwrap() error { return e.Err }

// EnvironmentCause identifies a missing runtime prerequisite.
type EnvironmentCause string

const (
	CauseDisplay  EnvironmentCause = "display"
	CauseGamesDir EnvironmentCause = "games_dir"
	CauseConfig   EnvironmentCause = "config"
)

// EnvironmentError is the only fatal error class. The process exits before
// the frame loop starts, with a status code distinct per cause.
type EnvironmentError struct {
	Cause EnvironmentCause
	Err   error
}

func (e *EnvironmentError) Error() string {
	switch e.Cause {
	case CauseDisplay:
		return fmt.Sprintf("no usable display: %v", e.Err)
	case CauseGamesDir:
		return fmt.Sprintf("games directory missing: %v", e.Err)
	case CauseConfig:
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("environment: %v", e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status for the cause.
func (e *EnvironmentError) ExitCode() int {
	switch e.Cause {
	case CauseDisplay:
		return 2
	case CauseGamesDir:
		return 3
	case CauseConfig:
		return 4
	}
	return 1
}

// VoiceServiceError reports a voice failure. It is never fatal; voice
// features degrade silently.
type VoiceServiceError struct {
	Op  string
	Err error
}

func (e *VoiceServiceError) Error() string {
	return fmt.Sprintf("voice %s: %v", e.Op, e.Err)
}

func (e *VoiceServiceError) Unwrap() error { return e.Err }
