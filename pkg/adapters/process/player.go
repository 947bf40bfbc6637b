// Package process plays sounds by piping WAV data into an external audio
// player process (aplay, paplay, afplay...).
package process

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// DefaultMaxPlaying bounds concurrent player processes.
const DefaultMaxPlaying = 4

// Player implements ports.Sounder. Playback never blocks the caller; when
// too many sounds are already playing, new ones are dropped.
type Player struct {
	command string
	args    []string
	stdout  io.Writer
	logger  *slog.Logger

	mu     sync.RWMutex
	sounds map[string][]byte

	slots chan struct{}
	wg    sync.WaitGroup
	ctx   context.Context
	stop  context.CancelFunc
}

// PlayerOption configures the player.
type PlayerOption func(*Player)

// WithCommand sets the player process. The WAV data is written to its stdin.
func WithCommand(command string, args ...string) PlayerOption {
	return func(p *Player) {
		p.command = command
		p.args = args
	}
}

// WithSounds registers additional or replacement effects.
func WithSounds(sounds map[string][]byte) PlayerOption {
	return func(p *Player) {
		for name, wav := range sounds {
			p.sounds[name] = wav
		}
	}
}

// WithOutput captures the player's stdout.
func WithOutput(w io.Writer) PlayerOption {
	return func(p *Player) {
		p.stdout = w
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithMaxPlaying bounds concurrent playback.
func WithMaxPlaying(n int) PlayerOption {
	return func(p *Player) {
		if n > 0 {
			p.slots = make(chan struct{}, n)
		}
	}
}

// NewPlayer creates a player preloaded with DefaultSounds. Without a
// command it is silent.
func NewPlayer(opts ...PlayerOption) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		sounds: DefaultSounds(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		slots:  make(chan struct{}, DefaultMaxPlaying),
		ctx:    ctx,
		stop:   cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseCommand splits a command line such as "aplay -q -".
func ParseCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Register adds or replaces a named effect.
func (p *Player) Register(name string, wav []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sounds[name] = wav
}

// Has reports whether name is a known effect.
func (p *Player) Has(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.sounds[name]
	return ok
}

// Play plays a named effect. Unknown names are ignored.
func (p *Player) Play(name string) {
	p.mu.RLock()
	wav, ok := p.sounds[name]
	p.mu.RUnlock()
	if !ok {
		p.logger.Debug("Unknown sound", "name", name)
		return
	}
	p.PlayAudio(wav)
}

// PlayAudio plays raw WAV bytes.
func (p *Player) PlayAudio(audio []byte) {
	if p.command == "" || len(audio) == 0 || p.ctx.Err() != nil {
		return
	}
	select {
	case p.slots <- struct{}{}:
	default:
		p.logger.Debug("Dropping sound, player busy")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()
		p.run(audio)
	}()
}

func (p *Player) run(audio []byte) {
	cmd := exec.CommandContext(p.ctx, p.command, p.args...)
	cmd.Stdin = bytes.NewReader(audio)
	cmd.Stdout = p.stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil && p.ctx.Err() == nil {
		p.logger.Debug("Sound playback failed", "command", p.command, "err", err, "stderr", strings.TrimSpace(stderr.String()))
	}
}

// Wait blocks until every started playback has finished.
func (p *Player) Wait() {
	p.wg.Wait()
}

// Close stops any playing sounds and waits for the processes to exit.
func (p *Player) Close() error {
	p.stop()
	p.wg.Wait()
	return nil
}
