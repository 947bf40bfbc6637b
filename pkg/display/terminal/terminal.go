// Package terminal presents the display canvas on an ANSI terminal and turns
// raw keyboard input into normalized events.
package terminal

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultReleaseAfter is longer than the usual keyboard auto-repeat delay,
// so a held key is not reported released between repeats.
const DefaultReleaseAfter = 600 * time.Millisecond

// Terminal is a Presenter backed by a raw-mode terminal. It also feeds key
// events into an EventSource.
type Terminal struct {
	in       *os.File
	out      io.Writer
	outFd    int
	output   *termenv.Output
	profile  termenv.Profile
	oldState *term.State
	events   ports.EventSource
	logger   *slog.Logger

	releaseAfter time.Duration
	tracker      *releaseTracker
	keys         keyDecoder

	mu     sync.Mutex
	seqs   map[[2]color.RGBA]string
	buf    bytes.Buffer
	done   chan struct{}
	closed bool
}

// Option configures the Terminal.
type Option func(*Terminal)

// WithReleaseAfter sets the idle window after which a key-up is synthesized.
func WithReleaseAfter(d time.Duration) Option {
	return func(t *Terminal) {
		t.releaseAfter = d
	}
}

// WithLogger sets the logger for input errors.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Terminal) {
		t.logger = logger
	}
}

var _ ports.Presenter = (*Terminal)(nil)

// Available reports whether in and out are interactive terminals.
func Available(in, out *os.File) bool {
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// Open switches the terminal to raw mode and the alternate screen, and starts
// forwarding key events to events. Close must be called to restore it.
func Open(in, out *os.File, events ports.EventSource, opts ...Option) (*Terminal, error) {
	if !Available(in, out) {
		return nil, &domain.EnvironmentError{Cause: domain.CauseDisplay, Err: fmt.Errorf("stdin/stdout is not a terminal")}
	}

	t := &Terminal{
		in:           in,
		out:          out,
		outFd:        int(out.Fd()),
		events:       events,
		releaseAfter: DefaultReleaseAfter,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		seqs:         make(map[[2]color.RGBA]string),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.tracker = newReleaseTracker(t.releaseAfter)

	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, &domain.EnvironmentError{Cause: domain.CauseDisplay, Err: fmt.Errorf("failed to enter raw mode: %w", err)}
	}
	t.oldState = state

	t.output = termenv.NewOutput(out)
	t.profile = t.output.ColorProfile()
	t.output.AltScreen()
	t.output.HideCursor()
	t.output.ClearScreen()
	t.output.SetWindowTitle("Tiny Top Games")

	go t.readLoop()
	go t.releaseLoop()
	return t, nil
}

// Present draws the frame, scaled to the current terminal size.
func (t *Terminal) Present(frame image.Image, texts []ports.TextRun) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}

	cols, rows, err := term.GetSize(t.outFd)
	if err != nil {
		return fmt.Errorf("failed to read terminal size: %w", err)
	}

	grid := rasterize(frame, texts, cols, rows)
	t.buf.Reset()
	t.buf.WriteString(termenv.CSI + "H")
	for r, line := range grid {
		prev := [2]color.RGBA{}
		first := true
		for _, c := range line {
			key := [2]color.RGBA{c.Top, c.Bottom}
			if first || key != prev {
				t.buf.WriteString(t.sequence(key))
				prev, first = key, false
			}
			t.buf.WriteRune(c.Ch)
		}
		t.buf.WriteString(termenv.CSI + termenv.ResetSeq + "m")
		if r < len(grid)-1 {
			t.buf.WriteString("\r\n")
		}
	}
	_, err = t.out.Write(t.buf.Bytes())
	return err
}

// Close restores the terminal. Safe to call more than once.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)

	t.output.ShowCursor()
	t.output.ExitAltScreen()
	if t.oldState != nil {
		return term.Restore(int(t.in.Fd()), t.oldState)
	}
	return nil
}

func (t *Terminal) sequence(key [2]color.RGBA) string {
	if s, ok := t.seqs[key]; ok {
		return s
	}
	fg := t.profile.Color(hex(key[0]))
	bg := t.profile.Color(hex(key[1]))
	s := termenv.CSI + termenv.ResetSeq + "m"
	if fg != nil {
		if seq := fg.Sequence(false); seq != "" {
			s += termenv.CSI + seq + "m"
		}
	}
	if bg != nil {
		if seq := bg.Sequence(true); seq != "" {
			s += termenv.CSI + seq + "m"
		}
	}
	t.seqs[key] = s
	return s
}

func (t *Terminal) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := t.in.Read(buf)
		if err != nil {
			select {
			case <-t.done:
			default:
				t.logger.Warn("terminal input closed", "err", err)
				t.events.Post(domain.QuitEvent())
			}
			return
		}
		t.mu.Lock()
		events := t.keys.decode(buf[:n], time.Now())
		for _, ev := range events {
			t.tracker.press(ev)
		}
		t.mu.Unlock()

		t.post(events)
	}
}

func (t *Terminal) post(events []domain.InputEvent) {
	for _, ev := range events {
		if !t.events.Post(ev) {
			t.logger.Debug("input event dropped", "key", ev.Key)
		}
	}
}

func (t *Terminal) releaseLoop() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case now := <-ticker.C:
			t.mu.Lock()
			escaped := t.keys.flush(now)
			for _, ev := range escaped {
				t.tracker.press(ev)
			}
			released := t.tracker.expire(now)
			t.mu.Unlock()
			t.post(escaped)
			t.post(released)
		}
	}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
