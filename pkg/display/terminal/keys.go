package terminal

import (
	"time"
	"unicode/utf8"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/charmbracelet/x/ansi"
)

// EscapeTimeout is how long an incomplete escape sequence waits for the rest
// of its bytes. A lone ESC still pending after it is the Escape key.
const EscapeTimeout = 50 * time.Millisecond

// keyDecoder turns raw-mode reads into key-down events. A sequence split
// across reads is held until the next read completes it or EscapeTimeout
// passes. Not safe for concurrent use.
type keyDecoder struct {
	pending []byte
	since   time.Time
}

func (d *keyDecoder) decode(buf []byte, now time.Time) []domain.InputEvent {
	data := append(d.pending, buf...)
	held := len(d.pending)
	d.pending = nil

	var out []domain.InputEvent
	for len(data) > 0 {
		seq, _, n, state := ansi.DecodeSequence(data, ansi.NormalState, nil)
		if ss3Intro(seq) {
			// ESC O is an SS3 introducer; its final byte names the key.
			if n == len(data) {
				state = ansi.EscapeState
			} else {
				n++
				seq = data[:n]
			}
		}
		if state != ansi.NormalState {
			if held == 0 {
				d.since = now
			}
			d.pending = append([]byte(nil), data...)
			break
		}
		if len(seq) == 2 && seq[0] == ansi.ESC && !ss3Intro(seq) {
			// Escape followed by an ordinary key (Alt+key): report both.
			n = 1
			seq = data[:1]
		}
		out = appendKey(out, seq, now)
		data = data[n:]
		held = 0
	}
	return out
}

// flush resolves a sequence left incomplete for EscapeTimeout. A lone ESC is
// the Escape key; any other partial sequence is dropped.
func (d *keyDecoder) flush(now time.Time) []domain.InputEvent {
	if len(d.pending) == 0 || now.Sub(d.since) < EscapeTimeout {
		return nil
	}
	lone := len(d.pending) == 1 && d.pending[0] == ansi.ESC
	d.pending = nil
	if lone {
		return []domain.InputEvent{keyDown(domain.KeyEscape, now)}
	}
	return nil
}

func ss3Intro(seq []byte) bool {
	return len(seq) == 2 && seq[0] == ansi.ESC && seq[1] == 'O'
}

func appendKey(out []domain.InputEvent, seq []byte, now time.Time) []domain.InputEvent {
	if len(seq) == 3 && (ansi.HasCsiPrefix(seq) || seq[1] == 'O') {
		if k, ok := arrows[seq[2]]; ok {
			return append(out, keyDown(k, now))
		}
		return out
	}
	if len(seq) != 1 {
		if seq[0] == ansi.ESC || seq[0] == ansi.CSI {
			return out // unknown sequence
		}
		r, _ := utf8.DecodeRune(seq)
		if r == utf8.RuneError {
			return out
		}
		return append(out, domain.InputEvent{Kind: domain.EventKeyDown, Key: domain.KeyRune, Rune: r, Time: now})
	}

	switch b := seq[0]; {
	case b == ansi.ESC:
		return append(out, keyDown(domain.KeyEscape, now))
	case b == ansi.ETX:
		// Ctrl+C never raises SIGINT in raw mode.
		return append(out, domain.InputEvent{Kind: domain.EventQuit, Time: now})
	case b == ansi.CR || b == ansi.LF:
		return append(out, keyDown(domain.KeyEnter, now))
	case b == ansi.DEL || b == ansi.BS:
		return append(out, keyDown(domain.KeyBackspace, now))
	case b == ansi.HT:
		return append(out, keyDown(domain.KeyTab, now))
	case b == ansi.SP:
		return append(out, keyDown(domain.KeySpace, now))
	case b < ansi.SP || b >= utf8.RuneSelf:
		return out
	default:
		return append(out, domain.InputEvent{Kind: domain.EventKeyDown, Key: domain.KeyRune, Rune: rune(b), Time: now})
	}
}

func keyDown(k domain.Key, now time.Time) domain.InputEvent {
	return domain.InputEvent{Kind: domain.EventKeyDown, Key: k, Time: now}
}

var arrows = map[byte]domain.Key{
	'A': domain.KeyUp,
	'B': domain.KeyDown,
	'C': domain.KeyRight,
	'D': domain.KeyLeft,
}
