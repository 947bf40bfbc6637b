// Package menu implements the launcher's game selection screen.
package menu

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
)

// Sound names requested from the Sounder.
const (
	SoundMove    = "click"
	SoundConfirm = "confirm"
	SoundExit    = "exit"
)

// StatusDuration is how long a status message stays on screen.
const StatusDuration = 3 * time.Second

// Action is the outcome of a menu input.
type Action int

const (
	ActionNone Action = iota
	ActionChoose
	ActionQuit
)

// Selection reports what the user asked for.
type Selection struct {
	Action Action
	Index  int
}

// Screen is the menu state. It is owned by the session controller and only
// touched from the frame goroutine.
type Screen struct {
	cursor  int
	sounder ports.Sounder

	bounce float64
	scale  float64

	status     string
	statusLeft time.Duration
}

// Option configures the Screen.
type Option func(*Screen)

// WithSounder plays navigation sounds through s.
func WithSounder(s ports.Sounder) Option {
	return func(m *Screen) {
		m.sounder = s
	}
}

// New creates a menu screen with the cursor on the first game.
func New(opts ...Option) *Screen {
	m := &Screen{scale: 1}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reset moves the cursor back to the first game.
func (m *Screen) Reset() {
	m.cursor = 0
	m.bounce = 0
	m.scale = 1
}

// Cursor returns the selected index.
func (m *Screen) Cursor() int { return m.cursor }

// SetStatus shows msg below the menu for StatusDuration.
func (m *Screen) SetStatus(msg string) {
	m.status = msg
	m.statusLeft = StatusDuration
}

// Status returns the status message currently shown, if any.
func (m *Screen) Status() string { return m.status }

// HandleInput applies ev to a menu of n games. The boolean is true when the
// user chose a game or asked to quit.
func (m *Screen) HandleInput(ev domain.InputEvent, n int) (Selection, bool) {
	m.clamp(n)

	if ev.Kind == domain.EventQuit {
		return m.quit()
	}
	if ev.Kind != domain.EventKeyDown {
		return Selection{}, false
	}

	switch ev.Key {
	case domain.KeyEscape:
		return m.quit()
	case domain.KeyRune:
		if ev.Rune == 'q' || ev.Rune == 'Q' {
			return m.quit()
		}
	case domain.KeyLeft, domain.KeyUp:
		m.move(-1, n)
	case domain.KeyRight, domain.KeyDown:
		m.move(1, n)
	case domain.KeyEnter, domain.KeySpace:
		if n == 0 {
			return Selection{}, false
		}
		m.play(SoundConfirm)
		return Selection{Action: ActionChoose, Index: m.cursor}, true
	}
	return Selection{}, false
}

// Update advances the selection animation and the status timer.
func (m *Screen) Update(dt time.Duration) {
	m.bounce += dt.Seconds() * 2
	target := 1 + math.Sin(m.bounce)*0.05
	m.scale += (target - m.scale) * 0.1

	if m.statusLeft > 0 {
		m.statusLeft -= dt
		if m.statusLeft <= 0 {
			m.status = ""
			m.statusLeft = 0
		}
	}
}

func (m *Screen) move(delta, n int) {
	if n == 0 {
		return
	}
	m.play(SoundMove)
	m.cursor = ((m.cursor+delta)%n + n) % n
}

func (m *Screen) quit() (Selection, bool) {
	m.play(SoundExit)
	return Selection{Action: ActionQuit}, true
}

func (m *Screen) clamp(n int) {
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Screen) play(name string) {
	if m.sounder != nil {
		m.sounder.Play(name)
	}
}

// Layout.
const (
	titleY        = 32
	previewW      = 350
	previewH      = 260
	previewCY     = 190
	nameY         = 336
	playY         = 368
	navY          = 400
	tilesY        = 460
	tileW         = 60
	tileH         = 45
	tileSpacing   = 80
	maxOtherTiles = 6
	countY        = 512
	statusY       = 540
)

var thumbnailColors = []color.RGBA{
	display.BrightGreen,
	display.SunnyYellow,
	display.Orange,
	display.Pink,
	display.Lavender,
}

// Render draws the menu for games with the current cursor.
func (m *Screen) Render(s ports.Surface, games []domain.GameDescriptor) {
	m.clamp(len(games))
	w, h := s.Size()

	for y := 0; y < h; y++ {
		s.FillRect(image.Rect(0, y, w, y+1), display.Blend(display.SkyBlue, display.LightBlue, float64(y)/float64(h)))
	}
	s.TextCentered(titleY, "Tiny Top Games", display.DarkBlue)

	if len(games) == 0 {
		s.TextCentered(h/2-16, "No games found!", display.DarkBlue)
		s.TextCentered(h/2+24, "Add games to the games/ folder!", display.DarkBlue)
	} else {
		m.renderSelected(s, games[m.cursor], w)
		if len(games) > 1 {
			s.TextCentered(navY, "LEFT/RIGHT - Choose Game", display.Orange)
			m.renderTiles(s, games, w)
			s.TextCentered(countY, fmt.Sprintf("Game %d of %d", m.cursor+1, len(games)), display.DarkBlue)
		}
	}

	if m.status != "" {
		s.TextCentered(statusY, m.status, display.Red)
	}
	s.Text(10, h-30, "Press ESC to exit", display.DarkBlue)
}

func (m *Screen) renderSelected(s ports.Surface, g domain.GameDescriptor, w int) {
	pw := int(float64(previewW) * m.scale)
	ph := int(float64(previewH) * m.scale)
	card := image.Rect(w/2-pw/2, previewCY-ph/2, w/2-pw/2+pw, previewCY-ph/2+ph)

	s.FillRect(card.Add(image.Pt(5, 5)).Inset(-5), display.Gray)
	s.FillRect(card.Inset(-10), display.White)
	thumbnail(s, card, g.ID)

	s.TextCentered(nameY, g.DisplayName, display.DarkBlue)
	if g.Description != "" {
		s.TextCentered(nameY+16, g.Description, display.DarkGray)
	}
	s.TextCentered(playY, "Press ENTER to Play!", display.BrightGreen)
}

func (m *Screen) renderTiles(s ports.Surface, games []domain.GameDescriptor, w int) {
	others := make([]domain.GameDescriptor, 0, maxOtherTiles)
	for i, g := range games {
		if i != m.cursor && len(others) < maxOtherTiles {
			others = append(others, g)
		}
	}
	startX := (w-len(others)*tileSpacing)/2 + tileSpacing/2
	for i, g := range others {
		cx := startX + i*tileSpacing
		r := image.Rect(cx-tileW/2, tilesY-tileH/2, cx+tileW/2, tilesY+tileH/2)
		s.FillRect(r.Inset(-3), display.White)
		s.FillRect(r, ThumbnailColor(g.ID))
	}
}

// thumbnail draws the placeholder artwork for a game into r.
func thumbnail(s ports.Surface, r image.Rectangle, id string) {
	s.FillRect(r, ThumbnailColor(id))
	c := r.Min.Add(r.Size().Div(2))
	s.Circle(c.X, c.Y, 40, display.White, false)
	s.StrokeRect(image.Rect(c.X-30, c.Y-30, c.X+30, c.Y+30), display.White, 5)
	label := strings.ToUpper(id)
	s.Text(c.X-display.TextWidth(label)/2, c.Y+52, label, display.DarkBlue)
}

// ThumbnailColor picks a stable placeholder color for a game id.
func ThumbnailColor(id string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(id))
	return thumbnailColors[h.Sum32()%uint32(len(thumbnailColors))]
}
