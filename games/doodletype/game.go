// Package doodletype is a word typing game. Each doodle on screen is labelled
// with a word; typing a word in full plays an animated full-screen drawing
// while the voice service pronounces it.
package doodletype

import (
	"errors"
	"image"
	"log/slog"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
)

// Entry is the catalog name referenced by game.yaml.
const Entry = "doodletype"

// Layout in canvas pixels.
const (
	DoodleSize   = 120
	Padding      = 20
	CaptionPad   = 6
	SmallWidth   = 2
	BigWidth     = 4
	placeTries   = 300
	flashYOffset = 40
)

// Sound names played by the game.
const (
	SoundError = "error"
	SoundMatch = "success"
)

// Green marks typed progress.
var Green = display.Blend(display.Black, display.Green, 0.6)

func init() {
	catalog.Register(Entry, New)
}

// Options are read from the manifest "options" block.
type Options struct {
	Words   int           `mapstructure:"words"`
	Flash   time.Duration `mapstructure:"flash"`
	Display time.Duration `mapstructure:"display"`
}

// DefaultOptions returns the options used when the manifest sets none.
func DefaultOptions() Options {
	return Options{
		Words:   5,
		Flash:   2 * time.Second,
		Display: 3 * time.Second,
	}
}

type item struct {
	doodle Doodle
	pos    image.Point
	size   image.Point // doodle plus caption
}

func (it item) rect() image.Rectangle {
	return image.Rectangle{Min: it.pos, Max: it.pos.Add(it.size)}
}

type flash struct {
	index   int
	elapsed time.Duration
	speed   float64
}

// Game holds the state of one play session.
type Game struct {
	opts    Options
	doodles []Doodle

	items    []item
	pool     []Doodle
	typed    string
	flash    *flash
	finished bool

	width, height int
	rnd           *rand.Rand
	logger        *slog.Logger
	services      ports.Services
}

// New is the catalog factory. It uses the built-in doodles.
func New(desc domain.GameDescriptor) (ports.Game, error) {
	return NewWithDoodles(desc, Builtin())
}

// NewWithDoodles creates a game over a custom doodle set.
func NewWithDoodles(desc domain.GameDescriptor, doodles []Doodle) (*Game, error) {
	opts := DefaultOptions()
	if err := desc.DecodeOptions(&opts); err != nil {
		return nil, err
	}
	if opts.Words <= 0 {
		return nil, errors.New("doodletype: words must be positive")
	}
	if len(doodles) == 0 {
		return nil, errors.New("doodletype: no doodles")
	}
	return &Game{opts: opts, doodles: doodles}, nil
}

func (g *Game) Init(surface ports.Surface, services ports.Services) error {
	g.width, g.height = surface.Size()
	g.services = services
	g.rnd = services.Rand
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.logger = services.Logger
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}

	g.pool = make([]Doodle, len(g.doodles))
	for i, j := range g.rnd.Perm(len(g.doodles)) {
		g.pool[i] = g.doodles[j]
	}
	words := make([]string, 0, g.opts.Words)
	for range min(g.opts.Words, len(g.pool)) {
		it := g.place(g.next())
		g.items = append(g.items, it)
		words = append(words, it.doodle.Word)
	}
	services.Prefetch(words...)
	return nil
}

// HandleInput filters typing to prefixes of the words on screen. Input is
// ignored while a matched word is being shown.
func (g *Game) HandleInput(ev domain.InputEvent) error {
	if ports.IsExitKey(ev) {
		g.finished = true
		return nil
	}
	if ev.Kind == domain.EventVoice {
		g.speak(ev)
		return nil
	}
	if ev.Kind != domain.EventKeyDown || g.flash != nil {
		return nil
	}

	switch ev.Key {
	case domain.KeyBackspace:
		if g.typed != "" {
			_, size := utf8.DecodeLastRuneInString(g.typed)
			g.typed = g.typed[:len(g.typed)-size]
		}
	case domain.KeySpace:
		g.typeRune(' ')
	case domain.KeyRune:
		if r := unicode.ToLower(ev.Rune); unicode.IsLetter(r) {
			g.typeRune(r)
		}
	}
	return nil
}

func (g *Game) Update(dt time.Duration) error {
	if g.flash == nil {
		return nil
	}
	g.flash.elapsed += dt
	if g.flash.elapsed < g.flashTotal() {
		return nil
	}

	// Replace the shown word with a fresh one somewhere else.
	idx := g.flash.index
	g.flash = nil
	g.items = append(g.items[:idx], g.items[idx+1:]...)
	it := g.place(g.next())
	g.items = append(g.items, it)
	g.services.Prefetch(it.doodle.Word)
	return nil
}

func (g *Game) Render(s ports.Surface) error {
	s.Clear(display.White)
	if g.flash != nil {
		g.renderFlash(s)
		return nil
	}

	for _, it := range g.items {
		d := it.doodle
		drawn := d.Size(DoodleSize, SmallWidth)
		d.Draw(s, image.Pt(it.pos.X+(it.size.X-drawn.X)/2, it.pos.Y), DoodleSize, display.Black, SmallWidth, 1)

		caption := Caption(d.Word)
		cx := it.pos.X + (it.size.X-display.TextWidth(caption))/2
		cy := it.pos.Y + drawn.Y + CaptionPad
		if g.typed == "" || !strings.HasPrefix(d.Word, g.typed) {
			s.Text(cx, cy, caption, display.Black)
			continue
		}
		n := len(Caption(g.typed))
		s.Text(cx, cy, caption[:n], Green)
		s.Text(cx+display.TextWidth(caption[:n]), cy, caption[n:], display.Black)
		s.StrokeRect(it.rect(), Green, 2)
	}
	return nil
}

func (g *Game) Finished() bool { return g.finished }

func (g *Game) Cleanup() error {
	g.items = nil
	g.pool = nil
	g.flash = nil
	return nil
}

// Words returns the words currently on screen.
func (g *Game) Words() []string {
	words := make([]string, len(g.items))
	for i, it := range g.items {
		words[i] = it.doodle.Word
	}
	return words
}

// Typed returns the current typing buffer.
func (g *Game) Typed() string { return g.typed }

// Showing returns the word being animated, if any.
func (g *Game) Showing() (string, bool) {
	if g.flash == nil {
		return "", false
	}
	return g.items[g.flash.index].doodle.Word, true
}

// Caption renders a word for display, spaces shown as underscores.
func Caption(word string) string {
	return strings.ReplaceAll(word, " ", "_")
}

func (g *Game) typeRune(r rune) {
	candidate := g.typed + string(r)
	match := -1
	prefix := false
	for i, it := range g.items {
		if it.doodle.Word == candidate {
			match = i
		}
		if strings.HasPrefix(it.doodle.Word, candidate) {
			prefix = true
		}
	}
	if !prefix {
		g.services.PlaySound(SoundError)
		return
	}
	g.typed = candidate
	if match < 0 {
		return
	}

	g.typed = ""
	g.flash = &flash{index: match, speed: 0.8 + 0.4*g.rnd.Float64()}
	g.services.PlaySound(SoundMatch)
	g.services.Speak(candidate)
	g.logger.Debug("Word matched", "word", candidate)
}

func (g *Game) speak(ev domain.InputEvent) {
	res, ok := ev.Payload.(domain.VoiceResult)
	if !ok {
		return
	}
	if res.Err != nil {
		g.logger.Debug("Voice unavailable", "word", res.Text, "err", res.Err)
		return
	}
	if g.services.Sounder != nil && len(res.Audio) > 0 {
		g.services.Sounder.PlayAudio(res.Audio)
	}
}

func (g *Game) flashTotal() time.Duration {
	return time.Duration(float64(g.opts.Flash)/g.flash.speed) + g.opts.Display
}

func (g *Game) renderFlash(s ports.Surface) {
	d := g.items[g.flash.index].doodle
	size := g.height * 55 / 100
	progress := float64(g.flash.elapsed) * g.flash.speed / float64(g.opts.Flash)

	drawn := d.Size(size, BigWidth)
	origin := image.Pt(g.width/2-drawn.X/2, g.height/2-flashYOffset-drawn.Y/2)
	d.Draw(s, origin, size, display.Black, BigWidth, progress)
	s.TextCentered(origin.Y+drawn.Y+CaptionPad, Caption(d.Word), display.Black)
}

// next takes the next doodle from the shuffled pool, refilling it with the
// words not on screen when it runs dry.
func (g *Game) next() Doodle {
	if len(g.pool) == 0 {
		for _, j := range g.rnd.Perm(len(g.doodles)) {
			if !g.onScreen(g.doodles[j].Word) {
				g.pool = append(g.pool, g.doodles[j])
			}
		}
		if len(g.pool) == 0 {
			g.pool = append(g.pool, g.doodles[g.rnd.Intn(len(g.doodles))])
		}
	}
	d := g.pool[0]
	g.pool = g.pool[1:]
	return d
}

func (g *Game) onScreen(word string) bool {
	for _, it := range g.items {
		if it.doodle.Word == word {
			return true
		}
	}
	return false
}

// place finds a spot for d that keeps Padding clear of the other items.
func (g *Game) place(d Doodle) item {
	drawn := d.Size(DoodleSize, SmallWidth)
	size := image.Pt(
		max(drawn.X, display.TextWidth(Caption(d.Word))),
		drawn.Y+CaptionPad+display.GlyphHeight,
	)
	it := item{doodle: d, pos: image.Pt(Padding, Padding), size: size}

	spanX := g.width - size.X - 2*Padding
	spanY := g.height - size.Y - 2*Padding
	if spanX <= 0 || spanY <= 0 {
		return it
	}
	for range placeTries {
		pos := image.Pt(Padding+g.rnd.Intn(spanX+1), Padding+g.rnd.Intn(spanY+1))
		r := image.Rectangle{Min: pos, Max: pos.Add(size)}.Inset(-Padding)
		free := true
		for _, other := range g.items {
			if r.Overlaps(other.rect()) {
				free = false
				break
			}
		}
		if free {
			it.pos = pos
			return it
		}
	}
	return it
}
