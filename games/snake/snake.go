// Package snake is a forgiving snake game: walls and the snake's own body
// block movement instead of ending the game.
package snake

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
)

// Entry is the catalog name referenced by game.yaml.
const Entry = "snake"

// Sound names played by the game.
const (
	SoundMove    = "click"
	SoundEat     = "eat"
	SoundBlocked = "brrrp"
)

func init() {
	catalog.Register(Entry, New)
}

// Options are read from the manifest "options" block.
type Options struct {
	CellSize    int           `mapstructure:"cell_size"`
	HoldDelay   time.Duration `mapstructure:"hold_delay"`
	RepeatEvery time.Duration `mapstructure:"repeat_every"`
}

// DefaultOptions returns the options used when the manifest sets none.
func DefaultOptions() Options {
	return Options{
		CellSize:    20,
		HoldDelay:   500 * time.Millisecond,
		RepeatEvery: 150 * time.Millisecond,
	}
}

// Game holds the state of one play session.
type Game struct {
	opts       Options
	cols, rows int

	body  []image.Point // grid cells, head first
	food  image.Point
	score int

	held       domain.Key
	heldFor    time.Duration
	sinceMove  time.Duration
	continuous bool
	finished   bool

	rnd      *rand.Rand
	logger   *slog.Logger
	services ports.Services
}

// New is the catalog factory.
func New(desc domain.GameDescriptor) (ports.Game, error) {
	opts := DefaultOptions()
	if err := desc.DecodeOptions(&opts); err != nil {
		return nil, err
	}
	if opts.CellSize <= 0 || opts.RepeatEvery <= 0 {
		return nil, fmt.Errorf("snake: cell_size and repeat_every must be positive")
	}
	return &Game{opts: opts}, nil
}

func (g *Game) Init(surface ports.Surface, services ports.Services) error {
	w, h := surface.Size()
	g.cols, g.rows = w/g.opts.CellSize, h/g.opts.CellSize
	g.services = services
	g.rnd = services.Rand
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.logger = services.Logger
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	g.body = []image.Point{{g.cols / 2, g.rows / 2}}
	g.food = g.spawnFood()
	return nil
}

// HandleInput moves one step per press. Repeated presses of an already
// held key are ignored; Update takes over once the hold delay passes.
func (g *Game) HandleInput(ev domain.InputEvent) error {
	if ports.IsExitKey(ev) {
		g.finished = true
		return nil
	}
	if _, ok := direction(ev.Key); !ok {
		return nil
	}
	switch ev.Kind {
	case domain.EventKeyDown:
		if ev.Key == g.held {
			return nil
		}
		g.held = ev.Key
		g.heldFor = 0
		g.sinceMove = 0
		g.continuous = false
		g.move(ev.Key)
	case domain.EventKeyUp:
		if ev.Key == g.held {
			g.held = domain.KeyNone
			g.continuous = false
		}
	}
	return nil
}

func (g *Game) Update(dt time.Duration) error {
	if g.held == domain.KeyNone {
		return nil
	}
	g.heldFor += dt
	g.sinceMove += dt
	if g.heldFor <= g.opts.HoldDelay {
		return nil
	}
	if !g.continuous {
		g.continuous = true
		g.logger.Debug("Continuous movement", "key", g.held)
	}
	if g.sinceMove > g.opts.RepeatEvery {
		g.sinceMove = 0
		g.move(g.held)
	}
	return nil
}

func (g *Game) Render(s ports.Surface) error {
	cell := g.opts.CellSize
	rect := func(p image.Point) image.Rectangle {
		return image.Rect(p.X*cell, p.Y*cell, (p.X+1)*cell, (p.Y+1)*cell)
	}
	for i, p := range g.body {
		c := display.Green
		if i == 0 {
			c = display.White
		}
		s.FillRect(rect(p), c)
	}
	s.FillRect(rect(g.food), display.Red)
	s.Text(10, 10, fmt.Sprintf("Score: %d", g.score), display.Blue)
	return nil
}

func (g *Game) Finished() bool { return g.finished }

func (g *Game) Cleanup() error {
	g.body = nil
	return nil
}

// Score returns the number of food items eaten.
func (g *Game) Score() int { return g.score }

// Head returns the grid cell of the snake's head.
func (g *Game) Head() image.Point { return g.body[0] }

// Length returns the number of body cells.
func (g *Game) Length() int { return len(g.body) }

// PlaceFood moves the food to p.
func (g *Game) PlaceFood(p image.Point) { g.food = p }

func (g *Game) move(key domain.Key) {
	d, ok := direction(key)
	if !ok {
		return
	}
	head := g.body[0].Add(d)
	if head.X < 0 || head.Y < 0 || head.X >= g.cols || head.Y >= g.rows || slices.Contains(g.body, head) {
		g.services.PlaySound(SoundBlocked)
		return
	}

	g.body = slices.Insert(g.body, 0, head)
	if head == g.food {
		g.score++
		g.food = g.spawnFood()
		g.services.PlaySound(SoundEat)
		return
	}
	g.body = g.body[:len(g.body)-1]
	g.services.PlaySound(SoundMove)
}

// spawnFood picks a free cell at least one cell away from the edges.
func (g *Game) spawnFood() image.Point {
	maxX, maxY := max(2, g.cols-2), max(2, g.rows-2)
	for range 100 {
		p := image.Pt(1+g.rnd.Intn(maxX), 1+g.rnd.Intn(maxY))
		if !slices.Contains(g.body, p) {
			return p
		}
	}
	return image.Pt(5, 5)
}

func direction(k domain.Key) (image.Point, bool) {
	switch k {
	case domain.KeyUp:
		return image.Pt(0, -1), true
	case domain.KeyDown:
		return image.Pt(0, 1), true
	case domain.KeyLeft:
		return image.Pt(-1, 0), true
	case domain.KeyRight:
		return image.Pt(1, 0), true
	}
	return image.Point{}, false
}
