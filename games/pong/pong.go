// Package pong is a one-player pong against a slow computer paddle.
package pong

import (
	"fmt"
	"image"
	"time"

	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
)

// Entry is the catalog name referenced by game.yaml.
const Entry = "pong"

// Geometry in canvas pixels.
const (
	PaddleWidth  = 20
	PaddleHeight = 100
	PaddleMargin = 50
	BallSize     = 20
)

// SoundHit is played when the ball bounces off a paddle.
const SoundHit = "click"

func init() {
	catalog.Register(Entry, New)
}

// Options are read from the manifest "options" block. Speeds are in
// pixels per second.
type Options struct {
	PaddleSpeed float64 `mapstructure:"paddle_speed"`
	AISpeed     float64 `mapstructure:"ai_speed"`
	BallSpeedX  float64 `mapstructure:"ball_speed_x"`
	BallSpeedY  float64 `mapstructure:"ball_speed_y"`
}

// DefaultOptions returns the options used when the manifest sets none.
func DefaultOptions() Options {
	return Options{
		PaddleSpeed: 300,
		AISpeed:     180,
		BallSpeedX:  300,
		BallSpeedY:  180,
	}
}

// Game holds the state of one play session.
type Game struct {
	opts          Options
	width, height float64

	player, ai     float64 // paddle top edges
	ballX, ballY   float64 // ball center
	ballDX, ballDY float64

	up, down bool

	playerScore, aiScore int
	finished             bool
	services             ports.Services
}

// New is the catalog factory.
func New(desc domain.GameDescriptor) (ports.Game, error) {
	opts := DefaultOptions()
	if err := desc.DecodeOptions(&opts); err != nil {
		return nil, err
	}
	return &Game{opts: opts}, nil
}

func (g *Game) Init(surface ports.Surface, services ports.Services) error {
	w, h := surface.Size()
	g.width, g.height = float64(w), float64(h)
	g.services = services
	g.player = (g.height - PaddleHeight) / 2
	g.ai = g.player
	g.ballDX, g.ballDY = g.opts.BallSpeedX, g.opts.BallSpeedY
	g.serve()
	return nil
}

// HandleInput tracks which paddle keys are held.
func (g *Game) HandleInput(ev domain.InputEvent) error {
	if ports.IsExitKey(ev) {
		g.finished = true
		return nil
	}
	pressed := ev.Kind == domain.EventKeyDown
	if ev.Kind != domain.EventKeyDown && ev.Kind != domain.EventKeyUp {
		return nil
	}
	switch ev.Key {
	case domain.KeyUp:
		g.up = pressed
	case domain.KeyDown:
		g.down = pressed
	}
	return nil
}

func (g *Game) Update(dt time.Duration) error {
	sec := dt.Seconds()

	if g.up {
		g.player -= g.opts.PaddleSpeed * sec
	}
	if g.down {
		g.player += g.opts.PaddleSpeed * sec
	}
	g.player = clamp(g.player, 0, g.height-PaddleHeight)

	switch center := g.ai + PaddleHeight/2; {
	case g.ballY < center:
		g.ai -= g.opts.AISpeed * sec
	case g.ballY > center:
		g.ai += g.opts.AISpeed * sec
	}
	g.ai = clamp(g.ai, 0, g.height-PaddleHeight)

	g.ballX += g.ballDX * sec
	g.ballY += g.ballDY * sec

	ball := g.ballRect()
	left, right := g.paddles()
	if ball.Overlaps(left) && g.ballDX < 0 {
		g.ballDX = -g.ballDX
		g.ballX = float64(left.Max.X) + BallSize/2
		g.services.PlaySound(SoundHit)
	}
	if ball.Overlaps(right) && g.ballDX > 0 {
		g.ballDX = -g.ballDX
		g.ballX = float64(right.Min.X) - BallSize/2
		g.services.PlaySound(SoundHit)
	}

	if g.ballY-BallSize/2 <= 0 && g.ballDY < 0 || g.ballY+BallSize/2 >= g.height && g.ballDY > 0 {
		g.ballDY = -g.ballDY
	}

	switch {
	case g.ballX < 0:
		g.aiScore++
		g.serve()
	case g.ballX > g.width:
		g.playerScore++
		g.serve()
	}
	return nil
}

func (g *Game) Render(s ports.Surface) error {
	left, right := g.paddles()
	s.FillRect(left, display.White)
	s.FillRect(right, display.White)
	s.FillRect(g.ballRect(), display.White)
	s.Text(10, 10, fmt.Sprintf("Score: %d - %d", g.playerScore, g.aiScore), display.Blue)
	return nil
}

func (g *Game) Finished() bool { return g.finished }

func (g *Game) Cleanup() error { return nil }

// Score returns the player and computer scores.
func (g *Game) Score() (player, ai int) { return g.playerScore, g.aiScore }

// Ball returns the ball center.
func (g *Game) Ball() (x, y float64) { return g.ballX, g.ballY }

// PlayerPaddle returns the top edge of the player's paddle.
func (g *Game) PlayerPaddle() float64 { return g.player }

// SetBall places the ball at (x, y) moving with velocity (dx, dy).
func (g *Game) SetBall(x, y, dx, dy float64) {
	g.ballX, g.ballY, g.ballDX, g.ballDY = x, y, dx, dy
}

func (g *Game) serve() {
	g.ballX, g.ballY = g.width/2, g.height/2
}

func (g *Game) paddles() (left, right image.Rectangle) {
	left = image.Rect(PaddleMargin, int(g.player), PaddleMargin+PaddleWidth, int(g.player)+PaddleHeight)
	rx := int(g.width) - PaddleMargin - PaddleWidth
	right = image.Rect(rx, int(g.ai), rx+PaddleWidth, int(g.ai)+PaddleHeight)
	return left, right
}

func (g *Game) ballRect() image.Rectangle {
	x, y := int(g.ballX)-BallSize/2, int(g.ballY)-BallSize/2
	return image.Rect(x, y, x+BallSize, y+BallSize)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
