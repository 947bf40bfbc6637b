// Package session implements the launcher's session controller: the single
// frame loop that owns the display, alternates between the menu and one
// active game, and isolates game failures from the launcher.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/tinytop/internal/logging"
	"github.com/aretw0/tinytop/internal/menu"
	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/google/uuid"
)

// DefaultFPS is the target frame rate.
const DefaultFPS = 60

// Registry is the subset of the game registry the controller needs.
type Registry interface {
	Descriptors() []domain.GameDescriptor
	Resolve(id string) (catalog.Factory, domain.GameDescriptor, error)
	Rescan(ctx context.Context) error
}

// Controller drives the AtMenu/InGame state machine.
type Controller struct {
	registry  Registry
	events    ports.EventSource
	presenter ports.Presenter
	canvas    *display.Canvas
	menu      *menu.Screen

	voice   ports.Voice
	sounder ports.Sounder
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	clock   Clock
	fps     int

	// Frame goroutine state.
	mode      domain.Mode
	game      ports.Game
	desc      domain.GameDescriptor
	sessionID string
	cancel    context.CancelFunc
	frames    uint64

	mu     sync.Mutex
	status domain.Status
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithVoice sets the voice service handed to games.
func WithVoice(v ports.Voice) Option {
	return func(c *Controller) {
		c.voice = v
	}
}

// WithSounder sets the sound player shared by the menu and games.
func WithSounder(s ports.Sounder) Option {
	return func(c *Controller) {
		c.sounder = s
	}
}

// WithFPS sets the target frame rate.
func WithFPS(fps int) Option {
	return func(c *Controller) {
		if fps > 0 {
			c.fps = fps
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithCanvas sets the display surface (default: a new canvas).
func WithCanvas(canvas *display.Canvas) Option {
	return func(c *Controller) {
		c.canvas = canvas
	}
}

// New creates a controller. events is the display's input queue; presenter
// receives every completed frame.
func New(registry Registry, events ports.EventSource, presenter ports.Presenter, opts ...Option) *Controller {
	c := &Controller{
		registry:  registry,
		events:    events,
		presenter: presenter,
		logger:    logging.NewNop(),
		clock:     realClock{},
		fps:       DefaultFPS,
		mode:      domain.ModeAtMenu,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.canvas == nil {
		c.canvas = display.NewCanvas()
	}
	if c.presenter == nil {
		c.presenter = display.Discard
	}
	c.menu = menu.New(menu.WithSounder(c.sounder))
	return c
}

// Status returns a snapshot safe to read from any goroutine.
func (c *Controller) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Mode returns the current mode. Frame goroutine only.
func (c *Controller) Mode() domain.Mode { return c.mode }

// Menu exposes the menu screen. Frame goroutine only.
func (c *Controller) Menu() *menu.Screen { return c.menu }

// Run executes the frame loop until the user quits or ctx is cancelled.
// An active game is always cleaned up before Run returns.
func (c *Controller) Run(ctx context.Context) error {
	c.enterMenu(ctx)
	frame := time.Second / time.Duration(c.fps)
	last := c.clock.Now()

	for {
		if ctx.Err() != nil {
			c.shutdown(ctx, "cancelled")
			return nil
		}

		start := c.clock.Now()
		dt := start.Sub(last)
		last = start

		quit, err := c.Step(ctx, dt)
		if err != nil {
			c.shutdown(ctx, "display error")
			return err
		}
		if quit {
			c.logger.Info("Quit requested")
			return nil
		}

		if err := c.clock.Sleep(ctx, frame-c.clock.Now().Sub(start)); err != nil {
			c.shutdown(ctx, "cancelled")
			return nil
		}
	}
}

// Step runs one frame: route pending input, update, render and present.
// It reports true once the launcher should exit. The only error it returns
// comes from the presenter.
func (c *Controller) Step(ctx context.Context, dt time.Duration) (bool, error) {
	start := c.clock.Now()
	events := c.events.Poll()

	var quit bool
	switch c.mode {
	case domain.ModeInGame:
		quit = c.gameFrame(ctx, events, dt)
	default:
		quit = c.menuFrame(ctx, events, dt)
	}
	if quit {
		c.publish()
		return true, nil
	}

	if err := c.presenter.Present(c.canvas.Image(), c.canvas.Texts()); err != nil {
		return false, fmt.Errorf("present frame: %w", err)
	}

	c.frames++
	c.publish()
	if c.hooks.OnFrame != nil {
		c.hooks.OnFrame(ctx, &domain.FrameEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventFrame},
			Mode:      c.mode,
			GameID:    c.desc.ID,
			Delta:     dt,
			Duration:  c.clock.Now().Sub(start),
		})
	}
	return false, nil
}

func (c *Controller) menuFrame(ctx context.Context, events []domain.InputEvent, dt time.Duration) bool {
	games := c.registry.Descriptors()
	for _, ev := range events {
		sel, ok := c.menu.HandleInput(ev, len(games))
		if !ok {
			continue
		}
		if sel.Action == menu.ActionQuit {
			return true
		}
		if c.launch(ctx, games[sel.Index]) {
			// Remaining events of this frame belonged to the menu.
			return false
		}
		games = c.registry.Descriptors()
	}

	c.menu.Update(dt)
	c.canvas.Clear(display.Black)
	c.menu.Render(c.canvas, games)
	return false
}

func (c *Controller) gameFrame(ctx context.Context, events []domain.InputEvent, dt time.Duration) bool {
	if c.game == nil {
		c.enterMenu(ctx)
		return false
	}
	for _, ev := range events {
		switch {
		case ev.Kind == domain.EventQuit:
			c.stopGame(ctx, "quit", false)
			return true
		case ev.Kind == domain.EventVoice && ev.Session != c.sessionID:
			c.logger.Debug("Dropping stale voice result", "session", ev.Session)
			continue
		}
		if err := c.guard(domain.PhaseInput, func() error { return c.game.HandleInput(ev) }); err != nil {
			c.fail(ctx, err)
			return false
		}
	}

	if err := c.guard(domain.PhaseUpdate, func() error { return c.game.Update(dt) }); err != nil {
		c.fail(ctx, err)
		return false
	}

	c.canvas.Clear(display.Black)
	if err := c.guard(domain.PhaseRender, func() error { return c.game.Render(c.canvas) }); err != nil {
		c.fail(ctx, err)
		return false
	}

	var finished bool
	if err := c.guard(domain.PhaseFinished, func() error {
		finished = c.game.Finished()
		return nil
	}); err != nil {
		c.fail(ctx, err)
		return false
	}
	if finished {
		c.stopGame(ctx, "finished", true)
	}
	return false
}

// launch resolves and initializes desc. It reports whether the controller
// is now InGame.
func (c *Controller) launch(ctx context.Context, desc domain.GameDescriptor) bool {
	factory, resolved, err := c.registry.Resolve(desc.ID)
	if err != nil {
		c.launchFailed(ctx, desc, err)
		return false
	}

	c.desc = resolved
	var game ports.Game
	err = c.guard(domain.PhaseCreate, func() error {
		g, err := factory(resolved)
		game = g
		return err
	})
	if err == nil && game == nil {
		err = errors.New("factory returned no game")
	}
	if err != nil {
		c.desc = domain.GameDescriptor{}
		c.launchFailed(ctx, desc, &domain.LaunchError{ID: desc.ID, Err: err})
		return false
	}

	sessionID := uuid.NewString()
	sctx, cancel := context.WithCancel(ctx)
	c.game = game
	c.sessionID = sessionID
	c.cancel = cancel
	c.mode = domain.ModeInGame
	c.publish()

	logger := c.logger.With("game", resolved.ID, "session", sessionID)
	logger.Info("Starting game")
	c.emit(ctx, c.hooks.OnGameStart, domain.EventGameStart, "", "", nil)

	services := ports.Services{
		Voice:   c.voice,
		Sounder: c.sounder,
		Logger:  logger,
		Rand:    rand.New(rand.NewSource(c.clock.Now().UnixNano())),
		Context: sctx,
		Notify:  c.notifier(sctx, sessionID),
	}
	if err := c.guard(domain.PhaseInit, func() error { return game.Init(c.canvas, services) }); err != nil {
		c.fail(ctx, err)
		return false
	}
	return true
}

func (c *Controller) launchFailed(ctx context.Context, desc domain.GameDescriptor, err error) {
	c.logger.Error("Could not start game", "game", desc.ID, "err", err)
	c.menu.SetStatus(fmt.Sprintf("Could not start %s", displayName(desc)))
	if errors.Is(err, domain.ErrNotFound) {
		if rerr := c.registry.Rescan(ctx); rerr != nil {
			c.logger.Warn("Rescan failed", "err", rerr)
		}
	}
}

// notifier returns the Notify func for one play session. Events are tagged
// with the session id and refused once the session is over.
func (c *Controller) notifier(sctx context.Context, sessionID string) func(domain.InputEvent) bool {
	return func(ev domain.InputEvent) bool {
		if sctx.Err() != nil {
			return false
		}
		ev.Session = sessionID
		if ev.Time.IsZero() {
			ev.Time = time.Now()
		}
		return c.events.Post(ev)
	}
}

// fail handles a RuntimeGameError: log, notify, clean up, back to the menu.
func (c *Controller) fail(ctx context.Context, err error) {
	var phase domain.Phase
	var rge *domain.RuntimeGameError
	if errors.As(err, &rge) {
		phase = rge.Phase
	}
	c.logger.Error("Game failed", "game", c.desc.ID, "session", c.sessionID, "phase", phase, "err", err)
	c.emit(ctx, c.hooks.OnGameError, domain.EventGameError, "error", phase, err)

	name := displayName(c.desc)
	c.stopGame(ctx, "error", true)
	c.menu.SetStatus(fmt.Sprintf("%s stopped unexpectedly", name))
}

// stopGame disposes of the active game exactly once.
func (c *Controller) stopGame(ctx context.Context, reason string, toMenu bool) {
	if c.game == nil {
		return
	}
	if err := c.guard(domain.PhaseCleanup, c.game.Cleanup); err != nil {
		c.logger.Warn("Game cleanup failed", "game", c.desc.ID, "err", err)
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.logger.Info("Game stopped", "game", c.desc.ID, "session", c.sessionID, "reason", reason)
	c.emit(ctx, c.hooks.OnGameStop, domain.EventGameStop, reason, "", nil)

	c.game = nil
	c.desc = domain.GameDescriptor{}
	c.sessionID = ""
	c.cancel = nil

	if toMenu {
		c.enterMenu(ctx)
		return
	}
	c.mode = domain.ModeAtMenu
	c.publish()
}

func (c *Controller) enterMenu(ctx context.Context) {
	c.mode = domain.ModeAtMenu
	c.menu.Reset()
	if err := c.registry.Rescan(ctx); err != nil {
		c.logger.Warn("Rescan failed", "err", err)
	}
	c.publish()
}

func (c *Controller) shutdown(ctx context.Context, reason string) {
	c.stopGame(context.WithoutCancel(ctx), reason, false)
	c.publish()
}

// guard runs one lifecycle call of the active game, converting errors and
// panics into a RuntimeGameError.
func (c *Controller) guard(phase domain.Phase, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Game panicked", "game", c.desc.ID, "phase", phase, "panic", r, "stack", string(debug.Stack()))
			err = &domain.RuntimeGameError{ID: c.desc.ID, Phase: phase, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &domain.RuntimeGameError{ID: c.desc.ID, Phase: phase, Err: err}
	}
	return nil
}

func (c *Controller) emit(ctx context.Context, hook func(context.Context, *domain.GameEvent), typ domain.EventType, reason string, phase domain.Phase, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.GameEvent{
		EventBase: domain.EventBase{Timestamp: c.clock.Now(), Type: typ},
		GameID:    c.desc.ID,
		SessionID: c.sessionID,
		Reason:    reason,
		Phase:     phase,
		Err:       err,
	})
}

func (c *Controller) publish() {
	st := domain.Status{
		Mode:      c.mode,
		GameID:    c.desc.ID,
		SessionID: c.sessionID,
		Frames:    c.frames,
		Games:     len(c.registry.Descriptors()),
		Cursor:    c.menu.Cursor(),
	}
	c.mu.Lock()
	c.status = st
	c.mu.Unlock()
}

func displayName(desc domain.GameDescriptor) string {
	if desc.DisplayName != "" {
		return desc.DisplayName
	}
	return desc.ID
}
