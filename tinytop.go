package tinytop

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/tinytop/internal/logging"
	"github.com/aretw0/tinytop/internal/session"
	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/aretw0/tinytop/pkg/registry"
)

// Version is the launcher release. Overridable with -ldflags "-X".
var Version = "0.3.0"

// Launcher is the high-level entry point: a game registry plus the session
// controller that drives the menu and the selected games.
type Launcher struct {
	Root string

	registry   *registry.Registry
	controller *session.Controller

	events    ports.EventSource
	presenter ports.Presenter
	catalog   *catalog.Catalog
	voice     ports.Voice
	sounder   ports.Sounder
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	fps       int
}

// Option defines a functional option for configuring the Launcher.
type Option func(*Launcher)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Launcher) {
		l.hooks = hooks
	}
}

// WithPresenter sets where frames are shown (default: discarded).
func WithPresenter(p ports.Presenter) Option {
	return func(l *Launcher) {
		l.presenter = p
	}
}

// WithEvents sets the input queue shared with the display.
func WithEvents(events ports.EventSource) Option {
	return func(l *Launcher) {
		l.events = events
	}
}

// WithCatalog sets the entry-point catalog (default: catalog.Default).
func WithCatalog(c *catalog.Catalog) Option {
	return func(l *Launcher) {
		l.catalog = c
	}
}

// WithVoice sets the voice service handed to games.
func WithVoice(v ports.Voice) Option {
	return func(l *Launcher) {
		l.voice = v
	}
}

// WithSounder sets the sound effect player.
func WithSounder(s ports.Sounder) Option {
	return func(l *Launcher) {
		l.sounder = s
	}
}

// WithFPS sets the target frame rate.
func WithFPS(fps int) Option {
	return func(l *Launcher) {
		l.fps = fps
	}
}

// New scans gamesDir and prepares the session controller. A missing games
// directory is reported as a domain.EnvironmentError.
func New(gamesDir string, opts ...Option) (*Launcher, error) {
	l := &Launcher{fps: session.DefaultFPS}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.NewNop()
	}
	if l.catalog == nil {
		l.catalog = catalog.Default
	}
	if l.events == nil {
		l.events = display.NewQueue(0)
	}

	root, err := filepath.Abs(gamesDir)
	if err != nil {
		return nil, &domain.EnvironmentError{Cause: domain.CauseGamesDir, Err: fmt.Errorf("invalid path: %w", err)}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &domain.EnvironmentError{Cause: domain.CauseGamesDir, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.EnvironmentError{Cause: domain.CauseGamesDir, Err: fmt.Errorf("%s is not a directory", root)}
	}
	l.Root = root

	l.registry = registry.New(registry.WithCatalog(l.catalog), registry.WithLogger(l.logger))
	games, err := l.registry.Scan(context.Background(), root)
	if err != nil {
		return nil, &domain.EnvironmentError{Cause: domain.CauseGamesDir, Err: err}
	}
	l.logger.Info("Games discovered", "root", root, "count", len(games))

	sessionOpts := []session.Option{
		session.WithLogger(l.logger),
		session.WithLifecycleHooks(l.hooks),
		session.WithFPS(l.fps),
	}
	if l.voice != nil {
		sessionOpts = append(sessionOpts, session.WithVoice(l.voice))
	}
	if l.sounder != nil {
		sessionOpts = append(sessionOpts, session.WithSounder(l.sounder))
	}
	l.controller = session.New(l.registry, l.events, l.presenter, sessionOpts...)
	return l, nil
}

// Run executes the frame loop until the user quits or ctx is cancelled.
func (l *Launcher) Run(ctx context.Context) error {
	return l.controller.Run(ctx)
}

// Step runs a single frame with the given delta. Useful for embedding the
// launcher in an existing loop and for tests.
func (l *Launcher) Step(ctx context.Context, dt time.Duration) (bool, error) {
	return l.controller.Step(ctx, dt)
}

// Descriptors returns the discovered games, sorted by id.
func (l *Launcher) Descriptors() []domain.GameDescriptor {
	return l.registry.Descriptors()
}

// Status returns a snapshot of the session state, safe from any goroutine.
func (l *Launcher) Status() domain.Status {
	return l.controller.Status()
}

// Events returns the input queue. Post key events here to drive the launcher.
func (l *Launcher) Events() ports.EventSource {
	return l.events
}
