package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/tinytop"
	"github.com/aretw0/tinytop/internal/config"
	"github.com/aretw0/tinytop/internal/presentation/tui"
	statushttp "github.com/aretw0/tinytop/pkg/adapters/http"
	"github.com/aretw0/tinytop/pkg/adapters/memory"
	"github.com/aretw0/tinytop/pkg/adapters/process"
	"github.com/aretw0/tinytop/pkg/adapters/redis"
	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/display/terminal"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/observability"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/aretw0/tinytop/pkg/voice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// ServiceName identifies the launcher in traces.
const ServiceName = "tinytop"

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Config config.Config
	In     *os.File
	Out    *os.File
	Stderr io.Writer
}

// Execute validates the environment, wires every collaborator around a
// tinytop.Launcher and runs it until the user quits or ctx is cancelled.
// Environment problems are returned as *domain.EnvironmentError before the
// frame loop starts.
func Execute(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	checks := Checks(ctx, cfg, opts.In, opts.Out)
	if err := FirstFailure(checks); err != nil {
		return err
	}

	logger, closeLog, err := createLogger(cfg, opts.Stderr)
	if err != nil {
		return &domain.EnvironmentError{Cause: domain.CauseConfig, Err: err}
	}
	defer closeLog()

	cacheCheck, _ := Find(checks, CheckVoiceCache)
	cache, closeCache := openCache(cfg, cacheCheck.Err, logger)
	defer closeCache()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTelEndpoint, ServiceName)
	if err != nil {
		logger.Warn("Tracing disabled", "err", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	player, err := newPlayer(cfg, logger)
	if err != nil {
		return &domain.EnvironmentError{Cause: domain.CauseConfig, Err: err}
	}
	defer player.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := createHooks(cfg, reg, logger)

	queue := display.NewQueue(0)
	var presenter ports.Presenter = display.Discard
	if cfg.Headless {
		tui.PrintBanner(opts.Stderr)
	} else {
		term, err := terminal.Open(opts.In, opts.Out, queue, terminal.WithLogger(logger))
		if err != nil {
			return err
		}
		defer term.Close()
		presenter = term
	}

	vc := voice.New(voice.Config{
		APIKey:   cfg.Voice.APIKey,
		Endpoint: cfg.Voice.Endpoint,
		Model:    cfg.Voice.Model,
		Voice:    cfg.Voice.Name,
		Timeout:  cfg.Voice.Timeout,
	}, voice.WithCache(cache, cfg.Cache.TTL), voice.WithLogger(logger))
	if !vc.Enabled() {
		logger.Info("Voice disabled: no API key configured")
	}

	launcher, err := tinytop.New(cfg.GamesDir,
		tinytop.WithLogger(logger),
		tinytop.WithEvents(queue),
		tinytop.WithPresenter(presenter),
		tinytop.WithVoice(vc),
		tinytop.WithSounder(player),
		tinytop.WithFPS(cfg.FPS),
		tinytop.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return err
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// Quitting from the menu ends the status server too.
		defer stop()
		return launcher.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		handler := statushttp.NewHandler(launcher, launcher,
			statushttp.WithGatherer(reg),
			statushttp.WithVersion(tinytop.Version),
			statushttp.WithLogger(logger),
		)
		g.Go(func() error {
			return statushttp.Serve(gctx, cfg.MetricsAddr, handler, logger)
		})
	}
	return g.Wait()
}

// createHooks feeds play sessions into metrics and traces, and into the log
// in debug mode.
func createHooks(cfg config.Config, reg prometheus.Registerer, logger *slog.Logger) domain.LifecycleHooks {
	budget := time.Second / time.Duration(cfg.FPS)
	all := []domain.LifecycleHooks{
		observability.NewMetrics(reg, budget).Hooks(),
		observability.NewTracing(nil).Hooks(),
	}
	if cfg.Debug {
		all = append(all, observability.LoggingHooks(logger))
	}
	return observability.Combine(all...)
}

// openCache returns the voice audio cache: Redis when configured and
// reachable (pingErr comes from Checks), otherwise process memory.
func openCache(cfg config.Config, pingErr error, logger *slog.Logger) (ports.AudioCache, func() error) {
	if cfg.Cache.RedisAddr == "" {
		return memory.NewAudioCache(), func() error { return nil }
	}
	if pingErr != nil {
		logger.Warn("Voice cache unreachable, caching in memory", "err", pingErr)
		return memory.NewAudioCache(), func() error { return nil }
	}
	cache := redis.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	return cache, cache.Close
}

// newPlayer builds the sound player from the configured command and the
// optional sound overrides file.
func newPlayer(cfg config.Config, logger *slog.Logger) (*process.Player, error) {
	opts := []process.PlayerOption{process.WithLogger(logger)}
	if command, args := process.ParseCommand(cfg.Sound.Command); command != "" {
		opts = append(opts, process.WithCommand(command, args...))
	}
	if cfg.Sound.File != "" {
		sounds, err := process.LoadSounds(cfg.Sound.File)
		if err != nil {
			return nil, err
		}
		opts = append(opts, process.WithSounds(sounds))
	}
	return process.NewPlayer(opts...), nil
}
