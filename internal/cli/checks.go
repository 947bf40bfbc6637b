package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/tinytop/internal/config"
	"github.com/aretw0/tinytop/pkg/adapters/redis"
	"github.com/aretw0/tinytop/pkg/display/terminal"
	"github.com/aretw0/tinytop/pkg/domain"
)

// pingTimeout bounds the voice cache reachability check.
const pingTimeout = 3 * time.Second

// CheckVoiceCache names the voice cache check.
const CheckVoiceCache = "voice cache"

// Check is the outcome of one environment prerequisite.
type Check struct {
	Name string
	// Skipped is set when the prerequisite does not apply to cfg.
	Skipped bool
	// Optional failures degrade a feature instead of stopping the launcher.
	Optional bool
	Err      error
}

// Checks runs every prerequisite in the order the launcher needs them.
// Each required failure is a *domain.EnvironmentError.
func Checks(ctx context.Context, cfg config.Config, in, out *os.File) []Check {
	return []Check{
		{Name: "config", Err: checkConfig(cfg)},
		{Name: "games directory", Err: checkGamesDir(cfg.GamesDir)},
		{Name: "display", Skipped: cfg.Headless, Err: checkDisplay(cfg, in, out)},
		{Name: CheckVoiceCache, Skipped: cfg.Cache.RedisAddr == "", Optional: true, Err: checkCache(ctx, cfg)},
	}
}

// FirstFailure returns the first failed required check's error, or nil.
func FirstFailure(checks []Check) error {
	for _, c := range checks {
		if c.Err != nil && !c.Optional {
			return c.Err
		}
	}
	return nil
}

// Find returns the check called name.
func Find(checks []Check, name string) (Check, bool) {
	for _, c := range checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

func checkConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return &domain.EnvironmentError{Cause: domain.CauseConfig, Err: err}
	}
	return nil
}

func checkGamesDir(dir string) error {
	if dir == "" {
		return nil // reported by checkConfig
	}
	info, err := os.Stat(dir)
	if err != nil {
		return &domain.EnvironmentError{Cause: domain.CauseGamesDir, Err: err}
	}
	if !info.IsDir() {
		return &domain.EnvironmentError{Cause: domain.CauseGamesDir, Err: fmt.Errorf("%s is not a directory", dir)}
	}
	return nil
}

func checkDisplay(cfg config.Config, in, out *os.File) error {
	if cfg.Headless {
		return nil
	}
	if in == nil || out == nil || !terminal.Available(in, out) {
		return &domain.EnvironmentError{Cause: domain.CauseDisplay, Err: fmt.Errorf("stdin/stdout is not a terminal (use --headless)")}
	}
	return nil
}

func checkCache(ctx context.Context, cfg config.Config) error {
	if cfg.Cache.RedisAddr == "" {
		return nil
	}
	cache := redis.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	defer cache.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		return &domain.VoiceServiceError{Op: "cache", Err: fmt.Errorf("redis %s: %w", cfg.Cache.RedisAddr, err)}
	}
	return nil
}
