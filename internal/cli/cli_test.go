package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/aretw0/tinytop/games/all"
	"github.com/aretw0/tinytop/internal/cli"
	"github.com/aretw0/tinytop/internal/config"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.GamesDir = t.TempDir()
	cfg.Headless = true
	return cfg
}

func writeGame(t *testing.T, root, id, manifest string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.yaml"), []byte(manifest), 0o644))
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var envErr *domain.EnvironmentError
	require.True(t, errors.As(err, &envErr), "expected EnvironmentError, got %v", err)
	return envErr.ExitCode()
}

func TestChecks_Headless(t *testing.T) {
	checks := cli.Checks(context.Background(), headlessConfig(t), nil, nil)

	require.Len(t, checks, 4)
	assert.NoError(t, cli.FirstFailure(checks))
	assert.True(t, checks[2].Skipped, "display")
	assert.True(t, checks[3].Skipped, "voice cache")
}

func TestChecks_ExitCodes(t *testing.T) {
	notTerminal, err := os.CreateTemp(t.TempDir(), "tty")
	require.NoError(t, err)
	defer notTerminal.Close()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   int
	}{
		{"invalid fps", func(c *config.Config) { c.FPS = 0 }, 4},
		{"missing games dir", func(c *config.Config) { c.GamesDir = filepath.Join(c.GamesDir, "missing") }, 3},
		{"no terminal", func(c *config.Config) { c.Headless = false }, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := headlessConfig(t)
			tt.mutate(&cfg)
			err := cli.FirstFailure(cli.Checks(context.Background(), cfg, notTerminal, notTerminal))
			assert.Equal(t, tt.code, exitCode(t, err))
		})
	}
}

func deadRedisAddr(t *testing.T) string {
	t.Helper()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	return addr
}

func TestChecks_VoiceCache(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		cfg := headlessConfig(t)
		cfg.Cache.RedisAddr = miniredis.RunT(t).Addr()
		checks := cli.Checks(context.Background(), cfg, nil, nil)

		assert.NoError(t, cli.FirstFailure(checks))
		c, ok := cli.Find(checks, cli.CheckVoiceCache)
		require.True(t, ok)
		assert.NoError(t, c.Err)
		assert.False(t, c.Skipped)
	})

	t.Run("unreachable is not fatal", func(t *testing.T) {
		cfg := headlessConfig(t)
		cfg.Cache.RedisAddr = deadRedisAddr(t)
		checks := cli.Checks(context.Background(), cfg, nil, nil)

		assert.NoError(t, cli.FirstFailure(checks))
		c, ok := cli.Find(checks, cli.CheckVoiceCache)
		require.True(t, ok)
		assert.True(t, c.Optional)
		var voiceErr *domain.VoiceServiceError
		assert.ErrorAs(t, c.Err, &voiceErr)
	})
}

func TestExecute_EnvironmentError(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.GamesDir = filepath.Join(cfg.GamesDir, "missing")

	err := cli.Execute(context.Background(), cli.RunOptions{Config: cfg, Stderr: &bytes.Buffer{}})
	assert.Equal(t, 3, exitCode(t, err))
}

func TestExecute_HeadlessUntilCancelled(t *testing.T) {
	cfg := headlessConfig(t)
	writeGame(t, cfg.GamesDir, "snake", "entry: snake\n")
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.FPS = 30

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var stderr bytes.Buffer
	err := cli.Execute(ctx, cli.RunOptions{Config: cfg, Stderr: &stderr})
	assert.NoError(t, err)
}

func TestExecute_UnreachableCacheFallsBackToMemory(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Cache.RedisAddr = deadRedisAddr(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var stderr bytes.Buffer
	require.NoError(t, cli.Execute(ctx, cli.RunOptions{Config: cfg, Stderr: &stderr}))
	assert.Contains(t, stderr.String(), "Voice cache unreachable")
}

func TestExecute_BadSoundsFile(t *testing.T) {
	cfg := headlessConfig(t)
	sounds := filepath.Join(t.TempDir(), "sounds.yaml")
	require.NoError(t, os.WriteFile(sounds, []byte("sounds: [{name: click, file: missing.wav}]"), 0o644))
	cfg.Sound.File = sounds

	err := cli.Execute(context.Background(), cli.RunOptions{Config: cfg, Stderr: &bytes.Buffer{}})
	assert.Equal(t, 4, exitCode(t, err))
}

func TestList(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "snake", "name: Snake\nentry: snake\ndescription: Eat | grow\n")
	writeGame(t, root, "tetris", "entry: tetris\n")

	var out bytes.Buffer
	require.NoError(t, cli.List(context.Background(), root, &out, true))

	assert.Contains(t, out.String(), "| snake | Snake | snake | Eat \\| grow |")
	assert.Contains(t, out.String(), "## Skipped")
	assert.Contains(t, out.String(), "tetris")
}

func TestList_MissingDir(t *testing.T) {
	err := cli.List(context.Background(), filepath.Join(t.TempDir(), "nope"), &bytes.Buffer{}, true)
	assert.Equal(t, 3, exitCode(t, err))
}

func TestDoctor(t *testing.T) {
	cfg := headlessConfig(t)
	var out bytes.Buffer
	require.NoError(t, cli.Doctor(context.Background(), cfg, nil, nil, &out))
	assert.Contains(t, out.String(), "games directory")
	assert.Contains(t, out.String(), "SKIP")
	assert.Contains(t, out.String(), "voice: disabled")

	cfg.Cache.RedisAddr = deadRedisAddr(t)
	out.Reset()
	require.NoError(t, cli.Doctor(context.Background(), cfg, nil, nil, &out))
	assert.Contains(t, out.String(), "WARN")

	cfg.FPS = 1000
	out.Reset()
	err := cli.Doctor(context.Background(), cfg, nil, nil, &out)
	assert.Equal(t, 4, exitCode(t, err))
	assert.Contains(t, out.String(), "FAIL")
}
