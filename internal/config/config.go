// Package config loads the launcher configuration in layers: built-in
// defaults, an optional YAML file, then TINYTOP_* environment variables.
// Command line flags are applied last by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "tinytop.yaml"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "TINYTOP_"

// Config is the full launcher configuration.
type Config struct {
	GamesDir     string `yaml:"games_dir" env:"GAMES_DIR"`
	FPS          int    `yaml:"fps" env:"FPS"`
	Headless     bool   `yaml:"headless" env:"HEADLESS"`
	Debug        bool   `yaml:"debug" env:"DEBUG"`
	LogFile      string `yaml:"log_file" env:"LOG_FILE"`
	MetricsAddr  string `yaml:"metrics_addr" env:"METRICS_ADDR"`
	OTelEndpoint string `yaml:"otel_endpoint" env:"OTEL_ENDPOINT"`

	Sound SoundConfig `yaml:"sound" envPrefix:"SOUND_"`
	Voice VoiceConfig `yaml:"voice" envPrefix:"VOICE_"`
	Cache CacheConfig `yaml:"cache" envPrefix:"CACHE_"`
}

// SoundConfig selects the external audio player.
type SoundConfig struct {
	// Command receives WAV data on stdin, e.g. "aplay -q -". Empty: silent.
	Command string `yaml:"command" env:"COMMAND"`
	// File optionally overrides built-in effects (see process.LoadSounds).
	File string `yaml:"file" env:"FILE"`
}

// VoiceConfig configures the text-to-speech service.
type VoiceConfig struct {
	APIKey   string        `yaml:"api_key" env:"API_KEY"`
	// Endpoint is the base URL of an OpenAI-compatible API.
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT"`
	Model    string        `yaml:"model" env:"MODEL"`
	Name     string        `yaml:"name" env:"NAME"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// CacheConfig configures where synthesized speech is cached. Without a
// Redis address the cache lives in memory.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
	TTL           time.Duration `yaml:"ttl" env:"TTL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GamesDir: "games",
		FPS:      60,
		LogFile:  "tinytop.log",
		Voice: VoiceConfig{
			Timeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			TTL: 30 * 24 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment. A missing file means defaults; an explicit but missing
// file is reported only when required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	// Conventional variable used by most text-to-speech clients.
	if cfg.Voice.APIKey == "" {
		cfg.Voice.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// ParseEnv overlays TINYTOP_* environment variables onto target.
func ParseEnv(target *Config) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.GamesDir == "" {
		errs = append(errs, errors.New("games_dir must not be empty"))
	}
	if c.FPS < 1 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps must be between 1 and 240, got %d", c.FPS))
	}
	if c.Voice.Timeout < 0 {
		errs = append(errs, errors.New("voice.timeout must not be negative"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.Cache.RedisDB < 0 {
		errs = append(errs, errors.New("cache.redis_db must not be negative"))
	}
	return errors.Join(errs...)
}

// VoiceEnabled reports whether a voice credential is configured.
func (c Config) VoiceEnabled() bool {
	return c.Voice.APIKey != ""
}
