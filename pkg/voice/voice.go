// Package voice implements the Voice Service: asynchronous text-to-speech
// through the OpenAI audio API (or any compatible base URL), with results
// cached by request.
//
// Voice is optional. Without an API key New returns Disabled, which never
// attempts a request.
package voice

import (
	"context"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
)

// Defaults for Config.
const (
	DefaultEndpoint = "https://api.openai.com/v1/"
	DefaultModel    = "tts-1"
	DefaultVoice    = "nova"
	DefaultTimeout  = 15 * time.Second
)

// Config holds the voice service settings.
type Config struct {
	APIKey   string
	// Endpoint is the API base URL; requests go to its audio/speech path.
	Endpoint string
	Model    string
	Voice    string
	Timeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// New returns an HTTP voice client, or Disabled when cfg has no API key.
func New(cfg Config, opts ...Option) ports.Voice {
	if cfg.APIKey == "" {
		return Disabled
	}
	return NewClient(cfg, opts...)
}

// Disabled is the voice service used without a credential.
var Disabled ports.Voice = disabled{}

type disabled struct{}

func (disabled) Enabled() bool { return false }

func (disabled) Synthesize(_ context.Context, text string) <-chan domain.VoiceResult {
	ch := make(chan domain.VoiceResult, 1)
	ch <- domain.VoiceResult{Text: text, Err: &domain.VoiceServiceError{Op: "synthesize", Err: domain.ErrVoiceDisabled}}
	close(ch)
	return ch
}
