package voice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tinytop/pkg/adapters/memory"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/sync/singleflight"
)

// Client synthesizes speech through the OpenAI audio API. Safe for
// concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	api    openai.Client
	cache  ports.AudioCache
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// Option configures the Client.
type Option func(*Client)

// WithCache stores synthesized audio in cache for ttl (zero: no expiry).
func WithCache(cache ports.AudioCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.ttl = ttl
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a voice client. Callers normally use New, which
// falls back to Disabled without an API key.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg.withDefaults(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	// The key is only ever sent as a header; it never appears in errors.
	c.api = openai.NewClient(
		option.WithAPIKey(c.cfg.APIKey),
		option.WithBaseURL(c.cfg.Endpoint),
		option.WithHTTPClient(c.http),
		option.WithMaxRetries(0),
	)
	if c.cache == nil {
		c.cache = memory.NewAudioCache()
	}
	return c
}

// Enabled reports true: a Client always has a credential.
func (c *Client) Enabled() bool { return true }

// Synthesize fetches speech for text in the background. Identical
// concurrent requests share one HTTP call; a caller whose ctx ends stops
// waiting without cancelling the call for the others.
func (c *Client) Synthesize(ctx context.Context, text string) <-chan domain.VoiceResult {
	ch := make(chan domain.VoiceResult, 1)
	go func() {
		defer close(ch)
		audio, err := c.fetch(ctx, text)
		if err != nil {
			c.logger.Debug("Voice synthesis failed", "text", text, "err", err)
		}
		ch <- domain.VoiceResult{Text: text, Audio: audio, Err: err}
	}()
	return ch
}

// Preload warms the cache for words in the background.
func (c *Client) Preload(ctx context.Context, words ...string) {
	for _, w := range words {
		go func() {
			if _, err := c.fetch(ctx, w); err != nil {
				c.logger.Debug("Voice preload failed", "text", w, "err", err)
			}
		}()
	}
}

func (c *Client) fetch(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &domain.VoiceServiceError{Op: "synthesize", Err: fmt.Errorf("text is required")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &domain.VoiceServiceError{Op: "synthesize", Err: err}
	}
	key := c.cacheKey(text)

	if audio, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("Voice cache read failed", "err", err)
	} else if ok {
		return audio, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Shared by every waiter, so it outlives any one caller.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
		defer cancel()

		audio, err := c.request(ctx, text)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Put(ctx, key, audio, c.ttl); err != nil {
			c.logger.Warn("Voice cache write failed", "err", err)
		}
		return audio, nil
	})

	select {
	case <-ctx.Done():
		return nil, &domain.VoiceServiceError{Op: "synthesize", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) request(ctx context.Context, text string) ([]byte, error) {
	res, err := c.api.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          c.cfg.Model,
		Voice:          openai.AudioSpeechNewParamsVoice(c.cfg.Voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &domain.VoiceServiceError{Op: "request", Err: fmt.Errorf("status %d: %s", apiErr.StatusCode, apiErr.Message)}
		}
		return nil, &domain.VoiceServiceError{Op: "request", Err: err}
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &domain.VoiceServiceError{Op: "read", Err: err}
	}
	return audio, nil
}

func (c *Client) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.cfg.Model + "\x00" + c.cfg.Voice + "\x00" + strings.ToLower(text)))
	return hex.EncodeToString(sum[:])
}
