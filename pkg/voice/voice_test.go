package voice_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tinytop/pkg/adapters/redis"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type speechServer struct {
	*httptest.Server
	requests atomic.Int32
	status   int
	gate     chan struct{}
}

func newSpeechServer(t *testing.T) *speechServer {
	s := &speechServer{status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/audio/speech" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if s.gate != nil {
			<-s.gate
		}
		if s.status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(s.status)
			w.Write([]byte(`{"error":{"message":"quota exceeded","type":"requests"}}`))
			return
		}
		w.Write([]byte("WAV:" + body["voice"] + ":" + body["input"]))
	}))
	t.Cleanup(s.Close)
	return s
}

func receive(t *testing.T, ch <-chan domain.VoiceResult) domain.VoiceResult {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "channel closed without a result")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for voice result")
		return domain.VoiceResult{}
	}
}

func TestNew_WithoutKeyNeverCallsService(t *testing.T) {
	srv := newSpeechServer(t)

	v := voice.New(voice.Config{Endpoint: srv.URL})
	assert.False(t, v.Enabled())
	assert.Equal(t, voice.Disabled, v)

	res := receive(t, v.Synthesize(context.Background(), "cat"))
	assert.ErrorIs(t, res.Err, domain.ErrVoiceDisabled)
	var vse *domain.VoiceServiceError
	assert.ErrorAs(t, res.Err, &vse)
	assert.Nil(t, res.Audio)

	assert.Equal(t, int32(0), srv.requests.Load())
}

func TestClient_Synthesize(t *testing.T) {
	srv := newSpeechServer(t)
	v := voice.New(voice.Config{APIKey: "secret", Endpoint: srv.URL, Voice: "alloy"})
	require.True(t, v.Enabled())

	res := receive(t, v.Synthesize(context.Background(), "cat"))
	require.NoError(t, res.Err)
	assert.Equal(t, "cat", res.Text)
	assert.Equal(t, []byte("WAV:alloy:cat"), res.Audio)
}

func TestClient_CachesResults(t *testing.T) {
	srv := newSpeechServer(t)
	v := voice.New(voice.Config{APIKey: "secret", Endpoint: srv.URL})

	first := receive(t, v.Synthesize(context.Background(), "dog"))
	require.NoError(t, first.Err)
	second := receive(t, v.Synthesize(context.Background(), "DOG"))
	require.NoError(t, second.Err)

	assert.Equal(t, first.Audio, second.Audio)
	assert.Equal(t, int32(1), srv.requests.Load())
}

func TestClient_RedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	srv := newSpeechServer(t)
	cache := redis.New(mr.Addr(), "", 0)
	defer cache.Close()

	cfg := voice.Config{APIKey: "secret", Endpoint: srv.URL}
	v := voice.New(cfg, voice.WithCache(cache, time.Hour))
	require.NoError(t, receive(t, v.Synthesize(context.Background(), "sun")).Err)

	// A fresh client sharing the cache does not hit the service again.
	other := voice.New(cfg, voice.WithCache(cache, time.Hour))
	res := receive(t, other.Synthesize(context.Background(), "sun"))
	require.NoError(t, res.Err)
	assert.NotEmpty(t, res.Audio)
	assert.Equal(t, int32(1), srv.requests.Load())
}

func TestClient_ServiceErrorIsReported(t *testing.T) {
	srv := newSpeechServer(t)
	srv.status = http.StatusTooManyRequests
	v := voice.New(voice.Config{APIKey: "secret", Endpoint: srv.URL})

	res := receive(t, v.Synthesize(context.Background(), "tree"))
	require.Error(t, res.Err)
	var vse *domain.VoiceServiceError
	require.True(t, errors.As(res.Err, &vse))
	assert.Contains(t, res.Err.Error(), "429")
	assert.Contains(t, res.Err.Error(), "quota exceeded")
	assert.NotContains(t, res.Err.Error(), "secret")
}

func TestClient_CancelledContext(t *testing.T) {
	srv := newSpeechServer(t)
	v := voice.New(voice.Config{APIKey: "secret", Endpoint: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := receive(t, v.Synthesize(ctx, "moon"))
	assert.Error(t, res.Err)
}

func TestClient_CancelledWaiterLeavesSharedRequestRunning(t *testing.T) {
	srv := newSpeechServer(t)
	srv.gate = make(chan struct{})
	c := voice.NewClient(voice.Config{APIKey: "secret", Endpoint: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	first := c.Synthesize(ctx, "owl")
	require.Eventually(t, func() bool { return srv.requests.Load() == 1 }, 5*time.Second, 5*time.Millisecond)
	second := c.Synthesize(context.Background(), "owl")

	cancel()
	res := receive(t, first)
	assert.ErrorIs(t, res.Err, context.Canceled)

	close(srv.gate)
	res = receive(t, second)
	require.NoError(t, res.Err)
	assert.Equal(t, []byte("WAV:nova:owl"), res.Audio)
	assert.Equal(t, int32(1), srv.requests.Load())
}

func TestClient_Preload(t *testing.T) {
	srv := newSpeechServer(t)
	c := voice.NewClient(voice.Config{APIKey: "secret", Endpoint: srv.URL})

	c.Preload(context.Background(), "fish", "bird")
	assert.Eventually(t, func() bool { return srv.requests.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
}
