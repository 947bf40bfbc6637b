package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	mu sync.Mutex
	st domain.Status
}

func (f *fakeStatus) Status() domain.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st
}

func (f *fakeStatus) set(st domain.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st = st
}

type fakeGames []domain.GameDescriptor

func (f fakeGames) Descriptors() []domain.GameDescriptor { return f }

func newTestHandler(status *fakeStatus) http.Handler {
	games := fakeGames{
		{ID: "pong", DisplayName: "Pong"},
		{ID: "snake", DisplayName: "Snake", Description: "Eat apples"},
	}
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "tinytop_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()
	return NewHandler(status, games,
		WithGatherer(reg),
		WithVersion("1.2.3"),
		WithPollInterval(10*time.Millisecond),
	)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(&fakeStatus{})

	w := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(t, h, "/info")
	assert.JSONEq(t, `{"app":"tinytop","version":"1.2.3"}`, w.Body.String())
}

func TestListGames(t *testing.T) {
	w := get(t, newTestHandler(&fakeStatus{}), "/games")
	require.Equal(t, http.StatusOK, w.Code)

	var games []Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	require.Len(t, games, 2)
	desc := "Eat apples"
	assert.Equal(t, Game{Id: "snake", Name: "Snake", Description: &desc}, games[1])
	assert.Nil(t, games[0].Description)
}

func TestGetGame(t *testing.T) {
	h := newTestHandler(&fakeStatus{})

	w := get(t, h, "/games/pong")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"pong","name":"Pong"}`, w.Body.String())

	w = get(t, h, "/games/tetris")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenAPISpec(t *testing.T) {
	w := get(t, newTestHandler(&fakeStatus{}), "/openapi.yaml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/yaml", w.Header().Get("Content-Type"))

	swagger, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(context.Background()))
	for _, path := range []string{"/health", "/info", "/games", "/games/{id}", "/session", "/events"} {
		assert.NotNil(t, swagger.Paths.Find(path), path)
	}
}

func TestSubscribeEvents_BadInterval(t *testing.T) {
	w := get(t, newTestHandler(&fakeStatus{}), "/events?interval=soon")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSession(t *testing.T) {
	status := &fakeStatus{st: domain.Status{Mode: domain.ModeInGame, GameID: "snake", SessionID: "abc", Frames: 42}}
	w := get(t, newTestHandler(status), "/session")

	var got domain.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, status.st, got)

	w = get(t, newTestHandler(&fakeStatus{}), "/session")
	assert.JSONEq(t, `{"mode":"","frames":0,"games":0,"cursor":0}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	w := get(t, newTestHandler(&fakeStatus{}), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tinytop_test_total 1")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest("OPTIONS", "/session", nil)
	w := httptest.NewRecorder()
	newTestHandler(&fakeStatus{}).ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	status := &fakeStatus{st: domain.Status{Mode: domain.ModeAtMenu}}
	h := newTestHandler(status)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/events?interval=20", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	status.set(domain.Status{Mode: domain.ModeInGame, GameID: "snake", SessionID: "abc"})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.Contains(t, body, "event: ping")
	assert.Contains(t, body, `"mode":"at_menu"`)
	assert.Contains(t, body, `"mode":"in_game"`)
	assert.Equal(t, 1, strings.Count(body, `"mode":"at_menu"`), "unchanged status is not resent")
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, "127.0.0.1:0", newTestHandler(&fakeStatus{}), slogDiscard())
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
