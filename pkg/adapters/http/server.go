// Package http exposes the launcher's status over HTTP: health, the game
// list, the current play session, a server-sent event stream of session
// changes and Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// StatusSource reports the session controller state.
type StatusSource interface {
	Status() domain.Status
}

// GameLister lists the discovered games.
type GameLister interface {
	Descriptors() []domain.GameDescriptor
}

// Server implements the generated ServerInterface.
type Server struct {
	Status   StatusSource
	Games    GameLister
	Version  string
	Gatherer prometheus.Gatherer
	Poll     time.Duration
	Logger   *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves metrics from g (default: prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithPollInterval sets how often /events checks for changes.
func WithPollInterval(d time.Duration) Option {
	return func(s *Server) {
		s.Poll = d
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(status StatusSource, games GameLister, opts ...Option) http.Handler {
	s := &Server{
		Status:   status,
		Games:    games,
		Version:  "dev",
		Gatherer: prometheus.DefaultGatherer,
		Poll:     500 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			s.Logger.Error("Failed to load OpenAPI spec", "err", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	return HandlerFromMux(s, r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Health{Status: "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Info{App: "tinytop", Version: s.Version})
}

// ListGames handles the GET /games request.
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	descs := s.Games.Descriptors()
	games := make([]Game, 0, len(descs))
	for _, d := range descs {
		games = append(games, mapGame(d))
	}
	s.writeJSON(w, games)
}

// GetGame handles the GET /games/{id} request.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request, id string) {
	for _, d := range s.Games.Descriptors() {
		if d.ID == id {
			s.writeJSON(w, mapGame(d))
			return
		}
	}
	http.Error(w, fmt.Sprintf("Game %q not found", id), http.StatusNotFound)
}

// GetSession handles the GET /session request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, mapSession(s.Status.Status()))
}

// SubscribeEvents handles the GET /events request (SSE). An event is sent
// whenever the mode, game or menu cursor changes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	poll := s.Poll
	if params.Interval != nil {
		poll = max(time.Duration(*params.Interval)*time.Millisecond, minPoll)
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var last domain.Status
	first := true
	for {
		st := s.Status.Status()
		if first || changed(last, st) {
			first = false
			last = st
			data, err := json.Marshal(mapSession(st))
			if err != nil {
				s.Logger.Error("SSE encode failed", "err", err)
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}

		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected")
			return
		case <-ticker.C:
		}
	}
}

const minPoll = 10 * time.Millisecond

func changed(a, b domain.Status) bool {
	return a.Mode != b.Mode || a.SessionID != b.SessionID || a.Cursor != b.Cursor || a.Games != b.Games
}

func mapGame(d domain.GameDescriptor) Game {
	g := Game{Id: d.ID, Name: d.DisplayName}
	if d.Description != "" {
		g.Description = &d.Description
	}
	return g
}

func mapSession(st domain.Status) Session {
	out := Session{
		Mode:   SessionMode(st.Mode),
		Frames: int64(st.Frames),
		Games:  st.Games,
		Cursor: st.Cursor,
	}
	if st.GameID != "" {
		out.GameId = &st.GameID
	}
	if st.SessionID != "" {
		out.SessionId = &st.SessionID
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("status server: %w", err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Status server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
