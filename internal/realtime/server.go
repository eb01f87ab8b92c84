// Package realtime serves the timer over HTTP: a small JSON API for the
// timer commands and a websocket stream of live ticks per session.
package realtime

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/whiteindia/selftrack-sub002/internal/service"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	TickInterval    time.Duration
	RefreshInterval time.Duration
	Logger          *slog.Logger
	Clock           func() time.Time
}

// Server routes HTTP requests to the timer and subject services.
type Server struct {
	timers   service.TimerService
	subjects service.SubjectService

	tickInterval    time.Duration
	refreshInterval time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// New creates a new realtime server.
func New(timers service.TimerService, subjects service.SubjectService, opts Options) *Server {
	s := &Server{
		timers:          timers,
		subjects:        subjects,
		tickInterval:    opts.TickInterval,
		refreshInterval: opts.RefreshInterval,
		logger:          opts.Logger,
		now:             opts.Clock,
	}
	if s.tickInterval <= 0 {
		s.tickInterval = timer.DefaultTickInterval
	}
	if s.refreshInterval <= 0 {
		s.refreshInterval = 5 * time.Second
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("POST /sessions", s.handleStartSession)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/pause", s.handlePauseSession)
	mux.HandleFunc("POST /sessions/{id}/resume", s.handleResumeSession)
	mux.HandleFunc("POST /sessions/{id}/stop", s.handleStopSession)

	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
