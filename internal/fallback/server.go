package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// RequestRecorder receives one call per answered request.
type RequestRecorder interface {
	FallbackRequest(route string, code int)
}

// Config holds configuration for the fallback server.
type Config struct {
	// Addr is the listen address, normally 0.0.0.0:<port>.
	Addr string

	// Port is reported on /status.
	Port string

	State   State
	Logger  *slog.Logger
	Metrics RequestRecorder  // optional
	Now     func() time.Time // optional; defaults to time.Now
}

// Server is the fallback HTTP responder. Its route surface is fixed:
// GET /health, GET /status, everything else 404.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	server   *http.Server
	listener net.Listener
}

// New creates a fallback server. Nothing is bound until Listen.
func New(cfg Config) *Server {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		now:    now,
	}
	s.server = &http.Server{
		Handler: s.Handler(),
		// Only guards header reads; handlers themselves are unbounded.
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router with all fallback routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newHealthResponse(s.cfg.State, s.now()))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStatusResponse(s.cfg.State, s.cfg.Port, s.now()))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	//nolint:errcheck // HTTP response write errors are not recoverable
	w.Write([]byte("Not Found"))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // HTTP response write errors are not recoverable
	w.Write(body)
}

// logRequests logs every request and records it with the metrics recorder.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "other"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" && status != http.StatusNotFound {
			route = rctx.RoutePattern()
		}

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
			"duration", time.Since(start).String(),
		)
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.FallbackRequest(route, status)
		}
	})
}

// Listen binds the listen address. A bind failure is the wrapper's one
// unrecoverable condition, so it is reported before serving starts.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("fallback listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	return nil
}

// Serve answers requests until Shutdown. Listen must have succeeded.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("fallback server not listening")
	}
	s.logger.Info("server_running",
		"addr", s.listener.Addr().String(),
		"port", s.cfg.Port,
		"located", s.cfg.State.Located,
		"reason", s.cfg.State.Reason,
	)
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fallback serve: %w", err)
	}
	return nil
}

// ListenAndServe binds and serves until ctx is cancelled or serving fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Shutdown(shutdownCtx)
	})
	defer stop()

	return s.Serve()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("server_shutting_down")
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address once listening, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}
