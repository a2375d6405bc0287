package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KaramelBytes/benford-cli/internal/analysis"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string
	// MaxUploadBytes caps the request body; 0 uses 32 MiB.
	MaxUploadBytes int64
	// Seed applies when a request does not carry one; 0 seeds from the clock.
	Seed uint64
	// Audit holds the default analysis options; form fields override them.
	Audit analysis.Options
}

// Server exposes the analyze and adjust operations over HTTP.
type Server struct {
	cfg    Config
	log    *slog.Logger
	router *chi.Mux
}

// New creates a server with its routes and middleware installed.
func New(cfg Config, log *slog.Logger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, log: log, router: chi.NewRouter()}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&requestLogger{log: s.log}))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/benford", s.handleBenford)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequestSize(s.cfg.MaxUploadBytes))
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/adjust", s.handleAdjust)
		})
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type requestLogger struct {
	log *slog.Logger
}

func (l *requestLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &logEntry{log: l.log.With(
		"request_id", middleware.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"remote", r.RemoteAddr,
	)}
}

type logEntry struct {
	log *slog.Logger
}

func (e *logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	lvl := slog.LevelInfo
	if status >= 500 {
		lvl = slog.LevelError
	}
	e.log.Log(context.Background(), lvl, "request", "status", status, "bytes", bytes, "elapsed", elapsed)
}

func (e *logEntry) Panic(v interface{}, stack []byte) {
	e.log.Error("panic", "panic", v, "stack", string(stack))
}
