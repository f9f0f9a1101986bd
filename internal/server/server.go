// Package server exposes a question store over JSON/HTTP.
//
// Routes:
//
//	GET    /get-questions          {questions: [...]}
//	POST   /save-questions         replace the collection with {questions: [...]}
//	DELETE /delete-question/{sl}   delete by stored SL
//	DELETE /delete-questions       delete everything
//	DELETE /questions/{id}         delete by stable ID
//	GET    /healthz                liveness
//	GET    /metrics                Prometheus metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// DefaultAddr is the port the browser frontend calls.
const DefaultAddr = ":9000"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves a types.Store over HTTP.
type Server struct {
	store   types.Store
	log     *slog.Logger
	metrics *metrics
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and failure logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRegistry registers the server metrics on reg instead of a private
// registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.metrics = newMetrics(reg)
		}
	}
}

// New builds a Server around an attached store.
func New(store types.Store, opts ...Option) *Server {
	s := &Server{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.NewRegistry())
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /get-questions", s.handleGetQuestions)
	mux.HandleFunc("POST /save-questions", s.handleSaveQuestions)
	mux.HandleFunc("DELETE /delete-question/{sl}", s.handleDeleteQuestion)
	mux.HandleFunc("DELETE /delete-questions", s.handleDeleteQuestions)
	mux.HandleFunc("DELETE /questions/{id}", s.handleDeleteByID)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())
	s.mux = mux
}

// Handler returns the root handler with CORS, logging and metrics applied.
func (s *Server) Handler() http.Handler {
	return cors(s.instrument(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
