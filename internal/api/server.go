// Package api exposes the simulation engine over a small JSON HTTP surface.
// It consumes the core's read-only views and action API only; no scheduling
// logic lives here.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Host string
	Port int
}

// Server represents the HTTP API server.
type Server struct {
	config     ServerConfig
	router     *chi.Mux
	httpServer *http.Server
	handlers   *Handlers
}

// NewServer creates a new API server around the given handlers.
func NewServer(config ServerConfig, handlers *Handlers) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	s := &Server{
		config:   config,
		router:   r,
		handlers: handlers,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handlers.GetStatus)
		r.Get("/metrics", s.handlers.GetMetrics)
		r.Get("/events", s.handlers.GetEvents)
		r.Get("/tree", s.handlers.GetTree)

		r.Get("/processes", s.handlers.GetProcesses)
		r.Post("/processes", s.handlers.CreateProcess)
		r.Route("/processes/{pid}", func(r chi.Router) {
			r.Get("/", s.handlers.GetProcess)
			r.Post("/child", s.handlers.CreateChild)
			r.Post("/promote", s.handlers.PromoteProcess)
			r.Post("/block", s.handlers.BlockProcess)
			r.Post("/terminate", s.handlers.TerminateProcess)
			r.Post("/reap", s.handlers.ReapChild)
		})

		r.Post("/tick", s.handlers.Tick)
		r.Post("/reset", s.handlers.Reset)
	})
}

// Router returns the underlying router, used directly in tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening and blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logrus.Infof("API server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
