// Package web serves the browser page: the REST control API, the MJPEG
// stream of annotated frames and the SSE event channel behind the panels.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jvrabec/facecam/internal/config"
	"github.com/jvrabec/facecam/internal/pipeline"
	"github.com/jvrabec/facecam/internal/web/handlers"
	"github.com/jvrabec/facecam/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	pipeline   *pipeline.Controller
	hub        *handlers.Hub
}

// NewServer creates a new web server around a pipeline controller and the
// hub it publishes into.
func NewServer(cfg *config.Config, port int, host string, ctrl *pipeline.Controller, hub *handlers.Hub) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:   cfg,
		router:   r,
		pipeline: ctrl,
		hub:      hub,
	}

	// Set up middleware stack. No global timeout: /stream and
	// /api/v1/events stay open for the whole browser session.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	// Set up routes
	s.setupRoutes()

	// Create HTTP server. WriteTimeout stays zero because the MJPEG
	// stream writes for as long as the page is open.
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", host, port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")

	// Close hub listeners first, otherwise open stream and SSE
	// connections would hold up the drain until the context expires.
	s.hub.Shutdown()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
