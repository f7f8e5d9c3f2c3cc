package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jvrabec/facecam/internal/web/handlers"
	"github.com/jvrabec/facecam/internal/web/static"
)

func (s *Server) setupRoutes() {
	// Create handlers
	actionsHandler := handlers.NewActionsHandler(s.pipeline)
	facesHandler := handlers.NewFacesHandler(s.pipeline)
	statusHandler := handlers.NewStatusHandler(s.pipeline)
	streamHandler := handlers.NewStreamHandler(s.hub)
	eventsHandler := handlers.NewEventsHandler(s.hub, s.pipeline)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Pipeline state
		r.Get("/status", statusHandler.Get)
		r.Get("/events", eventsHandler.Events)

		// Capture and recognition control
		r.Post("/capture/start", actionsHandler.StartCapture)
		r.Post("/capture/stop", actionsHandler.StopCapture)
		r.Post("/recognition/start", actionsHandler.StartRecognition)

		// Labeled-face gallery
		r.Post("/faces", facesHandler.Capture)
		r.Get("/faces", facesHandler.List)
		r.Delete("/faces/{index}", facesHandler.Delete)
	})

	// Live MJPEG feed for the <img> tag
	s.router.Get("/stream", streamHandler.Stream)

	// Embedded UI page
	s.router.Get("/", s.serveUI)
}

// serveUI serves the single embedded page.
func (s *Server) serveUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(static.IndexHTML())
}
