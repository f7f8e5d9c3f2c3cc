package handlers

import (
	"net/http"

	"github.com/jvrabec/facecam/internal/pipeline"
)

// StatusHandler handles the status endpoint.
type StatusHandler struct {
	pipeline *pipeline.Controller
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(ctrl *pipeline.Controller) *StatusHandler {
	return &StatusHandler{pipeline: ctrl}
}

// StatusResponse describes the pipeline state for the status endpoint and
// the initial SSE snapshot.
type StatusResponse struct {
	Mode        string  `json:"mode"`
	GallerySize int     `json:"gallery_size"`
	Device      string  `json:"device"`
	Threshold   float64 `json:"threshold"`
}

func statusResponse(ctrl *pipeline.Controller) StatusResponse {
	s := ctrl.Status()
	return StatusResponse{
		Mode:        s.Mode.String(),
		GallerySize: s.GallerySize,
		Device:      s.Device,
		Threshold:   s.Threshold,
	}
}

// Get returns the current mode and gallery size.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, statusResponse(h.pipeline))
}
