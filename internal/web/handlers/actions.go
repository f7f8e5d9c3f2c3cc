package handlers

import (
	"net/http"

	"github.com/jvrabec/facecam/internal/pipeline"
)

// ActionsHandler handles the capture and recognition control endpoints.
type ActionsHandler struct {
	pipeline *pipeline.Controller
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(ctrl *pipeline.Controller) *ActionsHandler {
	return &ActionsHandler{pipeline: ctrl}
}

// StartCapture opens the camera and starts the detection loop.
func (h *ActionsHandler) StartCapture(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.StartCapture(); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResponse(h.pipeline))
}

// StopCapture stops the loop and releases the camera.
func (h *ActionsHandler) StopCapture(w http.ResponseWriter, r *http.Request) {
	h.pipeline.StopCapture()
	respondJSON(w, http.StatusOK, statusResponse(h.pipeline))
}

// StartRecognition switches the running loop to matching mode.
func (h *ActionsHandler) StartRecognition(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.StartRecognition(); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statusResponse(h.pipeline))
}
