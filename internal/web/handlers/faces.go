// Package handlers provides HTTP handlers for the web API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/pipeline"
)

// FacesHandler handles the labeled-face gallery endpoints.
type FacesHandler struct {
	pipeline *pipeline.Controller
}

// NewFacesHandler creates a new faces handler.
func NewFacesHandler(ctrl *pipeline.Controller) *FacesHandler {
	return &FacesHandler{pipeline: ctrl}
}

// FaceEntry represents a gallery entry in API responses. The descriptor
// stays server-side.
type FaceEntry struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

func facesToEntries(entries []gallery.Entry) []FaceEntry {
	response := make([]FaceEntry, len(entries))
	for i, e := range entries {
		response[i] = FaceEntry{Index: i, Label: e.Label}
	}
	return response
}

// CaptureFaceRequest represents the request body for capturing a face.
type CaptureFaceRequest struct {
	Label string `json:"label"`
}

// Capture grabs the current frame and stores the face found in it under the
// requested label.
func (h *FacesHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureFaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	index, entry, err := h.pipeline.CaptureFace(r.Context(), req.Label)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, FaceEntry{Index: index, Label: entry.Label})
}

// List returns all gallery entries.
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, facesToEntries(h.pipeline.Faces()))
}

// Delete removes the gallery entry at the index in the URL.
func (h *FacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid face index")
		return
	}

	if err := h.pipeline.DeleteFace(index); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"deleted": index})
}
