package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jvrabec/facecam/internal/capture"
	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/pipeline"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps domain errors to HTTP status codes. Unrecognized
// errors are internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, gallery.ErrInvalidLabel),
		errors.Is(err, gallery.ErrNoDescriptor),
		errors.Is(err, pipeline.ErrNotCapturing):
		return http.StatusBadRequest
	case errors.Is(err, gallery.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrAlreadyCapturing),
		errors.Is(err, pipeline.ErrEmptyGallery):
		return http.StatusConflict
	case errors.Is(err, capture.ErrDeviceUnavailable),
		errors.Is(err, capture.ErrPermissionDenied),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError sends err with the status code it maps to.
func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
