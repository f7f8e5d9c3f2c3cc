package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jvrabec/facecam/internal/capture"
	"github.com/jvrabec/facecam/internal/detect/mock"
	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/pipeline"
)

func TestStartCapture_ReturnsDetecting(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewActionsHandler(ctrl)

	req := httptest.NewRequest("POST", "/api/v1/capture/start", nil)
	recorder := httptest.NewRecorder()

	handler.StartCapture(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var status StatusResponse
	parseJSONResponse(t, recorder, &status)
	if status.Mode != "detecting" {
		t.Errorf("expected mode 'detecting', got '%s'", status.Mode)
	}
	if status.GallerySize != 0 {
		t.Errorf("expected empty gallery, got %d", status.GallerySize)
	}
}

func TestStartCapture_Conflict(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewActionsHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.StartCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/start", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	recorder = httptest.NewRecorder()
	handler.StartCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/start", nil))
	assertStatusCode(t, recorder, http.StatusConflict)
	assertJSONError(t, recorder, "capture already running")
}

func TestStartCapture_DeviceUnavailable(t *testing.T) {
	ctrl := pipeline.New(testConfig(), gallery.New(), mock.NewMockDetector(), NewHub(), func() (capture.Source, error) {
		return nil, capture.ErrDeviceUnavailable
	})
	handler := NewActionsHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.StartCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/start", nil))

	assertStatusCode(t, recorder, http.StatusServiceUnavailable)
}

func TestStopCapture_ReturnsIdle(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewActionsHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.StartCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/start", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	recorder = httptest.NewRecorder()
	handler.StopCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/stop", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var status StatusResponse
	parseJSONResponse(t, recorder, &status)
	if status.Mode != "idle" {
		t.Errorf("expected mode 'idle', got '%s'", status.Mode)
	}
}

func TestStopCapture_IdleIsOK(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewActionsHandler(ctrl)

	// Stopping an idle pipeline is not an error.
	recorder := httptest.NewRecorder()
	handler.StopCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/stop", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var status StatusResponse
	parseJSONResponse(t, recorder, &status)
	if status.Mode != "idle" {
		t.Errorf("expected mode 'idle', got '%s'", status.Mode)
	}
}

func TestStartRecognition_RequiresCapture(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewActionsHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.StartRecognition(recorder, httptest.NewRequest("POST", "/api/v1/recognition/start", nil))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "capture is not running")
}

func TestStartRecognition_EmptyGallery(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewActionsHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.StartCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/start", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	recorder = httptest.NewRecorder()
	handler.StartRecognition(recorder, httptest.NewRequest("POST", "/api/v1/recognition/start", nil))

	assertStatusCode(t, recorder, http.StatusConflict)
	assertJSONError(t, recorder, "no labeled faces in the gallery")

	// The failed switch leaves the loop detecting.
	if got := ctrl.Mode(); got != pipeline.ModeDetecting {
		t.Errorf("expected mode to stay detecting, got %v", got)
	}
}

func TestStartRecognition_ReturnsRecognizing(t *testing.T) {
	ctrl, _, det := newTestController(t)
	handler := NewActionsHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.StartCapture(recorder, httptest.NewRequest("POST", "/api/v1/capture/start", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	enrollFace(t, ctrl, det, "alice", 1.0)

	recorder = httptest.NewRecorder()
	handler.StartRecognition(recorder, httptest.NewRequest("POST", "/api/v1/recognition/start", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var status StatusResponse
	parseJSONResponse(t, recorder, &status)
	if status.Mode != "recognizing" {
		t.Errorf("expected mode 'recognizing', got '%s'", status.Mode)
	}
	if status.GallerySize != 1 {
		t.Errorf("expected gallery size 1, got %d", status.GallerySize)
	}
}
