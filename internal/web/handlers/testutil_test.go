package handlers

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jvrabec/facecam/internal/capture"
	"github.com/jvrabec/facecam/internal/config"
	"github.com/jvrabec/facecam/internal/detect/mock"
	"github.com/jvrabec/facecam/internal/face"
	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/pipeline"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Camera:   config.CameraConfig{Device: "/dev/video9", Width: 64, Height: 48},
		Match:    config.MatchConfig{Threshold: 0.6},
		Pipeline: config.PipelineConfig{FrameInterval: time.Millisecond, JPEGQuality: 80},
	}
}

// newTestController builds a pipeline over mock capture and detection,
// sinking into a fresh hub
func newTestController(t *testing.T) (*pipeline.Controller, *Hub, *mock.MockDetector) {
	t.Helper()

	hub := NewHub()
	src := mock.NewMockSource()
	det := mock.NewMockDetector()
	ctrl := pipeline.New(testConfig(), gallery.New(), det, hub, func() (capture.Source, error) {
		return src, nil
	})
	t.Cleanup(ctrl.StopCapture)
	return ctrl, hub, det
}

// scriptDetection makes the detector report one face whose descriptor sits
// at x on the first axis
func scriptDetection(det *mock.MockDetector, x float32) {
	var desc face.Descriptor
	desc[0] = x
	det.Script([]face.Detection{{Box: image.Rect(10, 10, 40, 40), Descriptor: desc}})
}

// enrollFace captures the currently scripted face under label
func enrollFace(t *testing.T, ctrl *pipeline.Controller, det *mock.MockDetector, label string, x float32) {
	t.Helper()

	scriptDetection(det, x)
	if _, _, err := ctrl.CaptureFace(context.Background(), label); err != nil {
		t.Fatalf("enrolling %s: %v", label, err)
	}
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
