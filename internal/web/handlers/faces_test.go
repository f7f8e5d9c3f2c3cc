package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureRequest(body string) *http.Request {
	return httptest.NewRequest("POST", "/api/v1/faces", strings.NewReader(body))
}

func TestCaptureFace_ReturnsEntry(t *testing.T) {
	ctrl, _, det := newTestController(t)
	handler := NewFacesHandler(ctrl)

	if err := ctrl.StartCapture(); err != nil {
		t.Fatalf("starting capture: %v", err)
	}
	scriptDetection(det, 1.0)

	recorder := httptest.NewRecorder()
	handler.Capture(recorder, captureRequest(`{"label": "alice"}`))

	assertStatusCode(t, recorder, http.StatusCreated)

	var entry FaceEntry
	parseJSONResponse(t, recorder, &entry)
	if entry.Index != 0 {
		t.Errorf("expected index 0, got %d", entry.Index)
	}
	if entry.Label != "alice" {
		t.Errorf("expected label 'alice', got '%s'", entry.Label)
	}
}

func TestCaptureFace_TrimsLabel(t *testing.T) {
	ctrl, _, det := newTestController(t)
	handler := NewFacesHandler(ctrl)

	if err := ctrl.StartCapture(); err != nil {
		t.Fatalf("starting capture: %v", err)
	}
	scriptDetection(det, 1.0)

	recorder := httptest.NewRecorder()
	handler.Capture(recorder, captureRequest(`{"label": "  alice  "}`))

	assertStatusCode(t, recorder, http.StatusCreated)

	var entry FaceEntry
	parseJSONResponse(t, recorder, &entry)
	if entry.Label != "alice" {
		t.Errorf("expected trimmed label 'alice', got '%s'", entry.Label)
	}
}

func TestCaptureFace_InvalidBody(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewFacesHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.Capture(recorder, captureRequest(`not json`))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, errInvalidRequestBody)
}

func TestCaptureFace_WhileIdle(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewFacesHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.Capture(recorder, captureRequest(`{"label": "alice"}`))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "capture is not running")
}

func TestCaptureFace_EmptyLabel(t *testing.T) {
	ctrl, _, det := newTestController(t)
	handler := NewFacesHandler(ctrl)

	if err := ctrl.StartCapture(); err != nil {
		t.Fatalf("starting capture: %v", err)
	}
	scriptDetection(det, 1.0)

	recorder := httptest.NewRecorder()
	handler.Capture(recorder, captureRequest(`{"label": "   "}`))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "label must not be empty")
}

func TestCaptureFace_NoFaceInFrame(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewFacesHandler(ctrl)

	if err := ctrl.StartCapture(); err != nil {
		t.Fatalf("starting capture: %v", err)
	}

	// The detector is not scripted, so it finds no faces.
	recorder := httptest.NewRecorder()
	handler.Capture(recorder, captureRequest(`{"label": "alice"}`))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "no face descriptor")
}

func TestListFaces_Empty(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewFacesHandler(ctrl)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/faces", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	// An empty gallery is an empty array, not null.
	body := strings.TrimSpace(recorder.Body.String())
	if body != "[]" {
		t.Errorf("expected '[]', got '%s'", body)
	}
}

func TestListFaces_ReturnsEntries(t *testing.T) {
	ctrl, _, det := newTestController(t)
	handler := NewFacesHandler(ctrl)

	if err := ctrl.StartCapture(); err != nil {
		t.Fatalf("starting capture: %v", err)
	}
	enrollFace(t, ctrl, det, "alice", 1.0)
	enrollFace(t, ctrl, det, "bob", 5.0)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/faces", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var entries []FaceEntry
	parseJSONResponse(t, recorder, &entries)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Index != 0 || entries[0].Label != "alice" {
		t.Errorf("entry 0 = %+v, want index 0 label alice", entries[0])
	}
	if entries[1].Index != 1 || entries[1].Label != "bob" {
		t.Errorf("entry 1 = %+v, want index 1 label bob", entries[1])
	}
}

func TestDeleteFace_RemovesEntry(t *testing.T) {
	ctrl, _, det := newTestController(t)
	handler := NewFacesHandler(ctrl)

	if err := ctrl.StartCapture(); err != nil {
		t.Fatalf("starting capture: %v", err)
	}
	enrollFace(t, ctrl, det, "alice", 1.0)
	enrollFace(t, ctrl, det, "bob", 5.0)

	req := httptest.NewRequest("DELETE", "/api/v1/faces/0", nil)
	req = requestWithChiParams(req, map[string]string{"index": "0"})
	recorder := httptest.NewRecorder()

	handler.Delete(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	faces := ctrl.Faces()
	if len(faces) != 1 || faces[0].Label != "bob" {
		t.Errorf("remaining faces = %v, want only bob", faces)
	}
}

func TestDeleteFace_InvalidIndex(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewFacesHandler(ctrl)

	req := httptest.NewRequest("DELETE", "/api/v1/faces/abc", nil)
	req = requestWithChiParams(req, map[string]string{"index": "abc"})
	recorder := httptest.NewRecorder()

	handler.Delete(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "invalid face index")
}

func TestDeleteFace_OutOfRange(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	handler := NewFacesHandler(ctrl)

	req := httptest.NewRequest("DELETE", "/api/v1/faces/5", nil)
	req = requestWithChiParams(req, map[string]string{"index": "5"})
	recorder := httptest.NewRecorder()

	handler.Delete(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "index out of range")
}
