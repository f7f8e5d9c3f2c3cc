package handlers

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jvrabec/facecam/internal/constants"
)

func TestStream_DeliversAnnotatedFrames(t *testing.T) {
	ctrl, hub, _ := newTestController(t)

	router := chi.NewRouter()
	router.Get("/stream", NewStreamHandler(hub).Stream)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	if err := ctrl.StartCapture(); err != nil {
		t.Fatalf("starting capture: %v", err)
	}

	resp, err := http.Get(server.URL + "/stream")
	if err != nil {
		t.Fatalf("connecting to stream: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parsing content type: %v", err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Errorf("expected media type 'multipart/x-mixed-replace', got '%s'", mediaType)
	}
	if params["boundary"] != constants.StreamBoundary {
		t.Errorf("expected boundary '%s', got '%s'", constants.StreamBoundary, params["boundary"])
	}

	// Read a few parts; every one is a JPEG.
	mr := multipart.NewReader(resp.Body, params["boundary"])
	for i := 0; i < 3; i++ {
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("reading part %d: %v", i, err)
		}
		if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("part %d Content-Type = '%s', want 'image/jpeg'", i, ct)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("reading part %d body: %v", i, err)
		}
		if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
			t.Errorf("part %d does not look like a JPEG", i)
		}
	}
}

func TestStream_StartsFromLastFrame(t *testing.T) {
	hub := NewHub()

	frame := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x01}
	hub.PublishFrame(frame)

	router := chi.NewRouter()
	router.Get("/stream", NewStreamHandler(hub).Stream)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/stream")
	if err != nil {
		t.Fatalf("connecting to stream: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parsing content type: %v", err)
	}

	// The frame published before the client connected opens the stream.
	mr := multipart.NewReader(resp.Body, params["boundary"])
	part, err := mr.NextPart()
	if err != nil {
		t.Fatalf("reading first part: %v", err)
	}

	got := make([]byte, len(frame))
	if _, err := io.ReadFull(part, got); err != nil {
		t.Fatalf("reading frame payload: %v", err)
	}
	if string(got) != string(frame) {
		t.Errorf("streamed frame %v, want %v", got, frame)
	}
}
