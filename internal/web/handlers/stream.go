package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jvrabec/facecam/internal/constants"
)

// StreamHandler serves the annotated camera feed as an MJPEG stream.
type StreamHandler struct {
	hub *Hub
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(hub *Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Stream writes multipart/x-mixed-replace JPEG parts until the client
// disconnects. Connecting while the camera is off simply waits for the
// first frame.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	frames := h.hub.AddFrameListener()
	defer h.hub.RemoveFrameListener(frames)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+constants.StreamBoundary)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := writeStreamPart(w, frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeStreamPart(w io.Writer, frame []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", constants.StreamBoundary, len(frame)); err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
