package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jvrabec/facecam/internal/pipeline"
)

// EventsHandler streams pipeline events to the browser over SSE.
type EventsHandler struct {
	hub      *Hub
	pipeline *pipeline.Controller
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(hub *Hub, ctrl *pipeline.Controller) *EventsHandler {
	return &EventsHandler{hub: hub, pipeline: ctrl}
}

// Events streams mode, gallery, results and clear events until the client
// disconnects. The first event is always a status snapshot so a fresh page
// can render without waiting for a change.
func (h *EventsHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := h.hub.AddEventListener()
	defer h.hub.RemoveEventListener(events)

	sendSSEEvent(w, flusher, Event{
		ID:   uuid.New().String(),
		Type: EventStatus,
		Data: statusResponse(h.pipeline),
	})

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, event)
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event Event) {
	jsonData, _ := json.Marshal(event)
	_, _ = io.WriteString(w, "id: "+event.ID+"\n")
	_, _ = io.WriteString(w, "event: "+event.Type+"\n")
	_, _ = io.WriteString(w, "data: ")
	_, _ = io.Copy(w, bytes.NewReader(jsonData))
	_, _ = io.WriteString(w, "\n\n")
	flusher.Flush()
}
