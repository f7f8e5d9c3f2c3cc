package handlers

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jvrabec/facecam/internal/constants"
	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/match"
	"github.com/jvrabec/facecam/internal/render"
)

// Event types pushed over the SSE channel.
const (
	EventStatus  = "status"
	EventMode    = "mode"
	EventGallery = "gallery"
	EventResults = "results"
	EventClear   = "clear"
)

// Event represents one message for the browser panels.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub fans pipeline output out to connected browsers. It is the render sink
// of the live loop: annotated frames go to MJPEG stream clients, everything
// else to SSE listeners. Sends never block; a slow client misses updates
// instead of stalling the loop.
type Hub struct {
	mu        sync.RWMutex
	events    []chan Event
	frames    []chan []byte
	lastFrame []byte
	shutdown  bool
}

// NewHub creates a hub with no listeners.
func NewHub() *Hub {
	return &Hub{}
}

// AddEventListener registers an SSE listener. After Shutdown the returned
// channel is already closed so the caller returns immediately.
func (h *Hub) AddEventListener() chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan Event, constants.EventChannelBuffer)
	if h.shutdown {
		close(ch)
		return ch
	}
	h.events = append(h.events, ch)
	return ch
}

// RemoveEventListener unregisters and closes an SSE listener.
func (h *Hub) RemoveEventListener(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, listener := range h.events {
		if listener == ch {
			h.events = append(h.events[:i], h.events[i+1:]...)
			close(ch)
			return
		}
	}
}

// AddFrameListener registers an MJPEG stream client. The most recent frame,
// if any, is already waiting in the channel so the stream starts without
// delay.
func (h *Hub) AddFrameListener() chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan []byte, constants.StreamClientBuffer)
	if h.shutdown {
		close(ch)
		return ch
	}
	if h.lastFrame != nil {
		ch <- h.lastFrame
	}
	h.frames = append(h.frames, ch)
	return ch
}

// RemoveFrameListener unregisters and closes an MJPEG stream client.
func (h *Hub) RemoveFrameListener(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, listener := range h.frames {
		if listener == ch {
			h.frames = append(h.frames[:i], h.frames[i+1:]...)
			close(ch)
			return
		}
	}
}

// sendEvent broadcasts an event to all SSE listeners.
func (h *Hub) sendEvent(eventType string, data any) {
	event := Event{ID: uuid.New().String(), Type: eventType, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, listener := range h.events {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// PublishFrame hands an annotated JPEG to all stream clients and remembers
// it for clients connecting later.
func (h *Hub) PublishFrame(jpegData []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastFrame = jpegData
	for _, listener := range h.frames {
		select {
		case listener <- jpegData:
		default:
			// Client still draining the previous frame, skip this one.
		}
	}
}

// UpdateGallery pushes the new gallery composition.
func (h *Hub) UpdateGallery(entries []gallery.Entry) {
	h.sendEvent(EventGallery, facesToEntries(entries))
}

// UpdateResults pushes the match results of the latest frame.
func (h *Hub) UpdateResults(results []match.Result) {
	h.sendEvent(EventResults, results)
}

// UpdateMode announces a mode transition.
func (h *Hub) UpdateMode(mode string) {
	h.sendEvent(EventMode, map[string]string{"mode": mode})
}

// Clear blanks the live view and the panels after a session ended.
func (h *Hub) Clear() {
	h.mu.Lock()
	h.lastFrame = nil
	h.mu.Unlock()
	h.sendEvent(EventClear, nil)
}

// Shutdown closes every listener channel so the stream and SSE handlers
// return. Open browser connections would otherwise hold up a graceful
// server shutdown until its context expired.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown = true
	for _, listener := range h.events {
		close(listener)
	}
	for _, listener := range h.frames {
		close(listener)
	}
	h.events = nil
	h.frames = nil
}

// Verify interface compliance
var _ render.Sink = (*Hub)(nil)
