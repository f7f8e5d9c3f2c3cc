// Package mock provides mock implementations of detection and capture
// interfaces for testing.
package mock

import (
	"context"
	"image"
	"sync"

	"github.com/jvrabec/facecam/internal/capture"
	"github.com/jvrabec/facecam/internal/detect"
	"github.com/jvrabec/facecam/internal/face"
)

// MockDetector is a mock implementation of detect.Detector. It replays
// scripted detections and records how often it was called.
type MockDetector struct {
	mu         sync.Mutex
	detections [][]face.Detection
	calls      int
	closed     bool
	err        error
}

// NewMockDetector creates a mock that answers every frame with no faces.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// Script sets the detections returned by consecutive DetectAll calls. The
// last element repeats once the script runs out.
func (m *MockDetector) Script(detections ...[]face.Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detections = detections
}

// FailDetect makes every following DetectAll call return err. Pass nil to
// heal the detector again.
func (m *MockDetector) FailDetect(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// DetectAll replays the scripted detections.
func (m *MockDetector) DetectAll(jpegData []byte) ([]face.Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.closed {
		return nil, detect.ErrModelNotLoaded
	}

	idx := m.calls
	m.calls++
	if len(m.detections) == 0 {
		return nil, nil
	}
	if idx >= len(m.detections) {
		idx = len(m.detections) - 1
	}
	return m.detections[idx], nil
}

// Calls returns how many times DetectAll ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed; further DetectAll calls fail.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// MockSource is a mock implementation of capture.Source. It hands out one
// fixed frame over and over until closed.
type MockSource struct {
	mu     sync.Mutex
	frame  *capture.Frame
	served int
	closed bool
	err    error
}

// NewMockSource creates a source serving a plain gray test frame.
func NewMockSource() *MockSource {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return &MockSource{
		frame: &capture.Frame{Image: img, JPEG: []byte("not a real jpeg")},
	}
}

// SetFrame replaces the frame served to consumers.
func (m *MockSource) SetFrame(frame *capture.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = frame
}

// FailNextFrame makes every following NextFrame call return err, simulating
// a camera dying mid-stream.
func (m *MockSource) FailNextFrame(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// NextFrame returns the configured frame, the injected error, or
// ErrDeviceUnavailable once the source is closed.
func (m *MockSource) NextFrame(ctx context.Context) (*capture.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.closed {
		return nil, capture.ErrDeviceUnavailable
	}
	m.served++
	return m.frame, nil
}

// Served returns how many frames were handed out.
func (m *MockSource) Served() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.served
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close stops the source; NextFrame fails afterwards.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Verify interface compliance
var (
	_ detect.Detector = (*MockDetector)(nil)
	_ capture.Source  = (*MockSource)(nil)
)
