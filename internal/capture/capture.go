// Package capture acquires frames from a local V4L2 webcam. A Source hands
// out the newest available frame; stale frames are dropped so recognition
// never works on old pictures.
package capture

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrPermissionDenied is returned when the process may not open the device
	ErrPermissionDenied = errors.New("camera permission denied")

	// ErrDeviceUnavailable is returned when the device is missing, busy or lost
	ErrDeviceUnavailable = errors.New("camera unavailable")
)

// Frame is one picture taken from the camera: decoded pixels for drawing
// plus the JPEG bytes handed to the face detector.
type Frame struct {
	Image *image.RGBA
	JPEG  []byte
}

// Source produces frames until closed.
//
// NextFrame blocks until a frame is available, the context is done, or the
// device is lost. After the device is lost every call reports
// ErrDeviceUnavailable.
type Source interface {
	NextFrame(ctx context.Context) (*Frame, error)
	Close() error
}
