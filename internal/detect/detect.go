// Package detect finds faces in camera frames and computes their
// descriptors. Detection, landmarking and descriptor inference are entirely
// delegated to the pretrained dlib models; nothing here reimplements them.
package detect

import (
	"errors"

	"github.com/jvrabec/facecam/internal/face"
)

// ErrModelNotLoaded is returned when the detector is used before its models
// were loaded or after it was closed.
var ErrModelNotLoaded = errors.New("face models not loaded")

// Detector finds every face in a JPEG-encoded frame. Zero detections is a
// normal result, not an error. Implementations are safe for concurrent use.
type Detector interface {
	DetectAll(jpegData []byte) ([]face.Detection, error)
	Close() error
}
