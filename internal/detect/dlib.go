package detect

import (
	"fmt"
	"sync"

	goface "github.com/Kagami/go-face"

	"github.com/jvrabec/facecam/internal/face"
)

// DlibDetector runs the pretrained dlib detection and ResNet recognition
// models through go-face. The underlying recognizer is not safe for
// concurrent use, so calls are serialized with a mutex.
type DlibDetector struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

// NewDlibDetector loads the model files from dir. Verify the directory with
// the models package first to get a friendlier error than dlib's.
func NewDlibDetector(dir string) (*DlibDetector, error) {
	rec, err := goface.NewRecognizer(dir)
	if err != nil {
		return nil, fmt.Errorf("load face models from %s: %w", dir, err)
	}
	return &DlibDetector{rec: rec}, nil
}

// DetectAll returns every face in the frame with its bounding box and
// 128-dimensional descriptor.
func (d *DlibDetector) DetectAll(jpegData []byte) ([]face.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rec == nil {
		return nil, ErrModelNotLoaded
	}

	faces, err := d.rec.Recognize(jpegData)
	if err != nil {
		return nil, fmt.Errorf("recognize frame: %w", err)
	}

	detections := make([]face.Detection, 0, len(faces))
	for _, f := range faces {
		detections = append(detections, face.Detection{
			Box:        f.Rectangle,
			Descriptor: face.Descriptor(f.Descriptor),
		})
	}
	return detections, nil
}

// Close frees the dlib models. The detector reports ErrModelNotLoaded
// afterwards.
func (d *DlibDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rec != nil {
		d.rec.Close()
		d.rec = nil
	}
	return nil
}

var _ Detector = (*DlibDetector)(nil)
