// Package face defines the data types shared by the capture, detection,
// matching and rendering packages.
package face

import (
	"image"
	"math"

	"github.com/jvrabec/facecam/internal/constants"
)

// Descriptor is a 128-dimensional embedding produced by the dlib ResNet
// recognition model. Descriptors of the same person are close in Euclidean
// distance; descriptors of different people are far apart.
type Descriptor [constants.DescriptorLength]float32

// Detection is a single face found in one frame: where it is and what it
// looks like. Detections are transient and never outlive the frame.
type Detection struct {
	Box        image.Rectangle
	Descriptor Descriptor
}

// Distance computes the Euclidean (L2) distance between two descriptors.
// Returns 0 for identical descriptors; the result is symmetric in a and b.
func Distance(a, b Descriptor) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
