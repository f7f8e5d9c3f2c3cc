// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face recognition constants
const (
	// DescriptorLength is the number of components in a dlib face descriptor
	DescriptorLength = 128

	// DefaultMatchThreshold is the default maximum Euclidean distance between
	// two descriptors of the same person. Lower values = stricter matching.
	DefaultMatchThreshold = 0.6
)

// Capture constants
const (
	// DefaultDevice is the V4L2 device opened when CAMERA_DEVICE is not set
	DefaultDevice = "/dev/video0"

	// DefaultFrameWidth is the requested capture width in pixels
	DefaultFrameWidth = 640

	// DefaultFrameHeight is the requested capture height in pixels
	DefaultFrameHeight = 480

	// FrameWaitTimeoutSec is how long a single frame wait may block before
	// the reader checks whether it should still be running
	FrameWaitTimeoutSec = 1
)

// Pipeline constants
const (
	// DefaultFrameIntervalMs is the pause between recognition cycles (~15 fps)
	DefaultFrameIntervalMs = 66

	// DefaultJPEGQuality is the encoder quality for annotated frames
	DefaultJPEGQuality = 80
)
