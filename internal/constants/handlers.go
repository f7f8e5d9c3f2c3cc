// Package constants provides shared constants used across the codebase.
package constants

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100
)

// Stream constants
const (
	// StreamBoundary is the multipart boundary of the MJPEG stream
	StreamBoundary = "frame"

	// StreamClientBuffer is the per-client frame buffer for the MJPEG stream.
	// A slow client skips frames instead of stalling the broadcaster.
	StreamClientBuffer = 1
)

// Shutdown constants
const (
	// ShutdownTimeoutSec is the grace period for draining in-flight requests
	ShutdownTimeoutSec = 30
)
