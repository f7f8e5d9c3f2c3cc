// Package render turns recognition output into things a person can see:
// annotated frames, display strings and UI panel updates.
package render

import (
	"fmt"

	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/match"
)

// Sink receives everything the pipeline wants shown. The web layer
// implements it by fanning out to the MJPEG stream and the event channel;
// tests implement it with a recorder.
type Sink interface {
	// PublishFrame hands over one annotated JPEG frame.
	PublishFrame(jpegData []byte)

	// UpdateGallery announces the current gallery contents.
	UpdateGallery(entries []gallery.Entry)

	// UpdateResults announces the match results of the latest cycle.
	UpdateResults(results []match.Result)

	// UpdateMode announces a pipeline mode change.
	UpdateMode(mode string)

	// Clear tells viewers the live view stopped and panels should reset.
	Clear()
}

// FormatResult renders one match result for display, e.g. "alice (0.42)".
// Formatting lives here so the result data stays presentation-free.
func FormatResult(r match.Result) string {
	return fmt.Sprintf("%s (%.2f)", r.Label, r.Distance)
}
