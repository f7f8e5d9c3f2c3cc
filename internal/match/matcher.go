// Package match answers "whose face is this?" against a fixed set of
// labeled descriptors. A Matcher is a snapshot: build one from the gallery
// when recognition starts, throw it away when it stops. Gallery changes made
// while recognition runs are picked up on the next rebuild, never mid-scan.
package match

import (
	"math"

	"github.com/jvrabec/facecam/internal/constants"
	"github.com/jvrabec/facecam/internal/face"
	"github.com/jvrabec/facecam/internal/gallery"
)

// Unknown is the label reported when no gallery entry is close enough.
const Unknown = "unknown"

// Result is the outcome of matching one query descriptor.
type Result struct {
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
}

// Matcher finds the nearest labeled descriptor by Euclidean distance.
// The scan is linear; gallery sizes here are tens of entries, not millions.
type Matcher struct {
	entries   []gallery.Entry
	threshold float64
}

// New builds a matcher over a snapshot of gallery entries. A threshold <= 0
// falls back to the default.
func New(entries []gallery.Entry, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = constants.DefaultMatchThreshold
	}
	return &Matcher{entries: entries, threshold: threshold}
}

// Len returns the number of entries the matcher was built over.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// FindBestMatch scans every entry and returns the nearest one's label, or
// Unknown when the nearest distance exceeds the threshold. Equal distances
// keep the earliest entry. An empty matcher answers Unknown at +Inf.
func (m *Matcher) FindBestMatch(query face.Descriptor) Result {
	best := -1
	bestDist := math.Inf(1)

	for i := range m.entries {
		if d := face.Distance(query, m.entries[i].Descriptor); d < bestDist {
			best = i
			bestDist = d
		}
	}

	if best < 0 || bestDist > m.threshold {
		return Result{Label: Unknown, Distance: bestDist}
	}
	return Result{Label: m.entries[best].Label, Distance: bestDist}
}
