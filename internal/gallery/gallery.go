// Package gallery stores labeled face descriptors for the lifetime of the
// process. Entries keep insertion order and are addressed by index; nothing
// is ever written to disk.
package gallery

import (
	"errors"
	"strings"
	"sync"

	"github.com/jvrabec/facecam/internal/face"
)

var (
	// ErrInvalidLabel is returned when a label is empty after trimming whitespace
	ErrInvalidLabel = errors.New("label must not be empty")

	// ErrNoDescriptor is returned when there is no face descriptor to store
	ErrNoDescriptor = errors.New("no face descriptor")

	// ErrIndexOutOfRange is returned when an index addresses no entry
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Entry is one labeled face.
type Entry struct {
	Label      string
	Descriptor face.Descriptor
}

// Gallery is an ordered, index-addressed collection of labeled faces.
// It is safe for concurrent use: every mutation commits fully before a
// concurrent reader can observe it, so a recognition cycle never sees a
// half-applied change.
type Gallery struct {
	mu      sync.RWMutex
	entries []Entry
}

func New() *Gallery {
	return &Gallery{}
}

// Add appends a labeled descriptor and returns its index. The label is
// trimmed before validation; duplicate labels are allowed and resolved by
// gallery order during matching.
func (g *Gallery) Add(label string, desc *face.Descriptor) (int, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, ErrInvalidLabel
	}
	if desc == nil {
		return 0, ErrNoDescriptor
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.entries = append(g.entries, Entry{Label: label, Descriptor: *desc})
	return len(g.entries) - 1, nil
}

// Delete removes the entry at index. Later entries shift down by one, so
// indices are positions, not stable identities.
func (g *Gallery) Delete(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if index < 0 || index >= len(g.entries) {
		return ErrIndexOutOfRange
	}
	g.entries = append(g.entries[:index], g.entries[index+1:]...)
	return nil
}

// List returns a snapshot of the entries in insertion order. Mutating the
// gallery afterwards does not affect the returned slice.
func (g *Gallery) List() []Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Len returns the number of entries.
func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// IsEmpty reports whether the gallery holds no entries.
func (g *Gallery) IsEmpty() bool {
	return g.Len() == 0
}
