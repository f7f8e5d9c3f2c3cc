// Package pipeline runs the live recognition loop and owns the application
// state behind it: current mode, capture source, gallery and matcher. All
// user actions go through the Controller, which keeps every transition
// atomic with respect to the frame loop.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jvrabec/facecam/internal/capture"
	"github.com/jvrabec/facecam/internal/config"
	"github.com/jvrabec/facecam/internal/detect"
	"github.com/jvrabec/facecam/internal/gallery"
	"github.com/jvrabec/facecam/internal/match"
	"github.com/jvrabec/facecam/internal/render"
)

var (
	// ErrAlreadyCapturing is returned when capture is started twice
	ErrAlreadyCapturing = errors.New("capture already running")

	// ErrNotCapturing is returned when an action needs a running camera
	ErrNotCapturing = errors.New("capture is not running")

	// ErrEmptyGallery is returned when recognition starts with no labeled faces
	ErrEmptyGallery = errors.New("no labeled faces in the gallery")
)

// captureFaceTimeout bounds how long a capture-face action may wait for a
// frame before giving up. The live loop has no such bound; it is stopped by
// closing the source instead.
const captureFaceTimeout = 3 * time.Second

// Mode is the current behavior of the live loop.
type Mode int

const (
	// ModeIdle means no camera is open and no loop is running
	ModeIdle Mode = iota

	// ModeDetecting means frames are captured and faces boxed, but not matched
	ModeDetecting

	// ModeRecognizing means detections are additionally matched against the gallery
	ModeRecognizing
)

func (m Mode) String() string {
	switch m {
	case ModeDetecting:
		return "detecting"
	case ModeRecognizing:
		return "recognizing"
	default:
		return "idle"
	}
}

// SourceOpener acquires a capture source. It is a constructor parameter so
// tests can substitute a scripted source for a real camera.
type SourceOpener func() (capture.Source, error)

// Controller owns the recognition state machine. Methods are safe for
// concurrent use; every user action commits fully before the frame loop can
// observe it.
type Controller struct {
	cfg      *config.Config
	gallery  *gallery.Gallery
	detector detect.Detector
	sink     render.Sink
	overlay  *render.Overlay
	open     SourceOpener

	mu       sync.Mutex
	mode     Mode
	source   capture.Source
	matcher  *match.Matcher
	gen      uint64 // bumped on every start/stop so a stale loop never acts
	loopDone chan struct{}
}

// Status is a snapshot of the controller for display.
type Status struct {
	Mode        Mode
	GallerySize int
	Device      string
	Threshold   float64
}

// New creates a controller. The source opener is called on every capture
// start, so a camera unplugged between sessions is re-probed.
func New(cfg *config.Config, gal *gallery.Gallery, det detect.Detector, sink render.Sink, open SourceOpener) *Controller {
	return &Controller{
		cfg:      cfg,
		gallery:  gal,
		detector: det,
		sink:     sink,
		overlay:  render.NewOverlay(cfg.Pipeline.JPEGQuality, cfg.Pipeline.StreamMaxWidth),
		open:     open,
	}
}

// StartCapture acquires the capture source and starts the detection loop.
// Idle -> Detecting. Fails with ErrAlreadyCapturing when a loop is live and
// with the opener's error when the camera cannot be acquired.
func (c *Controller) StartCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return ErrAlreadyCapturing
	}

	src, err := c.open()
	if err != nil {
		return fmt.Errorf("acquiring capture source: %w", err)
	}

	c.source = src
	c.mode = ModeDetecting
	c.gen++
	gen := c.gen
	done := make(chan struct{})
	c.loopDone = done

	go func() {
		defer close(done)
		c.run(src, gen)
	}()

	c.sink.UpdateMode(ModeDetecting.String())
	return nil
}

// StopCapture releases the camera and stops the loop. Detecting|Recognizing
// -> Idle; a no-op when already Idle. It returns after the in-flight cycle
// has finished, so the sink is cleared last.
func (c *Controller) StopCapture() {
	c.mu.Lock()
	if c.mode == ModeIdle {
		c.mu.Unlock()
		return
	}
	src := c.source
	done := c.loopDone
	c.mode = ModeIdle
	c.source = nil
	c.matcher = nil
	c.loopDone = nil
	c.gen++
	c.mu.Unlock()

	// Closing the source unblocks a loop waiting for its next frame; the
	// loop then observes Idle and exits within one cycle.
	if src != nil {
		src.Close()
	}
	if done != nil {
		<-done
	}

	c.sink.Clear()
	c.sink.UpdateMode(ModeIdle.String())
}

// StartRecognition switches the loop to matching mode. Detecting ->
// Recognizing; valid while already Recognizing, which rebuilds the matcher
// from the current gallery. Fails with ErrNotCapturing from Idle and
// ErrEmptyGallery when there is nothing to match against (mode unchanged).
func (c *Controller) StartRecognition() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeIdle {
		return ErrNotCapturing
	}

	entries := c.gallery.List()
	if len(entries) == 0 {
		return ErrEmptyGallery
	}

	c.matcher = match.New(entries, c.cfg.Match.Threshold)
	c.mode = ModeRecognizing
	c.sink.UpdateMode(ModeRecognizing.String())
	return nil
}

// CaptureFace grabs the newest frame, detects faces in it and stores the
// first detection in the gallery under label. Permitted only while the
// camera runs; the mode does not change. Returns the new entry and its
// gallery index.
//
// When several faces are in frame the first detection wins; pointing the
// camera at one person at a time is the expected way to enroll.
func (c *Controller) CaptureFace(ctx context.Context, label string) (int, gallery.Entry, error) {
	c.mu.Lock()
	src := c.source
	live := c.mode != ModeIdle
	c.mu.Unlock()

	if !live {
		return 0, gallery.Entry{}, ErrNotCapturing
	}

	// Validate before burning a detector pass on a label that cannot be stored.
	if strings.TrimSpace(label) == "" {
		return 0, gallery.Entry{}, gallery.ErrInvalidLabel
	}

	ctx, cancel := context.WithTimeout(ctx, captureFaceTimeout)
	defer cancel()

	frame, err := src.NextFrame(ctx)
	if err != nil {
		return 0, gallery.Entry{}, fmt.Errorf("capturing frame: %w", err)
	}

	detections, err := c.detector.DetectAll(frame.JPEG)
	if err != nil {
		return 0, gallery.Entry{}, fmt.Errorf("detecting faces: %w", err)
	}
	if len(detections) == 0 {
		return 0, gallery.Entry{}, gallery.ErrNoDescriptor
	}

	desc := detections[0].Descriptor
	index, err := c.gallery.Add(label, &desc)
	if err != nil {
		return 0, gallery.Entry{}, err
	}

	entries := c.gallery.List()
	c.sink.UpdateGallery(entries)
	return index, entries[index], nil
}

// DeleteFace removes the gallery entry at index. A matcher built for a
// running recognition session keeps its snapshot; restarting recognition
// picks up the change.
func (c *Controller) DeleteFace(index int) error {
	if err := c.gallery.Delete(index); err != nil {
		return err
	}
	c.sink.UpdateGallery(c.gallery.List())
	return nil
}

// Faces returns the current gallery entries in display order.
func (c *Controller) Faces() []gallery.Entry {
	return c.gallery.List()
}

// Mode returns the current loop mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Status returns a display snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()

	return Status{
		Mode:        mode,
		GallerySize: c.gallery.Len(),
		Device:      c.cfg.Camera.Device,
		Threshold:   c.cfg.Match.Threshold,
	}
}
