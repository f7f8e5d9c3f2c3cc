package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/jvrabec/facecam/internal/capture"
	"github.com/jvrabec/facecam/internal/match"
	"github.com/jvrabec/facecam/internal/render"
)

// run is the per-frame cycle: pull the newest frame, detect faces, match
// them when recognizing, publish the annotated frame, then wait for the
// next frame slot. Liveness is polled at the start of every cycle; the
// loop exits the moment the mode turns Idle or the source dies. There is
// no cancel token, so stopping is bounded by one frame.
func (c *Controller) run(src capture.Source, gen uint64) {
	ticker := time.NewTicker(c.cfg.Pipeline.FrameInterval)
	defer ticker.Stop()

	ctx := context.Background()
	for {
		mode, matcher, live := c.cycleState(gen)
		if !live {
			return
		}

		frame, err := src.NextFrame(ctx)
		if err != nil {
			// Either the user stopped capture (source closed under us,
			// deviceLost is then a no-op) or the camera really died.
			c.deviceLost(gen, err)
			return
		}

		detections, err := c.detector.DetectAll(frame.JPEG)
		if err != nil {
			// One bad frame never kills the loop; skip it and keep cycling.
			log.Printf("pipeline: detection failed: %v", err)
			detections = nil
		}

		boxes := make([]render.Box, 0, len(detections))
		var results []match.Result
		if mode == ModeRecognizing {
			results = make([]match.Result, 0, len(detections))
		}
		for _, det := range detections {
			box := render.Box{Rect: det.Box}
			if mode == ModeRecognizing {
				res := matcher.FindBestMatch(det.Descriptor)
				box.Label = render.FormatResult(res)
				results = append(results, res)
			}
			boxes = append(boxes, box)
		}

		// Zero detections is a normal frame: the overlay is redrawn empty.
		annotated, err := c.overlay.Annotate(frame.Image, boxes)
		if err != nil {
			log.Printf("pipeline: annotating frame: %v", err)
		} else {
			c.sink.PublishFrame(annotated)
		}
		if mode == ModeRecognizing {
			c.sink.UpdateResults(results)
		}

		<-ticker.C
	}
}

// cycleState reads the state one cycle runs under. live is false when the
// loop belongs to a finished session and must stop rescheduling.
func (c *Controller) cycleState(gen uint64) (Mode, *match.Matcher, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.mode == ModeIdle {
		return ModeIdle, nil, false
	}
	return c.mode, c.matcher, true
}

// deviceLost forces the controller to Idle after the capture source died
// mid-session. When the generation no longer matches, StopCapture already
// handled the shutdown and this is a no-op.
func (c *Controller) deviceLost(gen uint64, cause error) {
	c.mu.Lock()
	if c.gen != gen || c.mode == ModeIdle {
		c.mu.Unlock()
		return
	}
	src := c.source
	c.mode = ModeIdle
	c.source = nil
	c.matcher = nil
	c.loopDone = nil
	c.gen++
	c.mu.Unlock()

	log.Printf("pipeline: capture source lost, stopping: %v", cause)
	if src != nil {
		src.Close()
	}
	c.sink.Clear()
	c.sink.UpdateMode(ModeIdle.String())
}
