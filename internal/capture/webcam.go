package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io/fs"
	"log"
	"sync"
	"sync/atomic"

	"github.com/blackjack/webcam"

	"github.com/jvrabec/facecam/internal/constants"
)

// V4L2 fourcc codes for the two formats webcams commonly offer.
const (
	pixelFormatMJPEG = webcam.PixelFormat(0x47504A4D) // 'MJPG'
	pixelFormatYUYV  = webcam.PixelFormat(0x56595559) // 'YUYV'
)

// Options configure how a device is opened.
type Options struct {
	Device      string
	Width       int
	Height      int
	JPEGQuality int // used when the camera delivers raw YUYV frames
}

func (o *Options) withDefaults() Options {
	opts := Options{
		Device:      constants.DefaultDevice,
		Width:       constants.DefaultFrameWidth,
		Height:      constants.DefaultFrameHeight,
		JPEGQuality: constants.DefaultJPEGQuality,
	}
	if o == nil {
		return opts
	}
	if o.Device != "" {
		opts.Device = o.Device
	}
	if o.Width > 0 && o.Height > 0 {
		opts.Width = o.Width
		opts.Height = o.Height
	}
	if o.JPEGQuality > 0 {
		opts.JPEGQuality = o.JPEGQuality
	}
	return opts
}

// v4l2Source streams frames from one webcam. A background goroutine pumps
// raw frames into a one-slot buffer, replacing any frame the consumer has
// not picked up yet. Decoding happens on the consumer side so dropped
// frames cost nothing.
type v4l2Source struct {
	cam     *webcam.Webcam
	format  webcam.PixelFormat
	width   uint32
	height  uint32
	quality int

	frames  chan []byte
	done    chan struct{}
	err     error // valid after done is closed
	stopped atomic.Bool
	closer  sync.Once
}

// Open acquires the device, negotiates a pixel format and starts streaming.
// MJPEG is preferred because frames arrive ready for the detector; YUYV is
// the fallback every UVC camera supports.
func Open(opt *Options) (Source, error) {
	opts := opt.withDefaults()

	cam, err := webcam.Open(opts.Device)
	if err != nil {
		return nil, openError(opts.Device, err)
	}

	format, err := pickFormat(cam)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("%s: %w", opts.Device, err)
	}

	format, w, h, err := cam.SetImageFormat(format, uint32(opts.Width), uint32(opts.Height))
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("%w: set format on %s: %v", ErrDeviceUnavailable, opts.Device, err)
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("%w: start streaming on %s: %v", ErrDeviceUnavailable, opts.Device, err)
	}

	s := &v4l2Source{
		cam:     cam,
		format:  format,
		width:   w,
		height:  h,
		quality: opts.JPEGQuality,
		frames:  make(chan []byte, 1),
		done:    make(chan struct{}),
	}
	go s.pump()

	log.Printf("camera %s streaming %dx%d (%s)", opts.Device, w, h, formatName(format))
	return s, nil
}

// pickFormat chooses MJPEG when the device offers it, otherwise YUYV.
func pickFormat(cam *webcam.Webcam) (webcam.PixelFormat, error) {
	supported := cam.GetSupportedFormats()
	if _, ok := supported[pixelFormatMJPEG]; ok {
		return pixelFormatMJPEG, nil
	}
	if _, ok := supported[pixelFormatYUYV]; ok {
		return pixelFormatYUYV, nil
	}
	return 0, fmt.Errorf("%w: no MJPEG or YUYV format offered", ErrDeviceUnavailable)
}

func formatName(f webcam.PixelFormat) string {
	switch f {
	case pixelFormatMJPEG:
		return "MJPEG"
	case pixelFormatYUYV:
		return "YUYV"
	default:
		return fmt.Sprintf("fourcc 0x%08X", uint32(f))
	}
}

// openError translates device open failures into the capture error
// taxonomy: denied access is the user's to fix, everything else means the
// device is not usable right now (missing, busy, unplugged).
func openError(device string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: open %s: %v", ErrPermissionDenied, device, err)
	}
	return fmt.Errorf("%w: open %s: %v", ErrDeviceUnavailable, device, err)
}

// pump moves frames from the driver into the one-slot buffer until the
// source is closed or the device dies. The stop flag is polled, so shutdown
// is bounded by one frame wait.
func (s *v4l2Source) pump() {
	defer close(s.done)

	for !s.stopped.Load() {
		err := s.cam.WaitForFrame(constants.FrameWaitTimeoutSec)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			continue
		default:
			s.err = fmt.Errorf("%w: waiting for frame: %v", ErrDeviceUnavailable, err)
			return
		}

		raw, err := s.cam.ReadFrame()
		if err != nil {
			s.err = fmt.Errorf("%w: reading frame: %v", ErrDeviceUnavailable, err)
			return
		}
		if len(raw) == 0 {
			continue
		}

		// Replace whatever is buffered; the consumer only ever wants the
		// newest frame.
		select {
		case s.frames <- raw:
		default:
			select {
			case <-s.frames:
			default:
			}
			select {
			case s.frames <- raw:
			default:
			}
		}
	}
}

func (s *v4l2Source) NextFrame(ctx context.Context) (*Frame, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.done:
			if s.err != nil {
				return nil, s.err
			}
			return nil, ErrDeviceUnavailable
		case raw := <-s.frames:
			frame, err := s.decode(raw)
			if err != nil {
				// Cheap cameras emit the occasional broken frame; wait
				// for the next one instead of failing the cycle.
				log.Printf("capture: dropping undecodable frame: %v", err)
				continue
			}
			return frame, nil
		}
	}
}

// decode turns a raw driver frame into pixels plus detector-ready JPEG.
func (s *v4l2Source) decode(raw []byte) (*Frame, error) {
	switch s.format {
	case pixelFormatMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode mjpeg frame: %w", err)
		}
		rgba := toRGBA(img)
		return &Frame{Image: rgba, JPEG: raw}, nil

	case pixelFormatYUYV:
		rgba, err := yuyvToRGBA(raw, int(s.width), int(s.height))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: s.quality}); err != nil {
			return nil, fmt.Errorf("encode yuyv frame: %w", err)
		}
		return &Frame{Image: rgba, JPEG: buf.Bytes()}, nil

	default:
		return nil, fmt.Errorf("unsupported pixel format %s", formatName(s.format))
	}
}

func (s *v4l2Source) Close() error {
	s.closer.Do(func() {
		s.stopped.Store(true)
		<-s.done
		s.cam.StopStreaming()
		s.cam.Close()
	})
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
