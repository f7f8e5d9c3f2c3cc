package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jvrabec/facecam/internal/constants"
)

// Box is one rectangle to draw on a frame, with an optional label above it.
type Box struct {
	Rect  image.Rectangle
	Label string
}

var (
	boxColor  = color.RGBA{R: 255, A: 255}
	textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	// boxLineWidth is the border thickness of a drawn bounding box
	boxLineWidth = 2

	// labelPadding is the space between label text and its background strip
	labelPadding = 3
)

// Overlay draws detection boxes and labels onto camera frames and encodes
// the result as JPEG for the live stream.
type Overlay struct {
	quality  int
	maxWidth int
}

// NewOverlay creates an overlay encoder. quality is the JPEG quality of
// published frames; maxWidth > 0 downscales frames wider than that, which
// keeps stream bandwidth down on high-resolution cameras.
func NewOverlay(quality, maxWidth int) *Overlay {
	if quality <= 0 {
		quality = constants.DefaultJPEGQuality
	}
	return &Overlay{quality: quality, maxWidth: maxWidth}
}

// Annotate draws the boxes onto a copy of src and returns the frame as
// JPEG bytes. The source image is never modified. An empty box list
// produces a clean frame, which is how "no faces this frame" is rendered.
func (o *Overlay) Annotate(src *image.RGBA, boxes []Box) ([]byte, error) {
	frame, scale := o.scaleFrame(src)

	for _, b := range boxes {
		rect := scaleRect(b.Rect, scale)
		drawBox(frame, rect)
		if b.Label != "" {
			drawLabel(frame, rect, b.Label)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: o.quality}); err != nil {
		return nil, fmt.Errorf("encode annotated frame: %w", err)
	}
	return buf.Bytes(), nil
}

// scaleFrame copies src, downscaling to maxWidth when configured. Boxes are
// drawn after scaling so box borders and label text stay crisp.
func (o *Overlay) scaleFrame(src *image.RGBA) (*image.RGBA, float64) {
	bounds := src.Bounds()
	width := bounds.Dx()

	if o.maxWidth <= 0 || width <= o.maxWidth {
		dst := image.NewRGBA(bounds)
		copy(dst.Pix, src.Pix)
		return dst, 1
	}

	scale := float64(o.maxWidth) / float64(width)
	height := int(float64(bounds.Dy()) * scale)
	dst := image.NewRGBA(image.Rect(0, 0, o.maxWidth, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst, scale
}

func scaleRect(r image.Rectangle, scale float64) image.Rectangle {
	if scale == 1 {
		return r
	}
	return image.Rect(
		int(float64(r.Min.X)*scale),
		int(float64(r.Min.Y)*scale),
		int(float64(r.Max.X)*scale),
		int(float64(r.Max.Y)*scale),
	)
}

// drawBox draws a rectangle outline, widened inward by boxLineWidth.
func drawBox(dst *image.RGBA, r image.Rectangle) {
	for w := 0; w < boxLineWidth; w++ {
		drawHLine(dst, r.Min.X, r.Max.X, r.Min.Y+w)
		drawHLine(dst, r.Min.X, r.Max.X, r.Max.Y-w)
		drawVLine(dst, r.Min.Y, r.Max.Y, r.Min.X+w)
		drawVLine(dst, r.Min.Y, r.Max.Y, r.Max.X-w)
	}
}

// drawHLine draws a horizontal line, clipped to the image.
func drawHLine(dst *image.RGBA, x1, x2, y int) {
	bounds := dst.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= bounds.Min.X && x < bounds.Max.X {
			dst.SetRGBA(x, y, boxColor)
		}
	}
}

// drawVLine draws a vertical line, clipped to the image.
func drawVLine(dst *image.RGBA, y1, y2, x int) {
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			dst.SetRGBA(x, y, boxColor)
		}
	}
}

// drawLabel draws the label on a filled strip above the box, or tucked
// inside it when the box touches the top of the frame.
func drawLabel(dst *image.RGBA, box image.Rectangle, label string) {
	label = FoldLabel(label)
	if label == "" {
		return
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: face,
	}

	stripHeight := face.Height + 2*labelPadding
	top := box.Min.Y - stripHeight
	if top < dst.Bounds().Min.Y {
		top = box.Min.Y + boxLineWidth
	}

	textWidth := d.MeasureString(label).Ceil()
	strip := image.Rect(box.Min.X, top, box.Min.X+textWidth+2*labelPadding, top+stripHeight)
	xdraw.Draw(dst, strip.Intersect(dst.Bounds()), image.NewUniform(boxColor), image.Point{}, xdraw.Src)

	d.Dot = fixed.P(box.Min.X+labelPadding, top+labelPadding+face.Ascent)
	d.DrawString(label)
}
