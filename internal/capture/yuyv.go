package capture

import (
	"fmt"
	"image"
)

// yuyvToRGBA converts a packed YUYV 4:2:2 frame to RGBA using the integer
// BT.601 conversion from the V4L2 documentation. Two horizontal pixels
// share one chroma pair.
func yuyvToRGBA(raw []byte, width, height int) (*image.RGBA, error) {
	need := width * height * 2
	if len(raw) < need {
		return nil, fmt.Errorf("short yuyv frame: got %d bytes, need %d", len(raw), need)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := y * width * 2
		for x := 0; x < width; x += 2 {
			i := row + x*2
			y0 := int(raw[i])
			u := int(raw[i+1])
			y1 := int(raw[i+2])
			v := int(raw[i+3])

			setYUV(rgba, x, y, y0, u, v)
			if x+1 < width {
				setYUV(rgba, x+1, y, y1, u, v)
			}
		}
	}
	return rgba, nil
}

func setYUV(img *image.RGBA, x, y, lum, u, v int) {
	c := 298 * (lum - 16)
	d := u - 128
	e := v - 128

	r := clamp((c + 409*e + 128) >> 8)
	g := clamp((c - 100*d - 208*e + 128) >> 8)
	b := clamp((c + 516*d + 128) >> 8)

	off := img.PixOffset(x, y)
	img.Pix[off+0] = r
	img.Pix[off+1] = g
	img.Pix[off+2] = b
	img.Pix[off+3] = 0xFF
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
