package render

import (
	"image"
	"image/color"
	"math"

	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// depthMapAlpha is the opacity of every depth map pixel.
const depthMapAlpha = 125

// ColorizeDepth renders a depth frame as a hue map. Hue follows depth,
// pixels belonging to players 0-2 are tinted toward red, green and blue,
// and empty readings are white.
func ColorizeDepth(f *sensor.DepthFrame) *image.NRGBA {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, raw := range f.Data {
		if i*4 >= len(img.Pix) {
			break
		}
		c := DepthColor(raw)
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

// DepthColor maps one raw depth sample to its display color.
func DepthColor(raw int16) color.NRGBA {
	player := int(raw) & sensor.PlayerIndexMask
	depth := int(uint16(raw) >> sensor.PlayerIndexBits)

	if player == 0 && depth == 0 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: depthMapAlpha}
	}

	c := HSV(float64(depth/3%255), 1, 1)
	switch player {
	case 0:
		c.R += (255 - c.R) / 2
	case 1:
		c.G += (255 - c.G) / 2
	case 2:
		c.B += (255 - c.B) / 2
	}
	c.A = depthMapAlpha
	return c
}

// HSV converts hue in degrees, saturation and value in [0, 1] to an opaque
// color.
func HSV(hue, saturation, value float64) color.NRGBA {
	sector := math.Floor(hue / 60)
	hi := int(sector) % 6
	f := hue/60 - sector

	value *= 255
	v := uint8(math.RoundToEven(value))
	p := uint8(math.RoundToEven(value * (1 - saturation)))
	q := uint8(math.RoundToEven(value * (1 - f*saturation)))
	t := uint8(math.RoundToEven(value * (1 - (1-f)*saturation)))

	switch hi {
	case 0:
		return color.NRGBA{R: v, G: t, B: p, A: 255}
	case 1:
		return color.NRGBA{R: q, G: v, B: p, A: 255}
	case 2:
		return color.NRGBA{R: p, G: v, B: t, A: 255}
	case 3:
		return color.NRGBA{R: p, G: q, B: v, A: 255}
	case 4:
		return color.NRGBA{R: t, G: p, B: v, A: 255}
	default:
		return color.NRGBA{R: v, G: p, B: q, A: 255}
	}
}
