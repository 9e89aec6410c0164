// Package render defines the drawing surface the host and apps paint on,
// plus the small amount of presentation math the menu needs.
package render

import (
	"image"
	"image/color"
)

// Surface is a 2D drawing target. Colors are non-premultiplied; A is the
// opacity of the draw.
type Surface interface {
	Size() image.Point
	Clear(c color.NRGBA)
	FillRect(r image.Rectangle, c color.NRGBA)
	FillPolygon(pts []image.Point, c color.NRGBA)
	DrawImage(img image.Image, dst image.Rectangle, alpha float64)
	DrawText(text string, at image.Point, scale float64, c color.NRGBA)
	MeasureText(text string, scale float64) image.Point
}

// Common colors.
var (
	Black  = color.NRGBA{A: 255}
	White  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Gray   = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	Orange = color.NRGBA{R: 255, G: 165, A: 255}
	Blue   = color.NRGBA{R: 173, G: 216, B: 230, A: 255}
)

// WithAlpha returns c with opacity a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	switch {
	case a <= 0:
		c.A = 0
	case a >= 1:
		c.A = 255
	default:
		c.A = uint8(a * 255)
	}
	return c
}

// CenteredText draws text horizontally centred between left and right and
// returns the line height.
func CenteredText(s Surface, text string, left, right, y int, scale float64, c color.NRGBA) int {
	size := s.MeasureText(text, scale)
	s.DrawText(text, image.Pt((left+right-size.X)/2, y), scale, c)
	return size.Y
}
