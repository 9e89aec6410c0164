// Package cvsurface implements render.Surface on an OpenCV matrix.
package cvsurface

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-kiosk/pkg/render"
)

const font = gocv.FontHersheySimplex

// Surface is a BGR frame buffer. Drawing happens on the frame loop; Encode
// may be called from other goroutines.
type Surface struct {
	mu   sync.Mutex
	mat  gocv.Mat
	size image.Point
}

var _ render.Surface = (*Surface)(nil)

// New allocates a surface of the given size.
func New(size image.Point) *Surface {
	return &Surface{
		mat:  gocv.NewMatWithSize(size.Y, size.X, gocv.MatTypeCV8UC3),
		size: size,
	}
}

// Close releases the matrix.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mat.Close()
}

// Size implements render.Surface.
func (s *Surface) Size() image.Point { return s.size }

// Clear implements render.Surface.
func (s *Surface) Clear(c color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mat.SetTo(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0))
}

// FillRect implements render.Surface.
func (s *Surface) FillRect(r image.Rectangle, c color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r = r.Intersect(image.Rectangle{Max: s.size})
	if r.Empty() || c.A == 0 {
		return
	}
	s.blend(r, c.A, func(dst *gocv.Mat, offset image.Point) {
		gocv.Rectangle(dst, r.Sub(offset), opaque(c), -1)
	})
}

// FillPolygon implements render.Surface.
func (s *Surface) FillPolygon(pts []image.Point, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bounds := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		bounds = bounds.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	bounds = bounds.Intersect(image.Rectangle{Max: s.size})
	if bounds.Empty() {
		return
	}
	s.blend(bounds, c.A, func(dst *gocv.Mat, offset image.Point) {
		shifted := make([]image.Point, len(pts))
		for i, p := range pts {
			shifted[i] = p.Sub(offset)
		}
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{shifted})
		defer pv.Close()
		gocv.FillPoly(dst, pv, opaque(c))
	})
}

// DrawImage implements render.Surface. The image is scaled to dst.
func (s *Surface) DrawImage(img image.Image, dst image.Rectangle, alpha float64) {
	if img == nil || dst.Empty() || alpha <= 0 {
		return
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return
	}
	defer src.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(src, &scaled, dst.Size(), 0, 0, gocv.InterpolationLinear)

	s.mu.Lock()
	defer s.mu.Unlock()

	clip := dst.Intersect(image.Rectangle{Max: s.size})
	if clip.Empty() {
		return
	}
	part := scaled.Region(clip.Sub(dst.Min))
	defer part.Close()

	roi := s.mat.Region(clip)
	defer roi.Close()
	if alpha >= 1 {
		part.CopyTo(&roi)
		return
	}
	gocv.AddWeighted(part, alpha, roi, 1-alpha, 0, &roi)
}

// DrawText implements render.Surface. at is the top-left of the text box.
func (s *Surface) DrawText(text string, at image.Point, scale float64, c color.NRGBA) {
	if text == "" || c.A == 0 {
		return
	}
	size := s.MeasureText(text, scale)
	box := image.Rectangle{Min: at, Max: at.Add(size)}

	s.mu.Lock()
	defer s.mu.Unlock()

	clip := box.Intersect(image.Rectangle{Max: s.size})
	if clip.Empty() {
		return
	}
	s.blend(clip, c.A, func(dst *gocv.Mat, offset image.Point) {
		origin := image.Pt(at.X, at.Y+size.Y).Sub(offset)
		gocv.PutText(dst, text, origin, font, scale, opaque(c), thickness(scale))
	})
}

// MeasureText implements render.Surface.
func (s *Surface) MeasureText(text string, scale float64) image.Point {
	return gocv.GetTextSize(text, font, scale, thickness(scale))
}

// Encode returns the current frame as JPEG.
func (s *Surface) Encode() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...), nil
}

// Image returns a copy of the current frame.
func (s *Surface) Image() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mat.ToImage()
}

// blend runs draw on r and mixes the result in with opacity a. Opaque draws
// go straight to the frame.
func (s *Surface) blend(r image.Rectangle, a uint8, draw func(dst *gocv.Mat, offset image.Point)) {
	if a == 255 {
		draw(&s.mat, image.Point{})
		return
	}

	roi := s.mat.Region(r)
	defer roi.Close()

	overlay := roi.Clone()
	defer overlay.Close()
	draw(&overlay, r.Min)

	alpha := float64(a) / 255
	gocv.AddWeighted(overlay, alpha, roi, 1-alpha, 0, &roi)
}

func opaque(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func thickness(scale float64) int {
	t := int(scale * 2)
	if t < 1 {
		t = 1
	}
	return t
}
