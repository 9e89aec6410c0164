package host

import (
	"image"
	"image/color"
	"math"

	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/dwell"
	"github.com/teslashibe/go-kiosk/pkg/render"
)

// Text scales for the menu and overlays.
const (
	titleScale  = 1.2
	authorScale = 0.8
	textScale   = 0.7
	hintScale   = 1.6

	tilePadding = 20
	hintBorder  = 300
	cursorSize  = 50
)

// HintText is shown over passive apps.
const HintText = "To interact, stand a few feet back and hold up your right hand."

var tileColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}

// Render draws the current frame: the running app, or the menu.
func (h *Host) Render(s render.Surface) {
	if h.running != nil {
		h.running.Render(s)
		if h.running.Descriptor().Passive {
			h.drawHint(s)
		}
		return
	}

	s.Clear(render.Gray)
	if h.frames != nil {
		if f := h.frames.Snapshot().Color; f != nil && f.Image != nil {
			s.DrawImage(f.Image, image.Rectangle{Max: s.Size()}, 1)
		}
	}

	descs := h.registry.Descriptors()
	for _, r := range h.engine.Regions() {
		if r.Index < len(descs) {
			h.drawTile(s, r, descs[r.Index])
		}
	}
	if h.resolver.Driver() != nil {
		h.drawCursor(s)
	}
}

func (h *Host) drawTile(s render.Surface, r dwell.Region, d app.Descriptor) {
	rect := r.Rect
	if !rect.Overlaps(image.Rectangle{Max: s.Size()}) {
		return
	}
	alpha := h.engine.RegionAlpha(r.Index)
	s.FillRect(rect, render.WithAlpha(tileColor, alpha))

	width := rect.Dx() - 2*tilePadding
	y := rect.Min.Y + 25

	title := render.Wrap(d.Name, width, measure(s, titleScale))
	for i := 0; i < len(title) && i < 2; i++ {
		y += render.CenteredText(s, title[i], rect.Min.X, rect.Max.X, y, titleScale, render.WithAlpha(render.White, alpha))
	}

	author := render.Cut("by "+d.Author, width, measure(s, authorScale))
	y += render.CenteredText(s, author, rect.Min.X, rect.Max.X, y, authorScale, render.WithAlpha(render.Orange, alpha))

	y += 10
	for _, line := range render.Wrap(d.Description, width, measure(s, textScale)) {
		if y+s.MeasureText(line, textScale).Y > rect.Max.Y {
			break
		}
		y += render.CenteredText(s, line, rect.Min.X, rect.Max.X, y, textScale, render.WithAlpha(render.Blue, alpha))
	}
}

// drawCursor draws an arrow pointing along the forearm.
func (h *Host) drawCursor(s render.Surface) {
	p := h.smoother.Pointer()
	if p.Opacity <= 0 {
		return
	}
	shape := [][2]float64{{0, -0.5}, {0.35, 0.4}, {0, 0.2}, {-0.35, 0.4}}
	sin, cos := math.Sincos(p.Rotation)

	pts := make([]image.Point, len(shape))
	for i, v := range shape {
		x, y := v[0]*cursorSize, v[1]*cursorSize
		pts[i] = image.Pt(
			int(p.Position.X+x*cos-y*sin),
			int(p.Position.Y+x*sin+y*cos),
		)
	}
	s.FillPolygon(pts, render.WithAlpha(render.White, p.Opacity))
}

// drawHint periodically overlays how to get the host's attention.
func (h *Host) drawHint(s render.Surface) {
	a := render.PassiveHintAlpha(h.total)
	if a <= 0 {
		return
	}
	size := s.Size()
	rect := image.Rect(hintBorder, hintBorder, size.X-hintBorder, size.Y-hintBorder)
	if rect.Empty() {
		rect = image.Rectangle{Max: size}
	}
	s.FillRect(rect, render.WithAlpha(render.Black, a*200/255))

	lines := render.Wrap(HintText, rect.Dx(), measure(s, hintScale))
	lineHeight := s.MeasureText(HintText, hintScale).Y
	y := rect.Min.Y + (rect.Dy()-lineHeight*len(lines))/2
	for _, line := range lines {
		y += render.CenteredText(s, line, rect.Min.X, rect.Max.X, y, hintScale, render.WithAlpha(render.White, a))
	}
}

func measure(s render.Surface, scale float64) render.Measure {
	return func(text string) int { return s.MeasureText(text, scale).X }
}
