package render

import (
	"image"
	"image/color"
	"unicode/utf8"
)

// OpKind names a recorded draw call.
type OpKind string

const (
	OpClear   OpKind = "clear"
	OpRect    OpKind = "rect"
	OpPolygon OpKind = "polygon"
	OpImage   OpKind = "image"
	OpText    OpKind = "text"
)

// Op is one recorded draw call.
type Op struct {
	Kind  OpKind
	Rect  image.Rectangle
	Text  string
	Color color.NRGBA
	Alpha float64
}

// Recorder is a Surface that records draw calls. It measures text with a
// fixed-width 8x16 cell per rune at scale 1.
type Recorder struct {
	size image.Point
	Ops  []Op
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(size image.Point) *Recorder {
	return &Recorder{size: size}
}

// Size implements Surface.
func (r *Recorder) Size() image.Point { return r.size }

// Clear implements Surface. Earlier ops are dropped.
func (r *Recorder) Clear(c color.NRGBA) {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear, Color: c, Rect: image.Rectangle{Max: r.size}})
}

// FillRect implements Surface.
func (r *Recorder) FillRect(rect image.Rectangle, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Rect: rect, Color: c})
}

// FillPolygon implements Surface. The recorded rect is the bounding box.
func (r *Recorder) FillPolygon(pts []image.Point, c color.NRGBA) {
	var bounds image.Rectangle
	for i, p := range pts {
		pr := image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
		if i == 0 {
			bounds = pr
		} else {
			bounds = bounds.Union(pr)
		}
	}
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Rect: bounds, Color: c})
}

// DrawImage implements Surface.
func (r *Recorder) DrawImage(_ image.Image, dst image.Rectangle, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: OpImage, Rect: dst, Alpha: alpha})
}

// DrawText implements Surface.
func (r *Recorder) DrawText(text string, at image.Point, scale float64, c color.NRGBA) {
	size := r.MeasureText(text, scale)
	r.Ops = append(r.Ops, Op{Kind: OpText, Text: text, Rect: image.Rectangle{Min: at, Max: at.Add(size)}, Color: c})
}

// MeasureText implements Surface.
func (r *Recorder) MeasureText(text string, scale float64) image.Point {
	return image.Pt(int(float64(8*utf8.RuneCountInString(text))*scale), int(16*scale))
}

// Count returns the number of ops of a kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the text of every text op in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset drops all ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
