// Package dwell implements hover-to-select over a scrolling column of menu
// regions.
package dwell

import (
	"image"
	"math"

	"github.com/teslashibe/go-kiosk/pkg/gesture"
)

// Absent is the progress value while no subject is present.
const Absent = -1.0

// baseAlpha is the opacity of a region that is not fading.
const baseAlpha = 250.0 / 255.0

// State is the current selection.
type State struct {
	Selected int     // region index, -1 for none
	Progress float64 // Absent, or 0..1
}

// Region is one app's tile.
type Region struct {
	Index int
	Rect  image.Rectangle
}

// Input is one frame's pointer data.
type Input struct {
	Present bool // a driving subject is bound
	Pointer gesture.Pointer
	Swipe   gesture.Event
}

// Engine owns the selection state and the region layout.
type Engine struct {
	cfg     Config
	screen  image.Point
	regions []Region
	offset  int
	state   State
}

// NewEngine creates an engine with n regions laid out for screen.
func NewEngine(cfg Config, screen image.Point, n int) *Engine {
	e := &Engine{
		cfg:     cfg,
		screen:  screen,
		regions: make([]Region, n),
		state:   State{Selected: -1},
	}
	for i := range e.regions {
		e.regions[i].Index = i
	}
	e.layout(0)
	return e
}

// Update applies one frame. It returns the committed region index and true
// on the frame progress reaches 1.
func (e *Engine) Update(in Input) (int, bool) {
	switch in.Swipe {
	case gesture.SwipeUp:
		e.ScrollUp()
	case gesture.SwipeDown:
		e.ScrollDown()
	}

	if !in.Present {
		e.state.Progress = Absent
		e.state.Selected = -1
		e.layout(e.cfg.Friction)
		return -1, false
	}
	if !in.Pointer.Visible {
		e.layout(e.cfg.Friction)
		return -1, false
	}

	pt := in.Pointer.Point()
	hit := e.HitTest(pt)
	// Outside every region the selection and progress are held. Only a
	// different region resets.
	if hit >= 0 {
		if hit != e.state.Selected {
			e.state.Progress = 0
		}
		e.state.Selected = hit

		r := e.regions[hit].Rect
		c := center(r)
		dx, dy := float64(c.X-pt.X), float64(c.Y-pt.Y)
		if math.Hypot(dx, dy) > float64(r.Dx())/e.cfg.NearDivisor {
			e.state.Progress += e.cfg.FarIncrement
		} else {
			e.state.Progress += e.cfg.NearIncrement
		}

		if e.state.Progress >= 1 {
			e.state.Progress = 1
			return hit, true
		}
	}

	e.layout(e.cfg.Friction)
	return -1, false
}

// HitTest returns the last region in index order containing pt, or -1.
func (e *Engine) HitTest(pt image.Point) int {
	hit := -1
	for i, r := range e.regions {
		if pt.In(r.Rect) {
			hit = i
		}
	}
	return hit
}

// Reset clears the selection. The host calls it when the menu is shown again.
func (e *Engine) Reset() {
	e.state = State{Selected: -1}
}

// ScrollUp moves the column up by one cell unless the last region is at the top.
func (e *Engine) ScrollUp() {
	if e.offset < len(e.regions)-1 {
		e.offset++
	}
}

// ScrollDown moves the column down by one cell unless already at the start.
func (e *Engine) ScrollDown() {
	if e.offset > 0 {
		e.offset--
	}
}

// State returns the current selection.
func (e *Engine) State() State { return e.state }

// Offset returns the scroll index.
func (e *Engine) Offset() int { return e.offset }

// Regions returns a copy of the displayed regions.
func (e *Engine) Regions() []Region {
	return append([]Region(nil), e.regions...)
}

// CellSize returns the side of a square cell.
func (e *Engine) CellSize() int {
	w := e.screen.X - e.cfg.ScrollAreaX - 2*e.cfg.Gap
	if w <= 0 {
		w = e.screen.X / 4
	}
	return w
}

// Target returns where region i settles at the current offset.
func (e *Engine) Target(i int) image.Rectangle {
	size := e.CellSize()
	x := e.cfg.ScrollAreaX + e.cfg.Gap
	if x+size > e.screen.X {
		x = e.screen.X - size - e.cfg.Gap
	}
	y := (i - e.offset) * (size + e.cfg.Gap)
	return image.Rect(x, y, x+size, y+size)
}

// RegionAlpha returns the display opacity of region i. Other regions fade
// out as progress on the selected one passes the fade threshold.
func (e *Engine) RegionAlpha(i int) float64 {
	s := e.state
	if s.Selected < 0 || s.Selected == i || s.Progress <= e.cfg.FadeThreshold {
		return baseAlpha
	}
	a := 1 - (s.Progress-e.cfg.FadeThreshold)/(1-e.cfg.FadeThreshold)
	return math.Max(0, math.Min(1, a))
}

// layout blends each region toward its target. friction 0 snaps.
func (e *Engine) layout(friction float64) {
	for i := range e.regions {
		target := e.Target(i)
		cur := e.regions[i].Rect.Min
		x := approach(cur.X, target.Min.X, friction)
		y := approach(cur.Y, target.Min.Y, friction)
		e.regions[i].Rect = image.Rect(x, y, x+target.Dx(), y+target.Dy())
	}
}

// approach blends cur toward target, moving at least one pixel so the
// rounded value always settles on target.
func approach(cur, target int, friction float64) int {
	next := int(math.Round(float64(cur)*friction + float64(target)*(1-friction)))
	if next == cur && cur != target {
		if target > cur {
			next++
		} else {
			next--
		}
	}
	return next
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}
