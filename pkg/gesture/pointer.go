// Package gesture smooths the driving subject's right hand into an on-screen
// pointer and detects swipes and poses from its joints.
package gesture

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

const twoPi = 2 * math.Pi

// Pointer is the smoothed cursor.
type Pointer struct {
	Position r2.Vec  // screen pixels
	Rotation float64 // radians in [0, 2π)
	Visible  bool
	Opacity  float64 // 0-1, eased toward visibility
}

// Point returns the position truncated to integer pixels.
func (p Pointer) Point() image.Point {
	return image.Pt(int(p.Position.X), int(p.Position.Y))
}

// Smoother owns the pointer state and the swipe trail.
type Smoother struct {
	cfg       Config
	screen    image.Point
	projector sensor.Projector

	pointer Pointer
	trail   *Trail
}

// NewSmoother creates a smoother for a screen of the given size. A nil
// projector uses sensor.DefaultProjector.
func NewSmoother(cfg Config, screen image.Point, projector sensor.Projector) *Smoother {
	if projector == nil {
		projector = sensor.DefaultProjector
	}
	return &Smoother{
		cfg:       cfg,
		screen:    screen,
		projector: projector,
		trail:     NewTrail(cfg.TrailSize),
	}
}

// Pointer returns the current pointer.
func (s *Smoother) Pointer() Pointer { return s.pointer }

// Trail returns the swipe trail.
func (s *Smoother) Trail() *Trail { return s.trail }

// Update advances the pointer with this frame's driving subject and returns
// any swipe. A nil driver or an untracked right hand hides the pointer and
// clears the trail.
func (s *Smoother) Update(driver *sensor.Candidate) Event {
	defer s.fade()

	if driver == nil || !driver.IsTracked(sensor.HandRight) {
		s.pointer.Visible = false
		s.trail.Clear()
		return None
	}
	s.pointer.Visible = true

	hand := driver.Joint(sensor.HandRight).Position
	elbow := driver.Joint(sensor.ElbowRight).Position

	hx, hy := sensor.ScreenSpacePosition(s.projector, hand, s.screen)
	ex, ey := sensor.ScreenSpacePosition(s.projector, elbow, s.screen)

	target := math.Atan2(hy-ey, hx-ex) + math.Pi/2
	target = Unwrap(s.pointer.Rotation, target)
	s.pointer.Rotation = Normalize(s.blend(s.pointer.Rotation, target))

	// Scale about the screen centre by hand depth.
	cx, cy := float64(s.screen.X)/2, float64(s.screen.Y)/2
	hx = (hx-cx)*hand.Z + cx
	hy = (hy-cy)*hand.Z + cy
	s.pointer.Position = r2.Vec{
		X: s.blend(s.pointer.Position.X, hx),
		Y: s.blend(s.pointer.Position.Y, hy),
	}

	s.trail.Push(hand)
	return s.trail.Swipe(s.cfg.SwipeThreshold)
}

// Reset clears the trail and hides the pointer.
func (s *Smoother) Reset() {
	s.trail.Clear()
	s.pointer.Visible = false
}

func (s *Smoother) blend(old, target float64) float64 {
	return old*s.cfg.Friction + target*(1-s.cfg.Friction)
}

func (s *Smoother) fade() {
	if s.pointer.Visible {
		s.pointer.Opacity = s.cfg.FadeIn + s.cfg.FadeOut*s.pointer.Opacity
	} else {
		s.pointer.Opacity = s.cfg.FadeOut * s.pointer.Opacity
	}
}

// Unwrap shifts target by a multiple of 2π so that target-current lies in
// (-π, π].
func Unwrap(current, target float64) float64 {
	d := math.Mod(target-current, twoPi)
	switch {
	case d > math.Pi:
		d -= twoPi
	case d <= -math.Pi:
		d += twoPi
	}
	return current + d
}

// Normalize maps an angle into [0, 2π).
func Normalize(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}
