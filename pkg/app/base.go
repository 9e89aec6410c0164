package app

import (
	"image"
	"image/color"
	"time"

	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Base carries the construction params and the finished flag. Apps embed
// it and override what they need.
type Base struct {
	Params
	finished bool
}

// NewBase creates a Base from params.
func NewBase(p Params) Base {
	p.Logger = log.Or(p.Logger)
	if p.Projector == nil {
		p.Projector = sensor.DefaultProjector
	}
	return Base{Params: p}
}

// Exit asks the host to stop the app.
func (b *Base) Exit() { b.finished = true }

// Finished implements App.
func (b *Base) Finished() bool { return b.finished }

// LoadContent implements App.
func (b *Base) LoadContent(*ContentLoader) error { return nil }

// Initialize implements App.
func (b *Base) Initialize() error { return nil }

// Update implements App.
func (b *Base) Update(time.Duration) {}

// UnloadContent implements App.
func (b *Base) UnloadContent() {}

// Snapshot returns the latest sensor frames, or an empty snapshot.
func (b *Base) Snapshot() sensor.Snapshot {
	if b.Frames == nil {
		return sensor.Snapshot{}
	}
	return b.Frames.Snapshot()
}

// SubjectA returns the primary subject.
func (b *Base) SubjectA() *sensor.Candidate {
	if b.Subjects == nil {
		return nil
	}
	return b.Subjects.Primary()
}

// SubjectB returns the secondary subject.
func (b *Base) SubjectB() *sensor.Candidate {
	if b.Subjects == nil {
		return nil
	}
	return b.Subjects.Secondary()
}

// ScreenPosition projects a joint onto the app's resolution.
func (b *Base) ScreenPosition(j sensor.Joint) image.Point {
	x, y := sensor.ScreenSpacePosition(b.Projector, j.Position, b.Resolution)
	return image.Pt(int(x), int(y))
}

// DrawCamera draws the latest color frame across the whole surface.
func (b *Base) DrawCamera(s render.Surface) {
	if f := b.Snapshot().Color; f != nil && f.Image != nil {
		s.DrawImage(f.Image, image.Rectangle{Max: s.Size()}, 1)
	}
}

// DrawSkeleton draws a dot on every joint the sensor has an estimate for.
// Inferred joints are drawn at half opacity.
func (b *Base) DrawSkeleton(s render.Surface, c *sensor.Candidate, col color.NRGBA) {
	if c == nil {
		return
	}
	const r = 15
	for _, jt := range sensor.AllJoints {
		j := c.Joint(jt)
		if j.State == sensor.NotTracked {
			continue
		}
		p := b.ScreenPosition(j)
		dot := col
		if j.State == sensor.Inferred {
			dot = render.WithAlpha(col, float64(col.A)/255/2)
		}
		s.FillRect(image.Rect(p.X-r, p.Y-r, p.X+r, p.Y+r), dot)
	}
}
