package sensor

import (
	"image"

	"gonum.org/v1/gonum/spatial/r3"
)

// Depth sample layout.
const (
	PlayerIndexBits = 3
	PlayerIndexMask = 1<<PlayerIndexBits - 1
)

// Projector maps a sensor-space point to normalized image coordinates
// (0..1 on both axes, origin top-left).
type Projector interface {
	Project(p r3.Vec) (u, v float64)
}

// KinectProjector is a pinhole model of the depth camera.
type KinectProjector struct {
	FocalLength float64 // pixels
	Width       float64 // image width in pixels
	Height      float64 // image height in pixels
}

// DefaultProjector matches a 640x480 depth stream.
var DefaultProjector Projector = KinectProjector{FocalLength: 571.26, Width: 640, Height: 480}

// Project implements Projector. Points at or behind the sensor project to
// the image centre.
func (k KinectProjector) Project(p r3.Vec) (u, v float64) {
	if p.Z <= 0 {
		return 0.5, 0.5
	}
	u = 0.5 + p.X*k.FocalLength/(p.Z*k.Width)
	v = 0.5 - p.Y*k.FocalLength/(p.Z*k.Height)
	return u, v
}

// ScreenSpacePosition projects a joint position into pixel space for a
// screen of the given size.
func ScreenSpacePosition(proj Projector, p r3.Vec, screen image.Point) (x, y float64) {
	if proj == nil {
		proj = DefaultProjector
	}
	u, v := proj.Project(p)
	return u * float64(screen.X), v * float64(screen.Y)
}

func (f *DepthFrame) index(x, y int, screen image.Point) int {
	if f == nil || len(f.Data) == 0 || screen.X <= 0 || screen.Y <= 0 {
		return -1
	}
	dx := x * f.Width / screen.X
	dy := y * f.Height / screen.Y
	if dx < 0 || dy < 0 || dx >= f.Width || dy >= f.Height {
		return -1
	}
	i := dy*f.Width + dx
	if i >= len(f.Data) {
		return -1
	}
	return i
}

// DepthAt returns the depth in millimetres under screen pixel (x, y), or -1.
func (f *DepthFrame) DepthAt(x, y int, screen image.Point) int {
	i := f.index(x, y, screen)
	if i < 0 {
		return -1
	}
	return int(uint16(f.Data[i]) >> PlayerIndexBits)
}

// PlayerIndexAt returns the player index under screen pixel (x, y), or -1.
// Zero means no player.
func (f *DepthFrame) PlayerIndexAt(x, y int, screen image.Point) int {
	i := f.index(x, y, screen)
	if i < 0 {
		return -1
	}
	return int(f.Data[i]) & PlayerIndexMask
}

// DepthAtPoint returns the depth in millimetres at a sensor-space point.
func (f *DepthFrame) DepthAtPoint(p r3.Vec, proj Projector) int {
	if f == nil {
		return -1
	}
	size := image.Pt(f.Width, f.Height)
	x, y := ScreenSpacePosition(proj, p, size)
	return f.DepthAt(int(x), int(y), size)
}
