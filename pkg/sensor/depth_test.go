package sensor

import (
	"image"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestKinectProjector(t *testing.T) {
	p := KinectProjector{FocalLength: 500, Width: 1000, Height: 500}

	tests := []struct {
		name  string
		point r3.Vec
		u, v  float64
	}{
		{"on axis", r3.Vec{Z: 2}, 0.5, 0.5},
		{"right and up", r3.Vec{X: 1, Y: 1, Z: 1}, 1.0, -0.5},
		{"behind sensor", r3.Vec{X: 1, Y: 1, Z: -1}, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := p.Project(tt.point)
			if math.Abs(u-tt.u) > 1e-9 || math.Abs(v-tt.v) > 1e-9 {
				t.Errorf("Project(%v) = (%v, %v), want (%v, %v)", tt.point, u, v, tt.u, tt.v)
			}
		})
	}
}

func TestScreenSpacePosition(t *testing.T) {
	x, y := ScreenSpacePosition(nil, r3.Vec{Z: 2}, image.Pt(1920, 1080))
	if x != 960 || y != 540 {
		t.Errorf("ScreenSpacePosition() = (%v, %v), want centre", x, y)
	}
}

func TestDepthFrame_Lookup(t *testing.T) {
	f := &DepthFrame{
		Width:  2,
		Height: 2,
		Data: []int16{
			1000<<PlayerIndexBits | 1, 2000 << PlayerIndexBits,
			0, 4000<<PlayerIndexBits | 6,
		},
	}
	screen := image.Pt(20, 20)

	if got := f.DepthAt(0, 0, screen); got != 1000 {
		t.Errorf("DepthAt(0,0) = %d, want 1000", got)
	}
	if got := f.PlayerIndexAt(0, 0, screen); got != 1 {
		t.Errorf("PlayerIndexAt(0,0) = %d, want 1", got)
	}
	if got := f.DepthAt(15, 15, screen); got != 4000 {
		t.Errorf("DepthAt(15,15) = %d, want 4000", got)
	}
	if got := f.PlayerIndexAt(15, 15, screen); got != 6 {
		t.Errorf("PlayerIndexAt(15,15) = %d, want 6", got)
	}
	if got := f.DepthAt(15, 0, screen); got != 2000 {
		t.Errorf("DepthAt(15,0) = %d, want 2000", got)
	}
	if got := f.DepthAt(-1, 0, screen); got != -1 {
		t.Errorf("DepthAt out of range = %d, want -1", got)
	}
	if got := f.DepthAt(20, 0, screen); got != -1 {
		t.Errorf("DepthAt past edge = %d, want -1", got)
	}

	var empty *DepthFrame
	if got := empty.DepthAt(0, 0, screen); got != -1 {
		t.Errorf("nil frame DepthAt = %d, want -1", got)
	}
}

func TestDepthAtPoint(t *testing.T) {
	f := &DepthFrame{Width: 640, Height: 480, Data: make([]int16, 640*480)}
	f.Data[240*640+320] = 1500 << PlayerIndexBits

	if got := f.DepthAtPoint(r3.Vec{Z: 1.5}, DefaultProjector); got != 1500 {
		t.Errorf("DepthAtPoint(centre) = %d, want 1500", got)
	}
}

func TestCandidatesFromWire(t *testing.T) {
	bodies := WireFromCandidates([]Candidate{{
		FrameIndex: 2,
		TrackingID: 7,
		Tracked:    true,
		Joints: map[JointType]Joint{
			Head: {Position: r3.Vec{Y: 1, Z: 2}, State: Inferred},
		},
	}})
	bodies[0].Joints["tail"] = bodies[0].Joints["head"]

	got := CandidatesFromWire(bodies)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	c := got[0]
	if c.FrameIndex != 2 || c.TrackingID != 7 || !c.Tracked {
		t.Errorf("candidate = %+v", c)
	}
	if j := c.Joint(Head); j.State != Inferred || j.Position.Y != 1 {
		t.Errorf("head = %+v", j)
	}
	if len(c.Joints) != 1 {
		t.Errorf("unknown joint kept: %v", c.Joints)
	}
}
