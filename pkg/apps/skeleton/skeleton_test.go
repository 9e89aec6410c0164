package skeleton

import (
	"image"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

type subjects struct{ a, b *sensor.Candidate }

func (s subjects) Primary() *sensor.Candidate   { return s.a }
func (s subjects) Secondary() *sensor.Candidate { return s.b }

func body(id int, states ...sensor.JointState) *sensor.Candidate {
	c := &sensor.Candidate{TrackingID: id, Tracked: true, Joints: map[sensor.JointType]sensor.Joint{}}
	for i, st := range states {
		c.Joints[sensor.AllJoints[i]] = sensor.Joint{Position: r3.Vec{X: 0.1 * float64(i), Y: 0, Z: 2}, State: st}
	}
	return c
}

func TestRender_DrawsKnownJoints(t *testing.T) {
	a := body(1, sensor.Tracked, sensor.Tracked, sensor.Inferred, sensor.NotTracked)
	b := body(2, sensor.Tracked)

	game := New(app.Params{Resolution: image.Pt(640, 480), Subjects: subjects{a, b}})
	rec := render.NewRecorder(image.Pt(640, 480))
	game.Render(rec)

	// Three estimated joints for A, one for B.
	if got := rec.Count(render.OpRect); got != 4 {
		t.Errorf("rects = %d, want 4", got)
	}

	var colors []uint8
	for _, op := range rec.Ops {
		if op.Kind == render.OpRect {
			colors = append(colors, op.Color.A)
		}
	}
	// The inferred joint is drawn at half opacity.
	if colors[2] >= colors[0] {
		t.Errorf("inferred alpha %d should be below tracked alpha %d", colors[2], colors[0])
	}
}

func TestRender_NoSubjects(t *testing.T) {
	game := New(app.Params{Resolution: image.Pt(640, 480)})
	rec := render.NewRecorder(image.Pt(640, 480))
	game.Render(rec)
	if got := rec.Count(render.OpRect); got != 0 {
		t.Errorf("rects = %d, want 0", got)
	}
}

func TestDescriptor(t *testing.T) {
	d := New(app.Params{}).Descriptor()
	if d.Passive {
		t.Error("debug view should not run unattended")
	}
	if d.Name == "" {
		t.Error("empty name")
	}
}

func TestOnSkeleton_Counts(t *testing.T) {
	game := New(app.Params{}).(*App)
	game.OnSkeleton(&sensor.SkeletonFrame{Seq: 1})
	game.OnSkeleton(&sensor.SkeletonFrame{Seq: 2})
	if game.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", game.Frames())
	}
}
