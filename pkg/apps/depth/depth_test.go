package depth

import (
	"image"
	"testing"

	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

func TestDescriptor_Passive(t *testing.T) {
	d := New(app.Params{}).Descriptor()
	if !d.Passive || d.SuggestedSeconds != 30 {
		t.Errorf("descriptor = %+v", d)
	}
}

func TestRender_OverlaysDepthAfterFrame(t *testing.T) {
	game := New(app.Params{Resolution: image.Pt(320, 240)}).(*App)
	rec := render.NewRecorder(image.Pt(320, 240))

	game.Render(rec)
	if rec.Count(render.OpImage) != 0 {
		t.Fatal("nothing to draw before the first depth frame")
	}

	game.OnDepth(&sensor.DepthFrame{Seq: 7, Width: 2, Height: 1, Data: []int16{0, 1000 << sensor.PlayerIndexBits}})
	game.Render(rec)
	if rec.Count(render.OpImage) != 1 {
		t.Fatalf("images = %d, want 1", rec.Count(render.OpImage))
	}
	for _, op := range rec.Ops {
		if op.Kind == render.OpImage && op.Rect != image.Rect(0, 0, 320, 240) {
			t.Errorf("depth drawn to %v, want full screen", op.Rect)
		}
	}

	game.UnloadContent()
	game.Render(rec)
	if rec.Count(render.OpImage) != 0 {
		t.Error("depth map kept after unload")
	}
}
