// Package depth shows the colorized depth map over the camera image.
package depth

import (
	"image"

	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// overlayAlpha matches the map's per-pixel alpha for surfaces that drop it.
const overlayAlpha = 125.0 / 255

// App renders depth frames as they arrive.
type App struct {
	app.Base
	seq uint64
	img *image.NRGBA
}

// New is the app's factory.
func New(p app.Params) app.App {
	return &App{Base: app.NewBase(p)}
}

func (a *App) Descriptor() app.Descriptor {
	return app.Descriptor{
		Name:             "Depth Test",
		Author:           "Thomas",
		Description:      "This shows you how the Kinect tracks depth.",
		Passive:          true,
		SuggestedSeconds: 30,
	}
}

// OnDepth implements app.DepthHook. Colorizing happens once per frame
// rather than once per render.
func (a *App) OnDepth(f *sensor.DepthFrame) {
	if f == nil || f.Seq == a.seq {
		return
	}
	a.seq = f.Seq
	a.img = render.ColorizeDepth(f)
}

func (a *App) Render(s render.Surface) {
	s.Clear(render.Black)
	a.DrawCamera(s)
	if a.img != nil {
		s.DrawImage(a.img, image.Rectangle{Max: s.Size()}, overlayAlpha)
	}
}

func (a *App) UnloadContent() { a.img = nil }
