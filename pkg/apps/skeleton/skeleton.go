// Package skeleton is a debug app that draws the tracked joints of both
// subjects over the camera image.
package skeleton

import (
	"image/color"
	"time"

	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Subject colors.
var (
	ColorA = color.NRGBA{R: 255, A: 100}
	ColorB = color.NRGBA{B: 255, A: 100}
)

// App draws joints. It counts skeleton frames it receives through its hook.
type App struct {
	app.Base
	frames  uint64
	elapsed time.Duration
}

// New is the app's factory.
func New(p app.Params) app.App {
	return &App{Base: app.NewBase(p)}
}

func (a *App) Descriptor() app.Descriptor {
	return app.Descriptor{
		Name:        "Kinect Test",
		Author:      "Thomas",
		Description: "This shows you how the Kinect tracks your body.",
	}
}

func (a *App) Update(dt time.Duration) { a.elapsed += dt }

// OnSkeleton implements app.SkeletonHook.
func (a *App) OnSkeleton(*sensor.SkeletonFrame) { a.frames++ }

// Frames returns how many skeleton frames were delivered.
func (a *App) Frames() uint64 { return a.frames }

func (a *App) Render(s render.Surface) {
	s.Clear(render.Black)
	a.DrawCamera(s)
	a.DrawSkeleton(s, a.SubjectA(), ColorA)
	a.DrawSkeleton(s, a.SubjectB(), ColorB)
}
