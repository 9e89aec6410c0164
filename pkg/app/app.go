// Package app defines the contract between the kiosk host and the apps it
// runs, and the registry that builds and starts them.
//
// An app goes through a fixed lifecycle:
//
//	construct → LoadContent → Initialize → (Update, Render)* → UnloadContent
//
// Apps that want raw sensor frames implement SkeletonHook, ColorHook or
// DepthHook. The registry subscribes those hooks when the app starts and
// cancels the subscription before UnloadContent runs.
package app

import (
	"image"
	"log/slog"
	"time"

	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Descriptor is an app's immutable metadata.
type Descriptor struct {
	Name             string `json:"name"`
	Author           string `json:"author"`
	Description      string `json:"description"`
	Passive          bool   `json:"passive"` // safe to run unattended
	SuggestedSeconds int    `json:"suggested_seconds"`
}

// App is a hosted app.
type App interface {
	Descriptor() Descriptor
	LoadContent(content *ContentLoader) error
	Initialize() error
	Update(dt time.Duration)
	Render(s render.Surface)
	UnloadContent()
	// Finished reports that the app asked to exit.
	Finished() bool
}

// SkeletonHook receives every new skeleton frame while the app runs.
type SkeletonHook interface {
	OnSkeleton(f *sensor.SkeletonFrame)
}

// ColorHook receives every new color frame while the app runs.
type ColorHook interface {
	OnColor(f *sensor.ColorFrame)
}

// DepthHook receives every new depth frame while the app runs.
type DepthHook interface {
	OnDepth(f *sensor.DepthFrame)
}

// Frames gives read access to the latest sensor frames.
type Frames interface {
	Snapshot() sensor.Snapshot
}

// Subjects gives read access to the two tracked subjects.
type Subjects interface {
	Primary() *sensor.Candidate
	Secondary() *sensor.Candidate
}

// Params is what an app is constructed with.
type Params struct {
	Resolution  image.Point
	Surface     render.Surface
	ContentRoot string

	Frames    Frames
	Subjects  Subjects
	Projector sensor.Projector
	Logger    *slog.Logger
}

// Factory constructs an app. It must not do I/O; that belongs in
// LoadContent.
type Factory func(Params) App

func hooksFor(a App) sensor.Hooks {
	var hooks sensor.Hooks
	if h, ok := a.(SkeletonHook); ok {
		hooks.Skeleton = h.OnSkeleton
	}
	if h, ok := a.(ColorHook); ok {
		hooks.Color = h.OnColor
	}
	if h, ok := a.(DepthHook); ok {
		hooks.Depth = h.OnDepth
	}
	return hooks
}
