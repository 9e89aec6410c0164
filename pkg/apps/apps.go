// Package apps lists the apps bundled with the kiosk.
package apps

import (
	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/apps/depth"
	"github.com/teslashibe/go-kiosk/pkg/apps/skeleton"
	"github.com/teslashibe/go-kiosk/pkg/apps/slideshow"
	"github.com/teslashibe/go-kiosk/pkg/render/cvsurface"
)

// Names of the bundled apps, in menu order.
var Names = []string{"skeleton", "depth", "slideshow"}

// Builtin returns the factories for the bundled apps keyed by catalog name.
func Builtin() map[string]app.Factory {
	return map[string]app.Factory{
		"skeleton":  skeleton.New,
		"depth":     depth.New,
		"slideshow": slideshow.NewFactory(slideshow.Options{Load: cvsurface.LoadImage}),
	}
}
