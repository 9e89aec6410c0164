// Package slideshow cycles through the images in its content directory,
// cross-fading between them.
package slideshow

import (
	"image"
	"time"

	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/render"
)

// Timing defaults.
const (
	DefaultSlideLength = 30 * time.Second
	DefaultTransition  = 3 * time.Second
)

// Extensions lists the file types picked up from the content directory.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// Loader decodes an image file.
type Loader func(path string) (image.Image, error)

// Options configure the slideshow.
type Options struct {
	Load        Loader
	SlideLength time.Duration
	Transition  time.Duration
}

// App is the slideshow.
type App struct {
	app.Base
	opts Options

	slides []image.Image
	index  int
	shown  time.Duration // time on the current slide
	fading time.Duration // time since the transition began
}

// NewFactory returns a factory for slideshows built with opts.
func NewFactory(opts Options) app.Factory {
	if opts.SlideLength <= 0 {
		opts.SlideLength = DefaultSlideLength
	}
	if opts.Transition <= 0 {
		opts.Transition = DefaultTransition
	}
	return func(p app.Params) app.App {
		return &App{Base: app.NewBase(p), opts: opts, index: -1}
	}
}

func (a *App) Descriptor() app.Descriptor {
	return app.Descriptor{
		Name:             "Announcements",
		Author:           "Thomas",
		Description:      "The latest announcements.",
		Passive:          true,
		SuggestedSeconds: 30,
	}
}

// LoadContent decodes every image in the content directory. Files that fail
// to decode are skipped. With nothing usable a single black slide is shown.
func (a *App) LoadContent(c *app.ContentLoader) error {
	a.slides = a.slides[:0]

	var files []string
	if a.opts.Load != nil {
		var err error
		files, err = c.List(".", Extensions...)
		if err != nil {
			a.Logger.Warn("slideshow: no slides", "dir", c.Root(), "error", err)
		}
	}
	for _, f := range files {
		img, err := a.opts.Load(f)
		if err != nil {
			a.Logger.Warn("slideshow: skipping slide", "file", f, "error", err)
			continue
		}
		a.slides = append(a.slides, img)
	}

	if len(a.slides) == 0 {
		blank := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		blank.Pix[3] = 255
		a.slides = append(a.slides, blank)
	}
	a.Logger.Info("slideshow loaded", "slides", len(a.slides))
	return nil
}

// Initialize shows the first slide without a transition.
func (a *App) Initialize() error {
	a.next(false)
	return nil
}

func (a *App) Update(dt time.Duration) {
	a.shown += dt
	if a.shown > a.opts.SlideLength {
		a.next(true)
	}
	a.fading += dt
}

func (a *App) Render(s render.Surface) {
	s.Clear(render.Black)
	if len(a.slides) == 0 || a.index < 0 {
		return
	}
	full := image.Rectangle{Max: s.Size()}
	if a.Fading() {
		s.DrawImage(a.slides[a.previous()], full, 1)
	}
	s.DrawImage(a.slides[a.index], full, a.Alpha())
}

func (a *App) UnloadContent() { a.slides = nil }

// Index returns the current slide.
func (a *App) Index() int { return a.index }

// Len returns the number of slides.
func (a *App) Len() int { return len(a.slides) }

// Alpha returns the current slide's opacity.
func (a *App) Alpha() float64 {
	if !a.Fading() {
		return 1
	}
	return float64(a.fading) / float64(a.opts.Transition)
}

// Fading reports whether a transition is in progress.
func (a *App) Fading() bool { return a.fading < a.opts.Transition }

func (a *App) previous() int {
	return (a.index + len(a.slides) - 1) % len(a.slides)
}

func (a *App) next(transition bool) {
	a.index = (a.index + 1) % len(a.slides)
	a.shown = 0
	if transition {
		a.fading = 0
	} else {
		a.fading = a.opts.Transition
	}
}
