package kiosk

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/host"
	"github.com/teslashibe/go-kiosk/pkg/identity"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

var screen = image.Pt(1920, 1080)

type idleApp struct {
	app.Base
	updates int
}

func (a *idleApp) Descriptor() app.Descriptor {
	return app.Descriptor{Name: "Idle", Passive: true, SuggestedSeconds: 30}
}
func (a *idleApp) Update(time.Duration)   { a.updates++ }
func (a *idleApp) Render(s render.Surface) { s.Clear(render.Black) }

type encodingSurface struct {
	*render.Recorder
	err error
}

func (e encodingSurface) Encode() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte{0xff, 0xd8, 0xff}, nil
}

type fakeDashboard struct {
	mu       sync.Mutex
	due      bool
	statuses []host.Status
	frames   int
}

func (f *fakeDashboard) PublishStatus(s host.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, s)
}

func (f *fakeDashboard) CameraDue() bool { return f.due }

func (f *fakeDashboard) SendCameraFrame([]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
}

func (f *fakeDashboard) lastStatus() host.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[len(f.statuses)-1]
}

func newHost(t *testing.T) (*sensor.Hub, *host.Host) {
	t.Helper()
	hub := sensor.NewHub(sensor.Inbound{}, log.Discard())
	resolver := identity.New()
	reg := app.NewRegistry(app.Params{Resolution: screen, Frames: hub, Subjects: resolver}, hub, log.Discard())
	require.NoError(t, reg.Register("idle", "idle", func(p app.Params) app.App {
		return &idleApp{Base: app.NewBase(p)}
	}))
	h := host.New(reg, host.Options{
		Screen:   screen,
		Resolver: resolver,
		Frames:   hub,
		IntN:     func(int) int { return 0 },
		Logger:   log.Discard(),
	})
	return hub, h
}

func TestStep_PublishesAndDraws(t *testing.T) {
	hub, h := newHost(t)
	rec := render.NewRecorder(screen)
	dash := &fakeDashboard{}

	r := NewRunner(RunnerOptions{
		Sensor:         hub,
		Host:           h,
		Surface:        encodingSurface{Recorder: rec},
		Dashboard:      dash,
		StatusInterval: time.Hour,
		Logger:         log.Discard(),
	})

	r.Step(time.Second / 30)
	assert.Equal(t, uint64(1), r.Frames())
	assert.Greater(t, rec.Count(render.OpClear), 0)
	assert.Len(t, dash.statuses, 1)
	assert.Equal(t, 0, dash.frames, "no camera frame unless due")

	dash.due = true
	r.Step(time.Second / 30)
	assert.Len(t, dash.statuses, 1, "status throttled")
	assert.Equal(t, 1, dash.frames)
}

func TestStep_EncodeFailureSkipsFrame(t *testing.T) {
	hub, h := newHost(t)
	dash := &fakeDashboard{due: true}
	r := NewRunner(RunnerOptions{
		Sensor:    hub,
		Host:      h,
		Surface:   encodingSurface{Recorder: render.NewRecorder(screen), err: errors.New("no encoder")},
		Dashboard: dash,
		Logger:    log.Discard(),
	})

	r.Step(time.Second / 30)
	r.Step(time.Second / 30)
	assert.Equal(t, 0, dash.frames)
}

func TestStep_ScreensaverAfterIdle(t *testing.T) {
	hub, h := newHost(t)
	r := NewRunner(RunnerOptions{Sensor: hub, Host: h, Logger: log.Discard()})

	for i := 0; i < 21; i++ {
		r.Step(time.Second)
	}
	assert.Equal(t, host.PassiveAutoSelected, h.Mode())
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	hub, h := newHost(t)
	dash := &fakeDashboard{}
	r := NewRunner(RunnerOptions{
		Interval:  5 * time.Millisecond,
		Sensor:    hub,
		Host:      h,
		Surface:   render.NewRecorder(screen),
		Dashboard: dash,
		Logger:    log.Discard(),
	})

	require.NoError(t, h.Start("idle"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	assert.Greater(t, r.Frames(), uint64(0))
	assert.Equal(t, host.Browsing, h.Mode())
	assert.Equal(t, host.Browsing, dash.lastStatus().Mode)

	var stopped bool
	for _, e := range h.Events(0) {
		if e.Kind == host.EventStopped && e.Message == host.ReasonShutdown {
			stopped = true
		}
	}
	assert.True(t, stopped, "running app should be stopped with reason shutdown")
}
