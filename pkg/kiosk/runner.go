// Package kiosk drives the frame loop: poll the sensor, advance the host,
// draw the frame and feed the dashboard.
package kiosk

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/host"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Poller returns the latest sensor frames and delivers them to the live
// subscription. *sensor.Hub implements it.
type Poller interface {
	Poll() sensor.Snapshot
}

// Encoder turns the drawn surface into a JPEG.
type Encoder interface {
	Encode() ([]byte, error)
}

// Dashboard receives per-frame output. *web.Server implements it.
type Dashboard interface {
	PublishStatus(host.Status)
	CameraDue() bool
	SendCameraFrame(jpeg []byte)
}

// RunnerOptions configure a Runner.
type RunnerOptions struct {
	Interval time.Duration // target frame period
	// StatusInterval throttles status pushes to the dashboard.
	StatusInterval time.Duration

	Sensor    Poller
	Host      *host.Host
	Surface   render.Surface
	Dashboard Dashboard // optional
	Logger    *slog.Logger
}

// Runner owns the frame loop. Everything it touches runs on the goroutine
// that calls Run or Step.
type Runner struct {
	interval  time.Duration
	sensor    Poller
	host      *host.Host
	surface   render.Surface
	dashboard Dashboard
	status    *rate.Sometimes
	logger    *slog.Logger

	frames      uint64
	encodeFails uint64
}

// NewRunner creates a frame loop runner.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 30
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = 200 * time.Millisecond
	}
	return &Runner{
		interval:  opts.Interval,
		sensor:    opts.Sensor,
		host:      opts.Host,
		surface:   opts.Surface,
		dashboard: opts.Dashboard,
		status:    &rate.Sometimes{Interval: opts.StatusInterval},
		logger:    log.Or(opts.Logger).With("component", "kiosk"),
	}
}

// Run steps the loop on a ticker until ctx is done, then stops the running
// app.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("frame loop started", "interval", r.interval)
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			r.host.Shutdown()
			if r.dashboard != nil {
				r.dashboard.PublishStatus(r.host.Status())
			}
			r.logger.Info("frame loop stopped", "frames", r.frames)
			return nil

		case now := <-ticker.C:
			r.Step(now.Sub(last))
			last = now
		}
	}
}

// Step runs one frame of dt.
func (r *Runner) Step(dt time.Duration) {
	snap := r.sensor.Poll()
	r.host.Update(dt, snap.Candidates())
	if r.surface != nil {
		r.host.Render(r.surface)
	}
	r.frames++

	if r.dashboard == nil {
		return
	}
	r.status.Do(func() {
		r.dashboard.PublishStatus(r.host.Status())
	})
	if enc, ok := r.surface.(Encoder); ok && r.dashboard.CameraDue() {
		jpeg, err := enc.Encode()
		if err != nil {
			r.encodeFails++
			if r.encodeFails == 1 {
				r.logger.Warn("camera frame encode failed", "error", err)
			}
			return
		}
		r.dashboard.SendCameraFrame(jpeg)
	}
}

// Frames returns the number of frames stepped.
func (r *Runner) Frames() uint64 { return r.frames }
