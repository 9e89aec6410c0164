package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Instance is one run of an app. It owns the app's sensor subscription.
type Instance struct {
	id      uuid.UUID
	index   int
	desc    Descriptor
	app     App
	sub     *sensor.Subscription
	started time.Time
	logger  *slog.Logger

	err     error
	stopped bool
}

func newInstance(index int, desc Descriptor, a App, sub *sensor.Subscription, logger *slog.Logger) *Instance {
	return &Instance{
		id:      uuid.New(),
		index:   index,
		desc:    desc,
		app:     a,
		sub:     sub,
		started: time.Now(),
		logger:  logger,
	}
}

// ID returns the run id.
func (i *Instance) ID() uuid.UUID { return i.id }

// Index returns the registry index.
func (i *Instance) Index() int { return i.index }

// Descriptor returns the app's descriptor.
func (i *Instance) Descriptor() Descriptor { return i.desc }

// App returns the running app.
func (i *Instance) App() App { return i.app }

// Subscription returns the sensor subscription, or nil.
func (i *Instance) Subscription() *sensor.Subscription { return i.sub }

// Started returns when the run began.
func (i *Instance) Started() time.Time { return i.started }

// Err returns the panic that ended the run, if any.
func (i *Instance) Err() error { return i.err }

// Update advances the app. A panic marks the run finished.
func (i *Instance) Update(dt time.Duration) {
	if i.stopped || i.err != nil {
		return
	}
	defer i.catch("update")
	i.app.Update(dt)
}

// Render draws the app. A panic marks the run finished.
func (i *Instance) Render(s render.Surface) {
	if i.stopped || i.err != nil {
		return
	}
	defer i.catch("render")
	i.app.Render(s)
}

// Finished reports whether the app exited or failed.
func (i *Instance) Finished() bool {
	return i.err != nil || i.app.Finished()
}

// Shutdown cancels the sensor subscription and then unloads the app. Once it
// returns no hook of this instance runs again. Safe to call more than once.
func (i *Instance) Shutdown() {
	if i.stopped {
		return
	}
	i.stopped = true
	i.sub.Cancel()

	func() {
		defer i.catch("unload")
		i.app.UnloadContent()
	}()
	i.logger.Info("app stopped", "name", i.desc.Name, "run", i.id, "ran", time.Since(i.started).Round(time.Millisecond))
}

func (i *Instance) catch(stage string) {
	if p := recover(); p != nil {
		i.err = fmt.Errorf("%s %s: panic: %v", i.desc.Name, stage, p)
		i.logger.Error("app panicked", "name", i.desc.Name, "stage", stage, "panic", p)
	}
}
