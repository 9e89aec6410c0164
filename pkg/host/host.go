// Package host runs the kiosk's lifecycle: the app menu, launching and
// stopping apps, the hands-on-head pause and quit hold, and the unattended
// screensaver rotation.
package host

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/dwell"
	"github.com/teslashibe/go-kiosk/pkg/gesture"
	"github.com/teslashibe/go-kiosk/pkg/identity"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Metrics receives host counters. *metrics.Metrics implements it.
type Metrics interface {
	AppStarted(name string, auto bool)
	AppStopped(name, reason string, ran time.Duration)
	StartFailed(name string)
	ModeChanged(mode string)
	Frame(dt time.Duration, subjects int)
}

// Options configure a Host. Zero fields get defaults.
type Options struct {
	Config  Config
	Gesture gesture.Config
	Dwell   dwell.Config

	Screen    image.Point
	Projector sensor.Projector

	// Resolver is shared with the registry's app params so apps see the
	// same subjects as the host.
	Resolver *identity.Resolver
	// Frames supplies the camera image behind the menu.
	Frames app.Frames

	Metrics Metrics
	// IntN picks the screensaver app; defaults to math/rand/v2.
	IntN    func(n int) int
	OnEvent func(Event)
	Logger  *slog.Logger
}

// CommandKind is an operator command.
type CommandKind int

const (
	CommandStart CommandKind = iota
	CommandStop
)

// Command is queued by the dashboard and applied on the next frame.
type Command struct {
	Kind  CommandKind
	Index int
}

// Host owns the mode and the running app instance. Update and Render must
// be called from the frame loop; Status, Events, Start and Stop are safe
// from any goroutine.
type Host struct {
	cfg     Config
	gesture gesture.Config
	screen  image.Point
	logger  *slog.Logger
	metrics Metrics
	intn    func(int) int
	onEvent func(Event)

	registry *app.Registry
	frames   app.Frames
	resolver *identity.Resolver
	smoother *gesture.Smoother
	engine   *dwell.Engine
	commands chan Command

	// Frame loop state
	mode          Mode
	resume        Mode // mode to return to when a pause ends
	running       *app.Instance
	auto          bool
	noSubject     time.Duration
	retry         time.Duration
	hold          time.Duration
	raised        time.Duration
	total         time.Duration
	startFailures int
	emptyReported bool
	lastErr       error

	mu     sync.RWMutex
	status Status
	events eventLog
}

// New creates a host over a built registry. The menu has one region per
// registered app.
func New(registry *app.Registry, opts Options) *Host {
	if opts.Config == (Config{}) {
		opts.Config = DefaultConfig()
	}
	if opts.Gesture == (gesture.Config{}) {
		opts.Gesture = gesture.DefaultConfig()
	}
	if opts.Dwell == (dwell.Config{}) {
		opts.Dwell = dwell.DefaultConfig()
	}
	if opts.Screen == (image.Point{}) {
		opts.Screen = image.Pt(1920, 1080)
	}
	if opts.Resolver == nil {
		opts.Resolver = identity.New()
	}
	if opts.IntN == nil {
		opts.IntN = rand.IntN
	}
	if opts.Config.CommandQueue <= 0 {
		opts.Config.CommandQueue = 1
	}

	h := &Host{
		cfg:      opts.Config,
		gesture:  opts.Gesture,
		screen:   opts.Screen,
		logger:   log.Or(opts.Logger).With("component", "host"),
		metrics:  opts.Metrics,
		intn:     opts.IntN,
		onEvent:  opts.OnEvent,
		registry: registry,
		frames:   opts.Frames,
		resolver: opts.Resolver,
		smoother: gesture.NewSmoother(opts.Gesture, opts.Screen, opts.Projector),
		engine:   dwell.NewEngine(opts.Dwell, opts.Screen, registry.Len()),
		commands: make(chan Command, opts.Config.CommandQueue),
		mode:     Browsing,
		events:   eventLog{size: opts.Config.EventLog},
	}
	h.publish()
	return h
}

// Update advances the host by one frame with this frame's candidates.
func (h *Host) Update(dt time.Duration, candidates []sensor.Candidate) {
	h.total += dt
	h.drain()

	h.resolver.Resolve(candidates)
	driver := h.resolver.Driver()

	if h.mode == Browsing {
		h.browse(driver)
	} else {
		h.runApp(dt, driver)
	}

	if driver == nil {
		h.noSubject += dt
		h.screensaver(dt)
	} else {
		h.noSubject -= dt
		if h.noSubject < 0 {
			h.noSubject = 0
		}
	}

	if h.metrics != nil {
		h.metrics.Frame(dt, h.resolver.Count())
	}
	h.publish()
}

// browse feeds the pointer to the dwell engine.
func (h *Host) browse(driver *sensor.Candidate) {
	swipe := h.smoother.Update(driver)
	if swipe != gesture.None {
		h.logger.Debug("swipe", "event", swipe, "offset", h.engine.Offset())
	}
	idx, ok := h.engine.Update(dwell.Input{
		Present: driver != nil,
		Pointer: h.smoother.Pointer(),
		Swipe:   swipe,
	})
	if ok {
		_ = h.start(idx, false)
	}
}

// runApp checks for exit, updates the app unless paused, then evaluates the
// hands-on-head hold.
func (h *Host) runApp(dt time.Duration, driver *sensor.Candidate) {
	if h.running.Finished() {
		reason := ReasonFinished
		if err := h.running.Err(); err != nil {
			h.lastErr = err
			reason = ReasonFailed
			h.record(EventWarning, h.running.Descriptor().Name, err.Error())
		}
		h.stop(reason)
		return
	}

	if h.mode != Paused {
		h.running.Update(dt)
	}

	if h.gesture.HandsOnHead(driver) {
		h.hold += dt
		if h.hold >= h.cfg.QuitHold {
			h.stop(ReasonQuit)
			return
		}
		if h.hold >= h.cfg.PauseHold && h.mode != Paused {
			h.resume = h.mode
			h.setMode(Paused)
			h.record(EventPaused, h.running.Descriptor().Name, "hands on head")
		}
	} else {
		h.hold = 0
		if h.mode == Paused {
			h.setMode(h.resume)
			h.record(EventResumed, h.running.Descriptor().Name, "hold released")
		}
	}

	if h.cfg.BreakPassiveOnRaise && h.auto && h.gesture.HandRaised(driver) {
		h.raised += dt
		if h.raised >= h.cfg.BreakPassiveHold {
			h.stop(ReasonRaised)
		}
	} else {
		h.raised = 0
	}
}

// screensaver starts a random passive app once no subject has been present
// for the timeout, unless a passive app already runs.
func (h *Host) screensaver(dt time.Duration) {
	if h.retry > 0 {
		h.retry -= dt
		return
	}
	if h.noSubject < h.cfg.ScreensaverTimeout {
		return
	}
	if h.running != nil && h.running.Descriptor().Passive {
		return
	}

	passive := h.registry.Passive()
	if len(passive) == 0 {
		if !h.emptyReported {
			h.emptyReported = true
			h.lastErr = ErrEmptyPassiveSet
			h.logger.Warn("screensaver disabled", "error", ErrEmptyPassiveSet)
			h.record(EventWarning, "", ErrEmptyPassiveSet.Error())
		}
		return
	}

	if h.running != nil {
		h.stop(ReasonRotate)
	}
	idx := passive[h.intn(len(passive))]
	h.record(EventScreensaver, "", fmt.Sprintf("no subject for %s", h.noSubject.Round(time.Second)))
	if err := h.start(idx, true); err != nil {
		h.retry = h.cfg.ScreensaverRetry
	}
}

// start launches app idx. On failure the host stays in Browsing.
func (h *Host) start(idx int, auto bool) error {
	desc, err := h.registry.Descriptor(idx)
	if err != nil {
		return h.startFailed(fmt.Sprintf("#%d", idx), err)
	}
	inst, err := h.registry.Start(idx)
	if err != nil {
		return h.startFailed(desc.Name, err)
	}

	h.running = inst
	h.auto = auto
	h.hold = 0
	h.raised = 0
	h.smoother.Trail().Clear()
	if auto {
		h.setMode(PassiveAutoSelected)
	} else {
		h.setMode(RunningApp)
	}
	h.record(EventStarted, desc.Name, fmt.Sprintf("run %s", inst.ID()))
	if h.metrics != nil {
		h.metrics.AppStarted(desc.Name, auto)
	}
	return nil
}

func (h *Host) startFailed(name string, err error) error {
	h.startFailures++
	h.lastErr = err
	h.logger.Error("app start failed", "name", name, "error", err)
	h.record(EventStartFailed, name, err.Error())
	if h.metrics != nil {
		h.metrics.StartFailed(name)
	}
	h.engine.Reset()
	return err
}

// stop shuts the running app down and returns to the menu.
func (h *Host) stop(reason string) {
	if h.running == nil {
		return
	}
	inst := h.running
	inst.Shutdown()

	h.running = nil
	h.auto = false
	h.hold = 0
	h.raised = 0
	h.engine.Reset()
	h.smoother.Trail().Clear()
	h.setMode(Browsing)

	name := inst.Descriptor().Name
	h.record(EventStopped, name, reason)
	if h.metrics != nil {
		h.metrics.AppStopped(name, reason, time.Since(inst.Started()))
	}
}

func (h *Host) setMode(m Mode) {
	if h.mode == m {
		return
	}
	h.logger.Info("mode", "from", h.mode, "to", m)
	h.mode = m
	if h.metrics != nil {
		h.metrics.ModeChanged(m.String())
	}
}

// Shutdown stops the running app. Call it once the frame loop has exited.
func (h *Host) Shutdown() {
	h.stop(ReasonShutdown)
	h.publish()
}

// Start queues an operator request to run the named app.
func (h *Host) Start(name string) error {
	idx, err := h.registry.Index(name)
	if err != nil {
		return err
	}
	return h.enqueue(Command{Kind: CommandStart, Index: idx})
}

// Stop queues an operator request to stop the running app.
func (h *Host) Stop() error {
	if !h.Status().Mode.Running() {
		return ErrNotRunning
	}
	return h.enqueue(Command{Kind: CommandStop})
}

func (h *Host) enqueue(c Command) error {
	select {
	case h.commands <- c:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// drain applies queued operator commands.
func (h *Host) drain() {
	for {
		select {
		case c := <-h.commands:
			switch c.Kind {
			case CommandStart:
				h.stop(ReasonOperator)
				_ = h.start(c.Index, false)
			case CommandStop:
				h.stop(ReasonOperator)
			}
		default:
			return
		}
	}
}

// Mode returns the current mode. Frame loop only.
func (h *Host) Mode() Mode { return h.mode }

// Running returns the running instance, or nil. Frame loop only.
func (h *Host) Running() *app.Instance { return h.running }

// Engine returns the dwell engine. Frame loop only.
func (h *Host) Engine() *dwell.Engine { return h.engine }

// NoSubject returns the no-subject counter.
func (h *Host) NoSubject() time.Duration { return h.noSubject }

// Elapsed returns the total time the host has been updated for.
func (h *Host) Elapsed() time.Duration { return h.total }

func (h *Host) record(kind EventKind, name, msg string) {
	e := Event{Time: time.Now(), Kind: kind, App: name, Message: msg}
	h.mu.Lock()
	h.events.add(e)
	h.mu.Unlock()
	if h.onEvent != nil {
		h.onEvent(e)
	}
}

// Events returns up to n recent events, oldest first. n <= 0 returns all.
func (h *Host) Events(n int) []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.events.last(n)
}
