package sensor

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-kiosk/internal/log"
)

// PixelFormat is the byte order of raw color frames.
type PixelFormat string

const (
	FormatRGBA PixelFormat = "rgba"
	FormatBGRA PixelFormat = "bgra"
)

// Sink receives frames from a transport. Every call is a full replacement of
// the previous frame of that kind; implementations copy the data.
type Sink interface {
	PushSkeleton(candidates []Candidate)
	PushColor(width, height int, format PixelFormat, pix []byte) error
	PushDepth(width, height int, data []int16) error
	SetStatus(status Status)
}

// Source is a sensor transport.
type Source interface {
	// Connect establishes the transport. An error here means no sensor.
	Connect(ctx context.Context) error
	// Run pumps frames into sink until ctx is done or the transport fails.
	Run(ctx context.Context, sink Sink) error
	Close() error
}

// Hooks are the per-frame callbacks an app may subscribe with.
// Nil hooks are skipped.
type Hooks struct {
	Skeleton func(*SkeletonFrame)
	Color    func(*ColorFrame)
	Depth    func(*DepthFrame)
}

// Snapshot is the current frame set. Frames are immutable once published.
type Snapshot struct {
	Skeleton *SkeletonFrame
	Color    *ColorFrame
	Depth    *DepthFrame
	Status   Status
}

// Candidates returns the skeleton candidates, or nil when no frame arrived yet.
func (s Snapshot) Candidates() []Candidate {
	if s.Skeleton == nil {
		return nil
	}
	return s.Skeleton.Candidates
}

// Stats counts received frames.
type Stats struct {
	SkeletonFrames uint64
	ColorFrames    uint64
	DepthFrames    uint64
}

// Hub owns the latest sensor frames and the live subscription.
type Hub struct {
	logger *slog.Logger
	source Source

	mu       sync.RWMutex
	skeleton *SkeletonFrame
	color    *ColorFrame
	depth    *DepthFrame
	status   Status
	sub      *Subscription

	seq            atomic.Uint64
	skeletonFrames atomic.Uint64
	colorFrames    atomic.Uint64
	depthFrames    atomic.Uint64

	runMu   sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewHub creates a hub fed by source. A nil logger uses the global logger.
func NewHub(source Source, logger *slog.Logger) *Hub {
	return &Hub{
		source: source,
		logger: log.Or(logger).With("component", "sensor"),
	}
}

// Start connects the source and begins pumping frames in the background.
func (h *Hub) Start(ctx context.Context) error {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if h.started {
		return ErrAlreadyStarted
	}
	if h.source == nil {
		return fmt.Errorf("%w: no source configured", ErrSensorUnavailable)
	}
	if err := h.source.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})
	h.started = true

	go func() {
		defer close(h.done)
		if err := h.source.Run(runCtx, h); err != nil && runCtx.Err() == nil {
			h.logger.Error("sensor source stopped", "error", err)
		}
		h.SetStatus(Status{Connected: false})
	}()

	h.logger.Info("sensor hub started")
	return nil
}

// Stop closes the source and waits for the pump to exit.
func (h *Hub) Stop() error {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if !h.started {
		return ErrNotStarted
	}
	h.cancel()
	err := h.source.Close()
	<-h.done
	h.started = false
	h.logger.Info("sensor hub stopped")
	return err
}

// PushSkeleton implements Sink.
func (h *Hub) PushSkeleton(candidates []Candidate) {
	frame := &SkeletonFrame{
		Seq:        h.seq.Add(1),
		Received:   time.Now(),
		Candidates: make([]Candidate, len(candidates)),
	}
	for i, c := range candidates {
		frame.Candidates[i] = c.Clone()
	}

	h.mu.Lock()
	h.skeleton = frame
	h.mu.Unlock()
	h.skeletonFrames.Add(1)
}

// PushColor implements Sink. The alpha channel is forced opaque.
func (h *Hub) PushColor(width, height int, format PixelFormat, pix []byte) error {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return fmt.Errorf("%w: color %dx%d with %d bytes", ErrBadFrame, width, height, len(pix))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(pix); i += 4 {
		switch format {
		case FormatBGRA:
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = pix[i+2], pix[i+1], pix[i]
		case FormatRGBA:
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = pix[i], pix[i+1], pix[i+2]
		default:
			return fmt.Errorf("%w: unknown pixel format %q", ErrBadFrame, format)
		}
		img.Pix[i+3] = 255
	}

	frame := &ColorFrame{Seq: h.seq.Add(1), Received: time.Now(), Image: img}
	h.mu.Lock()
	h.color = frame
	h.mu.Unlock()
	h.colorFrames.Add(1)
	return nil
}

// PushDepth implements Sink.
func (h *Hub) PushDepth(width, height int, data []int16) error {
	if width <= 0 || height <= 0 || len(data) != width*height {
		return fmt.Errorf("%w: depth %dx%d with %d samples", ErrBadFrame, width, height, len(data))
	}
	frame := &DepthFrame{
		Seq:      h.seq.Add(1),
		Received: time.Now(),
		Width:    width,
		Height:   height,
		Data:     append([]int16(nil), data...),
	}
	h.mu.Lock()
	h.depth = frame
	h.mu.Unlock()
	h.depthFrames.Add(1)
	return nil
}

// SetStatus implements Sink.
func (h *Hub) SetStatus(status Status) {
	h.mu.Lock()
	changed := h.status != status
	h.status = status
	h.mu.Unlock()
	if changed {
		h.logger.Info("sensor status", "connected", status.Connected, "device", status.Device)
	}
}

// Poll returns the current snapshot and delivers frames newer than the last
// delivery to the live subscription. It must be called from the frame loop,
// the same goroutine that cancels subscriptions.
func (h *Hub) Poll() Snapshot {
	h.mu.RLock()
	snap := h.snapshotLocked()
	sub := h.sub
	h.mu.RUnlock()

	if sub != nil {
		sub.deliver(snap)
	}
	return snap
}

// Snapshot returns the current frames without delivering anything.
func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshotLocked()
}

func (h *Hub) snapshotLocked() Snapshot {
	return Snapshot{
		Skeleton: h.skeleton,
		Color:    h.color,
		Depth:    h.depth,
		Status:   h.status,
	}
}

// Subscribe registers hooks for the owner. Only one subscription may be live.
func (h *Hub) Subscribe(owner string, hooks Hooks) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sub != nil {
		return nil, fmt.Errorf("%w: held by %s", ErrSubscriptionActive, h.sub.owner)
	}

	sub := &Subscription{
		id:    uuid.New(),
		owner: owner,
		hooks: hooks,
		hub:   h,
	}
	// Frames already present are not replayed.
	if h.skeleton != nil {
		sub.lastSkeleton = h.skeleton.Seq
	}
	if h.color != nil {
		sub.lastColor = h.color.Seq
	}
	if h.depth != nil {
		sub.lastDepth = h.depth.Seq
	}
	h.sub = sub
	h.logger.Debug("subscribed", "owner", owner, "subscription", sub.id)
	return sub, nil
}

// Active reports whether a subscription is live.
func (h *Hub) Active() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sub != nil
}

// Stats returns frame counters.
func (h *Hub) Stats() Stats {
	return Stats{
		SkeletonFrames: h.skeletonFrames.Load(),
		ColorFrames:    h.colorFrames.Load(),
		DepthFrames:    h.depthFrames.Load(),
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub == sub {
		h.sub = nil
		h.logger.Debug("unsubscribed", "owner", sub.owner, "subscription", sub.id)
	}
}

// Subscription is the handle for a live set of hooks. Cancel it before the
// owner releases its resources.
type Subscription struct {
	id    uuid.UUID
	owner string
	hooks Hooks
	hub   *Hub

	cancelled    bool
	lastSkeleton uint64
	lastColor    uint64
	lastDepth    uint64
}

// ID returns the subscription id.
func (s *Subscription) ID() uuid.UUID { return s.id }

// Owner returns the name passed to Subscribe.
func (s *Subscription) Owner() string { return s.owner }

// Cancel detaches the hooks. Once Cancel returns no further frame is
// delivered. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	s.hub.unsubscribe(s)
}

// Cancelled reports whether Cancel was called.
func (s *Subscription) Cancelled() bool { return s != nil && s.cancelled }

func (s *Subscription) deliver(snap Snapshot) {
	if s.cancelled {
		return
	}
	if f := snap.Skeleton; f != nil && f.Seq > s.lastSkeleton {
		s.lastSkeleton = f.Seq
		if s.hooks.Skeleton != nil {
			s.hooks.Skeleton(f)
		}
	}
	if f := snap.Color; f != nil && f.Seq > s.lastColor && !s.cancelled {
		s.lastColor = f.Seq
		if s.hooks.Color != nil {
			s.hooks.Color(f)
		}
	}
	if f := snap.Depth; f != nil && f.Seq > s.lastDepth && !s.cancelled {
		s.lastDepth = f.Seq
		if s.hooks.Depth != nil {
			s.hooks.Depth(f)
		}
	}
}

// Inbound is a Source for transports that push into the hub from elsewhere,
// such as the dashboard's sensor bridge endpoint.
type Inbound struct{}

// Connect implements Source.
func (Inbound) Connect(context.Context) error { return nil }

// Run implements Source; it idles until ctx is done.
func (Inbound) Run(ctx context.Context, _ Sink) error {
	<-ctx.Done()
	return nil
}

// Close implements Source.
func (Inbound) Close() error { return nil }
