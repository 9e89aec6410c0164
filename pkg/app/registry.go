package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Subscriber hands out sensor subscriptions.
type Subscriber interface {
	Subscribe(owner string, hooks sensor.Hooks) (*sensor.Subscription, error)
}

type entry struct {
	name    string
	desc    Descriptor
	factory Factory
	content string
}

// Registry maps app names to factories. Descriptors are built once, when an
// app is registered. Indices are stable in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	byName  map[string]int

	params Params
	sensor Subscriber
	logger *slog.Logger
}

// NewRegistry creates a registry. params is the template every app is
// constructed with; ContentRoot is the directory holding per-app content.
func NewRegistry(params Params, sub Subscriber, logger *slog.Logger) *Registry {
	logger = log.Or(logger).With("component", "registry")
	params.Logger = log.Or(params.Logger)
	return &Registry{
		byName: make(map[string]int),
		params: params,
		sensor: sub,
		logger: logger,
	}
}

// Register adds an app. content is its directory under the registry's
// content root. The factory is called once to build the descriptor.
func (r *Registry) Register(name, content string, f Factory) (err error) {
	if name == "" || f == nil {
		return fmt.Errorf("%w: name and factory are required", ErrInvalidApp)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateApp, name)
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrInvalidApp, name, p)
		}
	}()

	sample := f(r.paramsFor(content))
	if sample == nil {
		return fmt.Errorf("%w: %s: factory returned nil", ErrInvalidApp, name)
	}
	desc := sample.Descriptor()
	if desc.Name == "" {
		desc.Name = name
	}

	r.byName[name] = len(r.entries)
	r.entries = append(r.entries, entry{name: name, desc: desc, factory: f, content: content})
	r.logger.Debug("app registered", "name", name, "passive", desc.Passive)
	return nil
}

// Len returns the number of registered apps.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Descriptor returns the descriptor at index i.
func (r *Registry) Descriptor(i int) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.entries) {
		return Descriptor{}, fmt.Errorf("%w: index %d", ErrUnknownApp, i)
	}
	return r.entries[i].desc, nil
}

// Descriptors returns every descriptor in index order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.desc
	}
	return out
}

// Names returns the registered names in index order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// Index returns the index registered under name.
func (r *Registry) Index(name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[name]
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrUnknownApp, name)
	}
	return i, nil
}

// Passive returns the indices of passive-capable apps.
func (r *Registry) Passive() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []int
	for i, e := range r.entries {
		if e.desc.Passive {
			out = append(out, i)
		}
	}
	return out
}

// Start constructs app i, loads its content, initializes it and subscribes
// its sensor hooks. Any failure or panic along the way is returned wrapped in
// ErrStartFailed, after releasing whatever was already acquired.
func (r *Registry) Start(i int) (inst *Instance, err error) {
	r.mu.RLock()
	if i < 0 || i >= len(r.entries) {
		r.mu.RUnlock()
		return nil, fmt.Errorf("%w: %w: index %d", ErrStartFailed, ErrUnknownApp, i)
	}
	e := r.entries[i]
	r.mu.RUnlock()

	name := e.desc.Name
	var (
		a      App
		loaded bool
	)
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrStartFailed, name, p)
			inst = nil
			if loaded {
				r.unload(name, a)
			}
		}
	}()

	params := r.paramsFor(e.content)
	a = e.factory(params)
	if a == nil {
		return nil, fmt.Errorf("%w: %s: factory returned nil", ErrStartFailed, name)
	}

	loaded = true
	if err := a.LoadContent(NewContentLoader(params.ContentRoot)); err != nil {
		r.unload(name, a)
		return nil, fmt.Errorf("%w: %s: load content: %w", ErrStartFailed, name, err)
	}
	if err := a.Initialize(); err != nil {
		r.unload(name, a)
		return nil, fmt.Errorf("%w: %s: initialize: %w", ErrStartFailed, name, err)
	}

	var sub *sensor.Subscription
	if r.sensor != nil {
		sub, err = r.sensor.Subscribe(name, hooksFor(a))
		if err != nil {
			r.unload(name, a)
			return nil, fmt.Errorf("%w: %s: subscribe: %w", ErrStartFailed, name, err)
		}
	}

	inst = newInstance(i, e.desc, a, sub, r.logger)
	r.logger.Info("app started", "name", name, "run", inst.ID())
	return inst, nil
}

func (r *Registry) paramsFor(content string) Params {
	p := r.params
	p.ContentRoot = filepath.Join(r.params.ContentRoot, content)
	return p
}

func (r *Registry) unload(name string, a App) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("app unload panicked", "name", name, "panic", p)
		}
	}()
	a.UnloadContent()
}
