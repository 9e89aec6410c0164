// Package identity keeps two stable subject slots across a stream of
// per-frame body candidates.
//
// Each frame the resolver re-binds candidates whose tracking id matches a
// slot's previous binding, then fills any empty slot with the remaining
// tracked candidates in order. Re-matching an old id always wins over a
// fresh fill: a fresh candidate that took Primary earlier in the same frame
// is demoted to Secondary when Primary's old subject turns up.
package identity

import (
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Slot names one of the two identity slots.
type Slot int

const (
	Primary Slot = iota
	Secondary
)

func (s Slot) String() string {
	if s == Primary {
		return "primary"
	}
	return "secondary"
}

// Binding is a slot's state after a frame.
type Binding struct {
	// TrackingID is the last id bound to the slot. It survives frames in
	// which the slot is unbound. HasID is false until the first binding.
	TrackingID int
	HasID      bool

	// Candidate is this frame's candidate, or nil when unbound. It points
	// into the frame passed to Resolve and is only valid for that frame.
	Candidate *sensor.Candidate
}

// Bound reports whether the slot has a candidate this frame.
func (b Binding) Bound() bool { return b.Candidate != nil }

// Resolver owns the two slots.
type Resolver struct {
	slots [2]Binding
}

// New returns a resolver with both slots empty.
func New() *Resolver {
	return &Resolver{}
}

// Resolve binds this frame's candidates to the slots. Zero candidates
// leaves both slots unbound.
func (r *Resolver) Resolve(candidates []sensor.Candidate) {
	old := r.slots

	var primary, secondary *sensor.Candidate
	primaryMatched := false // Primary holds its previous subject

	for i := range candidates {
		c := &candidates[i]
		if !c.Tracked {
			continue
		}

		switch {
		case old[Primary].HasID && c.TrackingID == old[Primary].TrackingID:
			if primaryMatched {
				continue
			}
			if primary != nil {
				secondary = primary
			}
			primary = c
			primaryMatched = true

		case old[Secondary].HasID && c.TrackingID == old[Secondary].TrackingID:
			secondary = c

		case sameID(primary, c) || sameID(secondary, c):
			// already bound this frame

		case primary == nil:
			primary = c

		case secondary == nil:
			secondary = c
		}
	}

	r.slots[Primary] = rebind(old[Primary], primary)
	r.slots[Secondary] = rebind(old[Secondary], secondary)
}

func sameID(a, b *sensor.Candidate) bool {
	return a != nil && a.TrackingID == b.TrackingID
}

func rebind(prev Binding, c *sensor.Candidate) Binding {
	if c == nil {
		return Binding{TrackingID: prev.TrackingID, HasID: prev.HasID}
	}
	return Binding{TrackingID: c.TrackingID, HasID: true, Candidate: c}
}

// Slot returns the binding for s.
func (r *Resolver) Slot(s Slot) Binding {
	return r.slots[s]
}

// Primary returns the primary subject, or nil.
func (r *Resolver) Primary() *sensor.Candidate { return r.slots[Primary].Candidate }

// Secondary returns the secondary subject, or nil.
func (r *Resolver) Secondary() *sensor.Candidate { return r.slots[Secondary].Candidate }

// Driver returns the subject that drives the host UI: Primary when bound,
// otherwise Secondary.
func (r *Resolver) Driver() *sensor.Candidate {
	if c := r.Primary(); c != nil {
		return c
	}
	return r.Secondary()
}

// Present reports whether any subject is bound.
func (r *Resolver) Present() bool {
	return r.Driver() != nil
}

// Count returns the number of bound slots.
func (r *Resolver) Count() int {
	n := 0
	for _, s := range r.slots {
		if s.Bound() {
			n++
		}
	}
	return n
}

// Reset forgets both slots.
func (r *Resolver) Reset() {
	r.slots = [2]Binding{}
}
