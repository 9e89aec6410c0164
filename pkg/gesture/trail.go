package gesture

import "gonum.org/v1/gonum/spatial/r3"

// Event is a discrete gesture.
type Event int

const (
	None Event = iota
	SwipeUp
	SwipeDown
)

func (e Event) String() string {
	switch e {
	case SwipeUp:
		return "swipe_up"
	case SwipeDown:
		return "swipe_down"
	default:
		return "none"
	}
}

// Trail is a fixed-capacity window of raw hand positions. The oldest sample
// is evicted when a new one arrives at capacity.
type Trail struct {
	samples []r3.Vec
	size    int
}

// NewTrail creates an empty trail holding up to size samples.
func NewTrail(size int) *Trail {
	if size < 2 {
		size = 2
	}
	return &Trail{samples: make([]r3.Vec, 0, size), size: size}
}

// Push appends a sample.
func (t *Trail) Push(p r3.Vec) {
	if len(t.samples) == t.size {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:t.size-1]
	}
	t.samples = append(t.samples, p)
}

// Len returns the number of samples held.
func (t *Trail) Len() int { return len(t.samples) }

// Full reports whether the trail is at capacity.
func (t *Trail) Full() bool { return len(t.samples) == t.size }

// Clear drops every sample.
func (t *Trail) Clear() { t.samples = t.samples[:0] }

// Swipe checks the vertical travel between the oldest and newest sample
// once the trail is full. A swipe clears the trail.
func (t *Trail) Swipe(threshold float64) Event {
	if !t.Full() {
		return None
	}
	dy := t.samples[len(t.samples)-1].Y - t.samples[0].Y
	switch {
	case dy > threshold:
		t.Clear()
		return SwipeUp
	case dy < -threshold:
		t.Clear()
		return SwipeDown
	}
	return None
}
