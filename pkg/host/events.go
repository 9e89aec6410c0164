package host

import "time"

// EventKind classifies host events.
type EventKind string

const (
	EventStarted     EventKind = "started"
	EventStopped     EventKind = "stopped"
	EventPaused      EventKind = "paused"
	EventResumed     EventKind = "resumed"
	EventStartFailed EventKind = "start_failed"
	EventScreensaver EventKind = "screensaver"
	EventWarning     EventKind = "warning"
)

// Event is one entry in the host's event log.
type Event struct {
	Time    time.Time `json:"time"`
	Kind    EventKind `json:"kind"`
	App     string    `json:"app,omitempty"`
	Message string    `json:"message"`
}

// Stop reasons.
const (
	ReasonFinished = "finished"
	ReasonFailed   = "failed"
	ReasonQuit     = "hands_on_head"
	ReasonRaised   = "hand_raised"
	ReasonOperator = "operator"
	ReasonRotate   = "screensaver"
	ReasonShutdown = "shutdown"
)

// eventLog is a bounded log of recent events.
type eventLog struct {
	size   int
	events []Event
}

func (l *eventLog) add(e Event) {
	l.events = append(l.events, e)
	if over := len(l.events) - l.size; over > 0 {
		l.events = append(l.events[:0], l.events[over:]...)
	}
}

func (l *eventLog) last(n int) []Event {
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	return append([]Event(nil), l.events[len(l.events)-n:]...)
}
