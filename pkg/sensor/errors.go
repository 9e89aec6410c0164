package sensor

import "errors"

var (
	// ErrSensorUnavailable is returned when no sensor can be reached at startup.
	ErrSensorUnavailable = errors.New("sensor unavailable")

	// ErrAlreadyStarted is returned by Start on a running hub.
	ErrAlreadyStarted = errors.New("sensor hub already started")

	// ErrNotStarted is returned by Stop on a hub that was never started.
	ErrNotStarted = errors.New("sensor hub not started")

	// ErrSubscriptionActive is returned when a second subscription is requested
	// while one is still live.
	ErrSubscriptionActive = errors.New("a sensor subscription is already active")

	// ErrBadFrame is returned for frames whose size and payload disagree.
	ErrBadFrame = errors.New("malformed sensor frame")
)
