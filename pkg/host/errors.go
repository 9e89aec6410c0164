package host

import "errors"

var (
	// ErrEmptyPassiveSet is reported when the screensaver fires but no
	// registered app may run unattended.
	ErrEmptyPassiveSet = errors.New("no passive apps registered")

	// ErrCommandQueueFull is returned when operator commands arrive faster
	// than frames drain them.
	ErrCommandQueueFull = errors.New("host command queue full")

	// ErrNotRunning is returned by Stop when no app is running.
	ErrNotRunning = errors.New("no app running")
)
