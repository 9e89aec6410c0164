package host

import "time"

// Config holds the host's timing parameters
type Config struct {
	// Screensaver
	ScreensaverTimeout time.Duration // Start a passive app after no subject for this long
	ScreensaverRetry   time.Duration // Wait before retrying a passive app that failed to start

	// Hands-on-head hold
	PauseHold time.Duration // Pause the running app once held this long
	QuitHold  time.Duration // Stop it once held this long

	// Raised-hand exit from an auto-selected passive app
	BreakPassiveOnRaise bool
	BreakPassiveHold    time.Duration

	// Operator dashboard
	CommandQueue int // Pending operator commands
	EventLog     int // Host events kept for the dashboard
}

// DefaultConfig returns the timings the kiosk ships with
func DefaultConfig() Config {
	return Config{
		ScreensaverTimeout: 20 * time.Second,
		ScreensaverRetry:   20 * time.Second,

		PauseHold: 1 * time.Second,
		QuitHold:  2 * time.Second,

		BreakPassiveOnRaise: false,
		BreakPassiveHold:    3 * time.Second,

		CommandQueue: 16,
		EventLog:     200,
	}
}
