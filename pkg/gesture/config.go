package gesture

// Config holds tunable parameters for pointer smoothing and gestures
type Config struct {
	// Smoothing
	Friction float64 // Weight kept from the previous value each frame (0-1)

	// Swipes
	TrailSize      int     // Raw hand samples kept for swipe detection
	SwipeThreshold float64 // Vertical travel across the trail in sensor metres

	// Poses
	HeadRadius     float64 // Max hand-to-head distance for hands-on-head (metres)
	RaiseThreshold float64 // Min hand height above elbow for a raised hand (metres)

	// Cursor fade
	FadeIn  float64 // Opacity gained per visible frame
	FadeOut float64 // Opacity kept per hidden frame
}

// DefaultConfig returns the tuning the kiosk ships with
func DefaultConfig() Config {
	return Config{
		Friction: 0.85, // 85% old, 15% new

		TrailSize:      10,
		SwipeThreshold: 0.5,

		HeadRadius:     0.3,
		RaiseThreshold: 0.1,

		FadeIn:  0.1,
		FadeOut: 0.9,
	}
}

// SteadyConfig smooths harder, for sensors with noisy hand joints
func SteadyConfig() Config {
	cfg := DefaultConfig()
	cfg.Friction = 0.92
	cfg.TrailSize = 14
	return cfg
}
