package dwell

// Config holds the dwell timing and menu layout parameters
type Config struct {
	// Progress per frame while hovering
	NearIncrement float64 // Within Width/NearDivisor of the region centre
	FarIncrement  float64 // Anywhere else inside the region
	NearDivisor   float64

	// Layout
	ScrollAreaX int     // Left edge of the menu column in pixels
	Gap         int     // Space around and between cells
	Friction    float64 // Weight kept from the displayed rect each frame

	// Other regions fade out once progress passes this
	FadeThreshold float64
}

// DefaultConfig returns the layout used on a 1920-wide kiosk screen
func DefaultConfig() Config {
	return Config{
		NearIncrement: 0.004,
		FarIncrement:  0.002,
		NearDivisor:   3.5,

		ScrollAreaX: 1440,
		Gap:         12,
		Friction:    0.9,

		FadeThreshold: 0.10,
	}
}
