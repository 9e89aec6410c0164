package render

import (
	"math"
	"time"
)

// Passive hint timing: the "how to interact" overlay shows for about
// HintVisible out of every HintInterval.
const (
	HintInterval = 30 * time.Second
	HintVisible  = 5 * time.Second
)

// PassiveHintAlpha returns the overlay opacity in [0, 1] at total run time.
// It follows a sine over HintInterval, rescaled so only the top HintVisible
// of each period is above zero.
func PassiveHintAlpha(total time.Duration) float64 {
	interval := float64(HintInterval.Milliseconds())
	visible := float64(HintVisible.Milliseconds())

	a := math.Sin(float64(total.Milliseconds()) * 2 * math.Pi / interval)
	start := math.Sin(2 * math.Pi * (0.25 - visible/interval/2))
	a = (a - start) / (1 - start)
	return math.Max(0, math.Min(1, a))
}
