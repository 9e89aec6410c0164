package gesture

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// HandsOnHead reports whether both hands are within HeadRadius of the head.
// Joints the sensor has no estimate for never count.
func (c Config) HandsOnHead(s *sensor.Candidate) bool {
	if s == nil {
		return false
	}
	head := s.Joint(sensor.Head)
	left := s.Joint(sensor.HandLeft)
	right := s.Joint(sensor.HandRight)
	if head.State == sensor.NotTracked || left.State == sensor.NotTracked || right.State == sensor.NotTracked {
		return false
	}
	return distance(left.Position, head.Position) < c.HeadRadius &&
		distance(right.Position, head.Position) < c.HeadRadius
}

// HandRaised reports whether the tracked right hand is above the right elbow
// by more than RaiseThreshold.
func (c Config) HandRaised(s *sensor.Candidate) bool {
	if s == nil || !s.IsTracked(sensor.HandRight) {
		return false
	}
	hand := s.Joint(sensor.HandRight).Position
	elbow := s.Joint(sensor.ElbowRight).Position
	return hand.Y-elbow.Y > c.RaiseThreshold
}

func distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}
