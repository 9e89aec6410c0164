// Package sensor owns the body-tracking sensor state: the latest skeleton,
// color and depth frames, and the single live subscription that forwards
// frames to the running app.
package sensor

import (
	"image"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// JointType names a skeletal joint.
type JointType string

// Joints reported by the sensor.
const (
	HipCenter      JointType = "hip_center"
	Spine          JointType = "spine"
	ShoulderCenter JointType = "shoulder_center"
	Head           JointType = "head"
	ShoulderLeft   JointType = "shoulder_left"
	ElbowLeft      JointType = "elbow_left"
	WristLeft      JointType = "wrist_left"
	HandLeft       JointType = "hand_left"
	ShoulderRight  JointType = "shoulder_right"
	ElbowRight     JointType = "elbow_right"
	WristRight     JointType = "wrist_right"
	HandRight      JointType = "hand_right"
	HipLeft        JointType = "hip_left"
	KneeLeft       JointType = "knee_left"
	AnkleLeft      JointType = "ankle_left"
	FootLeft       JointType = "foot_left"
	HipRight       JointType = "hip_right"
	KneeRight      JointType = "knee_right"
	AnkleRight     JointType = "ankle_right"
	FootRight      JointType = "foot_right"
)

// AllJoints lists every joint in sensor order.
var AllJoints = []JointType{
	HipCenter, Spine, ShoulderCenter, Head,
	ShoulderLeft, ElbowLeft, WristLeft, HandLeft,
	ShoulderRight, ElbowRight, WristRight, HandRight,
	HipLeft, KneeLeft, AnkleLeft, FootLeft,
	HipRight, KneeRight, AnkleRight, FootRight,
}

// JointState is the sensor's confidence in a joint position.
type JointState int

const (
	NotTracked JointState = iota
	Inferred
	Tracked
)

func (s JointState) String() string {
	switch s {
	case Tracked:
		return "tracked"
	case Inferred:
		return "inferred"
	default:
		return "not_tracked"
	}
}

// Joint is one joint observation. Position is in sensor space (metres,
// Y up, Z away from the sensor).
type Joint struct {
	Position r3.Vec
	State    JointState
}

// Candidate is one frame's observation of a body.
type Candidate struct {
	// FrameIndex is unique only within a frame.
	FrameIndex int
	// TrackingID persists across frames while the sensor keeps the subject,
	// and may be reused for a different subject after tracking is lost.
	TrackingID int
	Tracked    bool
	Joints     map[JointType]Joint
}

// Joint returns the named joint, or a NotTracked zero joint.
func (c *Candidate) Joint(t JointType) Joint {
	if c == nil {
		return Joint{}
	}
	return c.Joints[t]
}

// IsTracked reports whether the named joint is fully tracked.
func (c *Candidate) IsTracked(t JointType) bool {
	return c.Joint(t).State == Tracked
}

// Clone deep-copies the candidate.
func (c Candidate) Clone() Candidate {
	joints := make(map[JointType]Joint, len(c.Joints))
	for k, v := range c.Joints {
		joints[k] = v
	}
	c.Joints = joints
	return c
}

// SkeletonFrame is a full replacement of the candidate set.
type SkeletonFrame struct {
	Seq        uint64
	Received   time.Time
	Candidates []Candidate
}

// ColorFrame is an opaque RGBA camera image.
type ColorFrame struct {
	Seq      uint64
	Received time.Time
	Image    *image.RGBA
}

// DepthFrame holds raw depth samples: depth in millimetres shifted left by
// PlayerIndexBits, with the player index in the low bits.
type DepthFrame struct {
	Seq      uint64
	Received time.Time
	Width    int
	Height   int
	Data     []int16
}

// Status is reported by sensor transports.
type Status struct {
	Connected bool
	Device    string
}
