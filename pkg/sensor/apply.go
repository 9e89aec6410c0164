package sensor

import (
	"fmt"

	"github.com/teslashibe/go-kiosk/pkg/protocol"
	"gonum.org/v1/gonum/spatial/r3"
)

// ParseJointState maps a wire state name to a JointState.
// Unknown names are NotTracked.
func ParseJointState(s string) JointState {
	switch s {
	case "tracked":
		return Tracked
	case "inferred":
		return Inferred
	default:
		return NotTracked
	}
}

// CandidatesFromWire converts skeleton bodies into candidates.
// Joint names that are not known are dropped.
func CandidatesFromWire(bodies []protocol.BodyData) []Candidate {
	known := make(map[JointType]struct{}, len(AllJoints))
	for _, j := range AllJoints {
		known[j] = struct{}{}
	}

	out := make([]Candidate, 0, len(bodies))
	for _, b := range bodies {
		c := Candidate{
			FrameIndex: b.Index,
			TrackingID: b.TrackingID,
			Tracked:    b.Tracked,
			Joints:     make(map[JointType]Joint, len(b.Joints)),
		}
		for name, jd := range b.Joints {
			jt := JointType(name)
			if _, ok := known[jt]; !ok {
				continue
			}
			c.Joints[jt] = Joint{
				Position: r3.Vec{X: jd.X, Y: jd.Y, Z: jd.Z},
				State:    ParseJointState(jd.State),
			}
		}
		out = append(out, c)
	}
	return out
}

// WireFromCandidates is the inverse of CandidatesFromWire.
func WireFromCandidates(candidates []Candidate) []protocol.BodyData {
	out := make([]protocol.BodyData, 0, len(candidates))
	for _, c := range candidates {
		b := protocol.BodyData{
			Index:      c.FrameIndex,
			TrackingID: c.TrackingID,
			Tracked:    c.Tracked,
			Joints:     make(map[string]protocol.JointData, len(c.Joints)),
		}
		for jt, j := range c.Joints {
			b.Joints[string(jt)] = protocol.JointData{
				X: j.Position.X, Y: j.Position.Y, Z: j.Position.Z,
				State: j.State.String(),
			}
		}
		out = append(out, b)
	}
	return out
}

// Apply dispatches one protocol message into sink. It returns a reply for
// messages that expect one (ping), or nil.
func Apply(msg *protocol.Message, sink Sink) (*protocol.Message, error) {
	switch msg.Type {
	case protocol.TypeSkeleton:
		data, err := msg.GetSkeletonData()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		sink.PushSkeleton(CandidatesFromWire(data.Bodies))

	case protocol.TypeColor:
		data, err := msg.GetColorData()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		pix, err := data.Pixels()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		format := PixelFormat(data.Format)
		if format == "" {
			format = FormatBGRA
		}
		return nil, sink.PushColor(data.Width, data.Height, format, pix)

	case protocol.TypeDepth:
		data, err := msg.GetDepthData()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		samples, err := data.Samples()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		return nil, sink.PushDepth(data.Width, data.Height, samples)

	case protocol.TypeStatus:
		data, err := msg.GetStatusData()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		sink.SetStatus(Status{Connected: data.Connected, Device: data.Device})

	case protocol.TypePing:
		return protocol.NewPongMessage(msg.Timestamp)

	case protocol.TypePong:
		// nothing to do

	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrBadFrame, msg.Type)
	}
	return nil, nil
}
