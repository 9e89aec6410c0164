package protocol

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// NewSkeletonMessage creates a skeleton message
func NewSkeletonMessage(frameID uint64, bodies []BodyData) (*Message, error) {
	return NewMessage(TypeSkeleton, SkeletonData{FrameID: frameID, Bodies: bodies})
}

// NewColorMessage creates a color message from raw pixels
func NewColorMessage(width, height int, format string, pix []byte) (*Message, error) {
	return NewMessage(TypeColor, ColorData{
		Width:  width,
		Height: height,
		Format: format,
		Data:   base64.StdEncoding.EncodeToString(pix),
	})
}

// NewDepthMessage creates a depth message from raw samples
func NewDepthMessage(width, height int, samples []int16) (*Message, error) {
	return NewMessage(TypeDepth, DepthData{
		Width:  width,
		Height: height,
		Data:   base64.StdEncoding.EncodeToString(EncodeDepth(samples)),
	})
}

// NewStatusMessage creates a status message
func NewStatusMessage(connected bool, device string) (*Message, error) {
	return NewMessage(TypeStatus, StatusData{Connected: connected, Device: device})
}

// NewPongMessage answers a ping
func NewPongMessage(pingTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{PingTS: pingTS})
}

// Pixels decodes the base64 pixel payload
func (c *ColorData) Pixels() ([]byte, error) {
	return base64.StdEncoding.DecodeString(c.Data)
}

// Samples decodes the base64 little-endian int16 payload
func (d *DepthData) Samples() ([]int16, error) {
	raw, err := base64.StdEncoding.DecodeString(d.Data)
	if err != nil {
		return nil, err
	}
	return DecodeDepth(raw)
}

// EncodeDepth packs samples as little-endian int16
func EncodeDepth(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// DecodeDepth unpacks little-endian int16 samples
func DecodeDepth(raw []byte) ([]int16, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("depth payload has odd length %d", len(raw))
	}
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out, nil
}
