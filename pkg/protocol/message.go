// Package protocol defines the WebSocket messages a sensor bridge sends to
// the kiosk host. A bridge either serves them to the host's dialer or pushes
// them to the dashboard's /ws/sensor endpoint.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Sensor → host
	TypeSkeleton MessageType = "skeleton" // Full candidate set
	TypeColor    MessageType = "color"    // Camera image
	TypeDepth    MessageType = "depth"    // Depth samples
	TypeStatus   MessageType = "status"   // Device status

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// JointData is one joint in sensor space (metres).
type JointData struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	State string  `json:"state"` // tracked, inferred, not_tracked
}

// BodyData is one tracked-body candidate.
type BodyData struct {
	Index      int                  `json:"index"`
	TrackingID int                  `json:"tracking_id"`
	Tracked    bool                 `json:"tracked"`
	Joints     map[string]JointData `json:"joints"`
}

// SkeletonData is a full replacement of the candidate set.
type SkeletonData struct {
	FrameID uint64     `json:"frame_id,omitempty"`
	Bodies  []BodyData `json:"bodies"`
}

// ColorData contains a raw camera image.
type ColorData struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"` // "rgba", "bgra"
	Data   string `json:"data"`   // base64 encoded
}

// DepthData contains depth samples, little-endian int16, base64 encoded.
type DepthData struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"`
}

// StatusData reports the device state.
type StatusData struct {
	Connected bool   `json:"connected"`
	Device    string `json:"device,omitempty"`
}

// PongData answers a ping.
type PongData struct {
	PingTS int64 `json:"ping_ts"`
}

// GetSkeletonData extracts skeleton data from a message
func (m *Message) GetSkeletonData() (*SkeletonData, error) {
	if m.Type != TypeSkeleton {
		return nil, fmt.Errorf("expected skeleton message, got %s", m.Type)
	}
	var data SkeletonData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetColorData extracts color data from a message
func (m *Message) GetColorData() (*ColorData, error) {
	if m.Type != TypeColor {
		return nil, fmt.Errorf("expected color message, got %s", m.Type)
	}
	var data ColorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetDepthData extracts depth data from a message
func (m *Message) GetDepthData() (*DepthData, error) {
	if m.Type != TypeDepth {
		return nil, fmt.Errorf("expected depth message, got %s", m.Type)
	}
	var data DepthData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatusData extracts status data from a message
func (m *Message) GetStatusData() (*StatusData, error) {
	if m.Type != TypeStatus {
		return nil, fmt.Errorf("expected status message, got %s", m.Type)
	}
	var data StatusData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
