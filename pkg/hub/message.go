// Package hub fans dashboard messages out to websocket clients.
package hub

import "github.com/gofiber/websocket/v2"

// Message is one frame delivered to every client of a hub. Binary frames
// carry JPEG images; everything else is JSON text.
type Message struct {
	Binary bool
	Data   []byte
}

// NewJSONMessage wraps pre-encoded JSON.
func NewJSONMessage(data []byte) Message { return Message{Data: data} }

// NewBinaryMessage wraps binary data.
func NewBinaryMessage(data []byte) Message { return Message{Binary: true, Data: data} }

func (m Message) frameType() int {
	if m.Binary {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}
