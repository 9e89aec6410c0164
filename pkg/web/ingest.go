package web

import (
	"errors"
	"time"

	cws "github.com/gofiber/contrib/websocket"

	"github.com/teslashibe/go-kiosk/pkg/protocol"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// bridgeReadTimeout closes a bridge that stops sending frames.
const bridgeReadTimeout = 30 * time.Second

// handleSensorWS accepts one sensor bridge at a time and applies its
// messages to the sensor hub.
func (s *Server) handleSensorWS(c *cws.Conn) {
	if !s.bridged.CompareAndSwap(false, true) {
		s.logger.Warn("second sensor bridge refused", "remote", c.RemoteAddr())
		c.WriteMessage(cws.CloseMessage,
			cws.FormatCloseMessage(cws.ClosePolicyViolation, "sensor bridge already connected"))
		c.Close()
		return
	}
	defer func() {
		s.sensor.SetStatus(sensor.Status{Connected: false})
		s.bridged.Store(false)
		c.Close()
		s.logger.Info("sensor bridge disconnected", "remote", c.RemoteAddr())
	}()

	s.logger.Info("sensor bridge connected", "remote", c.RemoteAddr())
	s.sensor.SetStatus(sensor.Status{Connected: true, Device: c.Query("device", "bridge")})

	for {
		c.SetReadDeadline(time.Now().Add(bridgeReadTimeout))
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			s.logger.Warn("invalid sensor message", "error", err)
			continue
		}

		reply, err := sensor.Apply(msg, s.sensor)
		if err != nil {
			if errors.Is(err, sensor.ErrBadFrame) {
				s.logger.Warn("dropped sensor frame", "type", msg.Type, "error", err)
				continue
			}
			s.logger.Error("sensor frame rejected", "type", msg.Type, "error", err)
			return
		}
		if reply != nil {
			out, err := reply.Bytes()
			if err != nil {
				continue
			}
			c.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.WriteMessage(cws.TextMessage, out); err != nil {
				return
			}
		}
	}
}
