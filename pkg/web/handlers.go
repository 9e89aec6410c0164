package web

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/host"
	"github.com/teslashibe/go-kiosk/pkg/hub"
)

// logBacklog is how many events a new log stream client receives.
const logBacklog = 100

// AppInfo describes an app on the dashboard.
type AppInfo struct {
	ID               string `json:"id"` // catalog name, used to start the app
	Index            int    `json:"index"`
	Name             string `json:"name"`
	Author           string `json:"author"`
	Description      string `json:"description"`
	Passive          bool   `json:"passive"`
	SuggestedSeconds int    `json:"suggested_seconds"`
}

// handleStatus returns the host's current status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.host.Status())
}

// handleListApps returns the registered apps
func (s *Server) handleListApps(c *fiber.Ctx) error {
	names, descs := s.apps.Names(), s.apps.Descriptors()
	out := make([]AppInfo, 0, len(descs))
	for i, d := range descs {
		if i < len(names) {
			out = append(out, appInfo(i, names[i], d))
		}
	}
	return c.JSON(out)
}

func appInfo(i int, id string, d app.Descriptor) AppInfo {
	return AppInfo{
		ID:               id,
		Index:            i,
		Name:             d.Name,
		Author:           d.Author,
		Description:      d.Description,
		Passive:          d.Passive,
		SuggestedSeconds: d.SuggestedSeconds,
	}
}

// handleStartApp queues an operator start
func (s *Server) handleStartApp(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.host.Start(name); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	s.logger.Info("operator start", "app", name)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"app": name, "queued": true})
}

// handleStop queues an operator stop
func (s *Server) handleStop(c *fiber.Ctx) error {
	if err := s.host.Stop(); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	s.logger.Info("operator stop")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": true})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrUnknownApp):
		return fiber.StatusNotFound
	case errors.Is(err, host.ErrNotRunning):
		return fiber.StatusConflict
	case errors.Is(err, host.ErrCommandQueueFull):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// handleGetLogs returns recent host events; ?n limits the count
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	return c.JSON(s.host.Events(c.QueryInt("n", 0)))
}

// handleStatusWS sends the current status, then every published one
func (s *Server) handleStatusWS(c *websocket.Conn) {
	var initial []hub.Message
	if data, err := json.Marshal(s.host.Status()); err == nil {
		initial = append(initial, hub.NewJSONMessage(data))
	}
	s.serveClient(s.statusHub, c, initial...)
}

// handleLogsWS sends recent events, then live ones
func (s *Server) handleLogsWS(c *websocket.Conn) {
	events := s.host.Events(logBacklog)
	initial := make([]hub.Message, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		initial = append(initial, hub.NewJSONMessage(data))
	}
	s.serveClient(s.logHub, c, initial...)
}

// handleCameraWS streams JPEG frames of the kiosk surface
func (s *Server) handleCameraWS(c *websocket.Conn) {
	s.serveClient(s.cameraHub, c)
}

func (s *Server) serveClient(h *hub.Hub, c *websocket.Conn, initial ...hub.Message) {
	client, err := hub.NewClient(h, c, initial...)
	if err != nil {
		s.logger.Debug("client refused", "stream", h.Name(), "error", err)
		return
	}
	client.Run()
}
