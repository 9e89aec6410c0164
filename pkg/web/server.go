// Package web serves the operator dashboard and its websocket streams.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	cws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"

	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/host"
	"github.com/teslashibe/go-kiosk/pkg/hub"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

// Controller is the part of the host the dashboard drives.
type Controller interface {
	Status() host.Status
	Events(n int) []host.Event
	Start(name string) error
	Stop() error
}

// Catalog lists the registered apps. Names and Descriptors share indices.
type Catalog interface {
	Names() []string
	Descriptors() []app.Descriptor
}

// Options configure a Server.
type Options struct {
	Port      string
	CameraFPS float64 // camera frames per second; <= 0 disables the stream

	Host    Controller
	Apps    Catalog
	Metrics http.Handler // served at /metrics when set
	Sensor  sensor.Sink  // enables the /ws/sensor bridge endpoint when set

	Static string // directory served at / when set
	Logger *slog.Logger
}

// Server is the web dashboard server
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	host    Controller
	apps    Catalog
	sensor  sensor.Sink
	bridged atomic.Bool

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub
	camera    *rate.Limiter
}

// NewServer creates a new web dashboard server
func NewServer(opts Options) *Server {
	logger := log.Or(opts.Logger).With("component", "web")
	s := &Server{
		port:      opts.Port,
		logger:    logger,
		host:      opts.Host,
		apps:      opts.Apps,
		sensor:    opts.Sensor,
		statusHub: hub.New("status", logger),
		logHub:    hub.New("logs", logger),
		cameraHub: hub.New("camera", logger),
	}
	if opts.CameraFPS > 0 {
		s.camera = rate.NewLimiter(rate.Limit(opts.CameraFPS), 1)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Kiosk Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	if opts.Static != "" {
		app.Static("/", opts.Static)
	}

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/apps", s.handleListApps)
	api.Post("/apps/:name/start", s.handleStartApp)
	api.Post("/stop", s.handleStop)
	api.Get("/logs", s.handleGetLogs)

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics))
	}

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))
	if s.sensor != nil {
		app.Get("/ws/sensor", cws.New(s.handleSensorWS))
	}

	s.app = app
	return s
}

// App returns the fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Start runs the hubs until ctx is done and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("web dashboard", "url", "http://localhost:"+s.port)

	go s.statusHub.Run(ctx)
	go s.logHub.Run(ctx)
	go s.cameraHub.Run(ctx)

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
}

// PublishStatus broadcasts a host status to status stream clients.
func (s *Server) PublishStatus(st host.Status) {
	if s.statusHub.ClientCount() == 0 {
		return
	}
	if err := s.statusHub.BroadcastJSON(st); err != nil {
		s.logger.Warn("status encode failed", "error", err)
	}
}

// PublishEvent broadcasts a host event to log stream clients.
func (s *Server) PublishEvent(e host.Event) {
	if err := s.logHub.BroadcastJSON(e); err != nil {
		s.logger.Warn("event encode failed", "error", err)
	}
}

// CameraDue reports whether a camera frame should be encoded now: a client
// is watching and the stream's rate allows another frame.
func (s *Server) CameraDue() bool {
	return s.camera != nil && s.cameraHub.ClientCount() > 0 && s.camera.Allow()
}

// SendCameraFrame sends a JPEG frame to all camera clients
func (s *Server) SendCameraFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

// BridgeConnected reports whether a sensor bridge is attached.
func (s *Server) BridgeConnected() bool { return s.bridged.Load() }

// StatusHub returns the status hub
func (s *Server) StatusHub() *hub.Hub { return s.statusHub }

// LogHub returns the log hub
func (s *Server) LogHub() *hub.Hub { return s.logHub }

// CameraHub returns the camera hub
func (s *Server) CameraHub() *hub.Hub { return s.cameraHub }

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
