// Kiosk - gesture-driven app host for a body-tracking sensor
// Shows a dwell-to-select menu of apps and rotates passive apps when nobody
// is in front of the screen.
package main

import (
	"context"
	"flag"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-kiosk/internal/config"
	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/apps"
	"github.com/teslashibe/go-kiosk/pkg/kiosk"
	"github.com/teslashibe/go-kiosk/pkg/render/cvsurface"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

func main() {
	cfg := parseFlags()
	log.Init(cfg.Logging.Level)
	logger := log.L()

	surface := cvsurface.New(image.Pt(cfg.Display.Width, cfg.Display.Height))
	defer surface.Close()

	k, err := kiosk.New(cfg, kiosk.Options{
		Factories:   apps.Builtin(),
		DefaultApps: apps.Names,
		Surface:     surface,
		Source:      sensor.NewClient(cfg.Sensor.URL, cfg.Sensor.DialTimeout, logger),
		Logger:      logger,
	})
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := k.Init(); err != nil {
		logger.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer k.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := k.Run(ctx); err != nil {
		logger.Error("runtime error", "error", err)
		k.Shutdown()
		surface.Close()
		os.Exit(1)
	}
}

// parseFlags loads the environment configuration and applies flag overrides.
func parseFlags() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	sensorURL := flag.String("sensor", cfg.Sensor.URL, "Sensor bridge websocket URL (dial mode)")
	listen := flag.Bool("listen", cfg.Sensor.Mode == "listen", "Accept a sensor bridge on the dashboard's /ws/sensor instead of dialing")
	catalog := flag.String("catalog", cfg.Apps.Catalog, "App catalog YAML")
	content := flag.String("content", cfg.Apps.ContentRoot, "Directory holding per-app content")
	port := flag.String("port", cfg.Dashboard.Port, "Dashboard port")
	noDashboard := flag.Bool("no-dashboard", !cfg.Dashboard.Enabled, "Disable the operator dashboard")
	fps := flag.Int("fps", cfg.Display.FPS, "Frames per second")
	flag.Parse()

	if *debug {
		cfg.Logging.Level = "debug"
	}
	cfg.Sensor.URL = *sensorURL
	if *listen {
		cfg.Sensor.Mode = "listen"
	} else {
		cfg.Sensor.Mode = "dial"
	}
	cfg.Apps.Catalog, cfg.Apps.ContentRoot = *catalog, *content
	cfg.Dashboard.Port, cfg.Dashboard.Enabled = *port, !*noDashboard
	cfg.Display.FPS = *fps

	if err := cfg.Validate(); err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}
	return cfg
}
