// Package config loads kiosk process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. KIOSK_WIDTH.
const Prefix = "KIOSK"

// Config holds all process configuration.
type Config struct {
	Display   DisplayConfig
	Sensor    SensorConfig
	Dashboard DashboardConfig
	Apps      AppsConfig
	Host      HostConfig
	Logging   LogConfig
}

// DisplayConfig describes the kiosk surface and frame loop.
type DisplayConfig struct {
	Width  int `envconfig:"WIDTH" default:"1920"`
	Height int `envconfig:"HEIGHT" default:"1080"`
	FPS    int `envconfig:"FPS" default:"30"`
}

// SensorConfig selects how body-tracking frames reach the host.
// Mode "dial" connects to URL; mode "listen" waits for a bridge on the
// dashboard's /ws/sensor endpoint.
type SensorConfig struct {
	Mode        string        `envconfig:"SENSOR_MODE" default:"dial"`
	URL         string        `envconfig:"SENSOR_URL" default:"ws://localhost:9001/skeleton"`
	DialTimeout time.Duration `envconfig:"SENSOR_DIAL_TIMEOUT" default:"5s"`
}

// DashboardConfig holds the operator dashboard settings.
type DashboardConfig struct {
	Enabled   bool    `envconfig:"DASHBOARD" default:"true"`
	Port      string  `envconfig:"DASHBOARD_PORT" default:"8080"`
	CameraFPS float64 `envconfig:"DASHBOARD_CAMERA_FPS" default:"5"`
}

// AppsConfig locates the app catalog and content.
type AppsConfig struct {
	Catalog     string `envconfig:"CATALOG" default:"apps.yaml"`
	ContentRoot string `envconfig:"CONTENT_ROOT" default:"Games"`
}

// HostConfig overrides host timing.
type HostConfig struct {
	ScreensaverTimeout  time.Duration `envconfig:"SCREENSAVER_TIMEOUT" default:"20s"`
	PauseHold           time.Duration `envconfig:"PAUSE_HOLD" default:"1s"`
	QuitHold            time.Duration `envconfig:"QUIT_HOLD" default:"2s"`
	BreakPassiveOnRaise bool          `envconfig:"BREAK_PASSIVE_ON_RAISE" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{Width: 1920, Height: 1080, FPS: 30},
		Sensor: SensorConfig{
			Mode:        "dial",
			URL:         "ws://localhost:9001/skeleton",
			DialTimeout: 5 * time.Second,
		},
		Dashboard: DashboardConfig{Enabled: true, Port: "8080", CameraFPS: 5},
		Apps:      AppsConfig{Catalog: "apps.yaml", ContentRoot: "Games"},
		Host: HostConfig{
			ScreensaverTimeout: 20 * time.Second,
			PauseHold:          time.Second,
			QuitHold:           2 * time.Second,
		},
		Logging: LogConfig{Level: "info"},
	}
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("invalid display size %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.Display.FPS)
	}
	switch c.Sensor.Mode {
	case "dial", "listen":
	default:
		return fmt.Errorf("unknown sensor mode %q (want dial or listen)", c.Sensor.Mode)
	}
	if c.Sensor.Mode == "listen" && !c.Dashboard.Enabled {
		return fmt.Errorf("sensor mode listen requires the dashboard server")
	}
	if c.Host.PauseHold > c.Host.QuitHold {
		return fmt.Errorf("pause hold %v exceeds quit hold %v", c.Host.PauseHold, c.Host.QuitHold)
	}
	return nil
}

// FrameInterval returns the target duration of one frame.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Display.FPS)
}
