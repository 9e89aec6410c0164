package kiosk

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/teslashibe/go-kiosk/internal/config"
	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/host"
	"github.com/teslashibe/go-kiosk/pkg/identity"
	"github.com/teslashibe/go-kiosk/pkg/metrics"
	"github.com/teslashibe/go-kiosk/pkg/render"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
	"github.com/teslashibe/go-kiosk/pkg/web"
)

// Options hold what the process supplies beyond configuration.
type Options struct {
	// Factories by catalog name.
	Factories map[string]app.Factory
	// Names enabled when the catalog file does not exist.
	DefaultApps []string
	// Surface is drawn every frame.
	Surface render.Surface
	// Source feeds the sensor hub in dial mode. Listen mode ignores it.
	Source sensor.Source
	Logger *slog.Logger
}

// App wires the sensor, registry, host, dashboard and frame loop together.
type App struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	sensor   *sensor.Hub
	registry *app.Registry
	host     *host.Host
	metrics  *metrics.Metrics
	web      *web.Server
	runner   *Runner
}

// New creates an App. Call Init before Run.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Factories) == 0 {
		return nil, errors.New("no app factories")
	}
	return &App{
		cfg:    cfg,
		opts:   opts,
		logger: log.Or(opts.Logger).With("component", "kiosk"),
	}, nil
}

// Init builds every component. Nothing touches the network yet.
func (a *App) Init() error {
	screen := image.Pt(a.cfg.Display.Width, a.cfg.Display.Height)

	source := a.opts.Source
	if a.cfg.Sensor.Mode == "listen" {
		source = sensor.Inbound{}
	}
	a.sensor = sensor.NewHub(source, a.logger)

	catalog, err := a.loadCatalog()
	if err != nil {
		return err
	}

	resolver := identity.New()
	a.registry = app.NewRegistry(app.Params{
		Resolution:  screen,
		Surface:     a.opts.Surface,
		ContentRoot: catalog.ContentRoot,
		Frames:      a.sensor,
		Subjects:    resolver,
		Logger:      a.logger,
	}, a.sensor, a.logger)
	if err := app.RegisterCatalog(a.registry, catalog, a.opts.Factories); err != nil {
		return fmt.Errorf("register apps: %w", err)
	}
	a.logger.Info("apps registered", "count", a.registry.Len(), "passive", len(a.registry.Passive()))

	a.metrics = metrics.New()
	a.metrics.WatchSensor(a.sensor.Stats)

	hostCfg := host.DefaultConfig()
	hostCfg.ScreensaverTimeout = a.cfg.Host.ScreensaverTimeout
	hostCfg.PauseHold = a.cfg.Host.PauseHold
	hostCfg.QuitHold = a.cfg.Host.QuitHold
	hostCfg.BreakPassiveOnRaise = a.cfg.Host.BreakPassiveOnRaise

	a.host = host.New(a.registry, host.Options{
		Config:   hostCfg,
		Screen:   screen,
		Resolver: resolver,
		Frames:   a.sensor,
		Metrics:  a.metrics,
		OnEvent:  a.publishEvent,
		Logger:   a.logger,
	})

	var dashboard Dashboard
	if a.cfg.Dashboard.Enabled {
		opts := web.Options{
			Port:      a.cfg.Dashboard.Port,
			CameraFPS: a.cfg.Dashboard.CameraFPS,
			Host:      a.host,
			Apps:      a.registry,
			Metrics:   a.metrics.Handler(),
			Logger:    a.logger,
		}
		if a.cfg.Sensor.Mode == "listen" {
			opts.Sensor = a.sensor
		}
		a.web = web.NewServer(opts)
		a.metrics.WatchClients("status", a.web.StatusHub().ClientCount)
		a.metrics.WatchClients("logs", a.web.LogHub().ClientCount)
		a.metrics.WatchClients("camera", a.web.CameraHub().ClientCount)
		dashboard = a.web
	}

	a.runner = NewRunner(RunnerOptions{
		Interval:  a.cfg.FrameInterval(),
		Sensor:    a.sensor,
		Host:      a.host,
		Surface:   a.opts.Surface,
		Dashboard: dashboard,
		Logger:    a.logger,
	})
	return nil
}

func (a *App) publishEvent(e host.Event) {
	if a.web != nil {
		a.web.PublishEvent(e)
	}
}

func (a *App) loadCatalog() (*app.Catalog, error) {
	catalog, err := app.LoadCatalog(a.cfg.Apps.Catalog)
	if errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("no app catalog, enabling defaults", "path", a.cfg.Apps.Catalog)
		return app.DefaultCatalog(a.cfg.Apps.ContentRoot, a.opts.DefaultApps...), nil
	}
	if err != nil {
		return nil, err
	}
	if catalog.ContentRoot == "" {
		catalog.ContentRoot = a.cfg.Apps.ContentRoot
	}
	return catalog, nil
}

// Run starts the sensor and dashboard, then runs the frame loop until ctx
// is done. A sensor that cannot be reached is fatal.
func (a *App) Run(ctx context.Context) error {
	if a.runner == nil {
		return errors.New("kiosk not initialized")
	}
	if err := a.sensor.Start(ctx); err != nil {
		return err
	}
	if a.web != nil {
		a.web.StartAsync(ctx)
	}
	return a.runner.Run(ctx)
}

// Host returns the host. Nil before Init.
func (a *App) Host() *host.Host { return a.host }

// Registry returns the app registry. Nil before Init.
func (a *App) Registry() *app.Registry { return a.registry }

// Shutdown stops the dashboard and the sensor.
func (a *App) Shutdown() {
	if a.web != nil {
		if err := a.web.Shutdown(); err != nil {
			a.logger.Warn("dashboard shutdown", "error", err)
		}
	}
	if a.sensor != nil {
		if err := a.sensor.Stop(); err != nil && !errors.Is(err, sensor.ErrNotStarted) {
			a.logger.Warn("sensor shutdown", "error", err)
		}
	}
	a.logger.Info("kiosk stopped", "uptime", a.uptime())
}

func (a *App) uptime() time.Duration {
	if a.host == nil {
		return 0
	}
	return a.host.Elapsed().Round(time.Second)
}
