// Package metrics exposes kiosk counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

const namespace = "kiosk"

// Modes tracked by the mode gauge.
var Modes = []string{"browsing", "running", "paused", "passive"}

// Metrics holds the kiosk's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Apps
	AppStarts        *prometheus.CounterVec
	AppStops         *prometheus.CounterVec
	AppStartFailures *prometheus.CounterVec
	AppRunSeconds    *prometheus.HistogramVec

	// Host
	Mode         *prometheus.GaugeVec
	Frames       prometheus.Counter
	FrameSeconds prometheus.Histogram
	Subjects     prometheus.Gauge
}

// New creates the collectors and registers them with a fresh registry,
// along with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		AppStarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "app_starts_total",
				Help:      "Apps started, by app and whether the screensaver chose it.",
			},
			[]string{"app", "auto"},
		),
		AppStops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "app_stops_total",
				Help:      "Apps stopped, by app and reason.",
			},
			[]string{"app", "reason"},
		),
		AppStartFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "app_start_failures_total",
				Help:      "Apps that failed to load or initialize.",
			},
			[]string{"app"},
		),
		AppRunSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "app_run_seconds",
				Help:      "How long each app run lasted.",
				Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"app"},
		),

		Mode: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mode",
				Help:      "1 for the host's current mode, 0 otherwise.",
			},
			[]string{"mode"},
		),
		Frames: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_total",
				Help:      "Frames run by the host loop.",
			},
		),
		FrameSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "frame_interval_seconds",
				Help:      "Time between host frames.",
				Buckets:   []float64{.008, .016, .025, .033, .05, .1, .25},
			},
		),
		Subjects: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "subjects",
				Help:      "Bound subject slots.",
			},
		),
	}
	m.ModeChanged(Modes[0])
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// AppStarted counts a successful start.
func (m *Metrics) AppStarted(name string, auto bool) {
	m.AppStarts.WithLabelValues(name, strconv.FormatBool(auto)).Inc()
}

// AppStopped counts a stop and records the run length.
func (m *Metrics) AppStopped(name, reason string, ran time.Duration) {
	m.AppStops.WithLabelValues(name, reason).Inc()
	m.AppRunSeconds.WithLabelValues(name).Observe(ran.Seconds())
}

// StartFailed counts a failed start.
func (m *Metrics) StartFailed(name string) {
	m.AppStartFailures.WithLabelValues(name).Inc()
}

// ModeChanged sets the mode gauge.
func (m *Metrics) ModeChanged(mode string) {
	for _, name := range Modes {
		v := 0.0
		if name == mode {
			v = 1
		}
		m.Mode.WithLabelValues(name).Set(v)
	}
}

// Frame records one host frame.
func (m *Metrics) Frame(dt time.Duration, subjects int) {
	m.Frames.Inc()
	m.FrameSeconds.Observe(dt.Seconds())
	m.Subjects.Set(float64(subjects))
}

// WatchSensor exports the hub's frame counters.
func (m *Metrics) WatchSensor(stats func() sensor.Stats) {
	factory := promauto.With(m.registry)
	for kind, get := range map[string]func(sensor.Stats) uint64{
		"skeleton": func(s sensor.Stats) uint64 { return s.SkeletonFrames },
		"color":    func(s sensor.Stats) uint64 { return s.ColorFrames },
		"depth":    func(s sensor.Stats) uint64 { return s.DepthFrames },
	} {
		get := get
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "sensor_frames_total",
			Help:        "Sensor frames received, by kind.",
			ConstLabels: prometheus.Labels{"kind": kind},
		}, func() float64 { return float64(get(stats())) })
	}
}

// WatchClients exports the number of dashboard clients on a stream.
func (m *Metrics) WatchClients(stream string, count func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "dashboard_clients",
		Help:        "Connected dashboard websocket clients, by stream.",
		ConstLabels: prometheus.Labels{"stream": stream},
	}, func() float64 { return float64(count()) })
}
