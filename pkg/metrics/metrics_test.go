package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

func TestAppCounters(t *testing.T) {
	m := New()
	m.AppStarted("Depth Test", true)
	m.AppStarted("Depth Test", true)
	m.AppStarted("Kinect Test", false)
	m.StartFailed("Announcements")
	m.AppStopped("Depth Test", "hands_on_head", 45*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppStarts.WithLabelValues("Depth Test", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppStarts.WithLabelValues("Kinect Test", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppStartFailures.WithLabelValues("Announcements")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppStops.WithLabelValues("Depth Test", "hands_on_head")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AppRunSeconds))
}

func TestModeGauge(t *testing.T) {
	m := New()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mode.WithLabelValues("browsing")))

	m.ModeChanged("paused")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Mode.WithLabelValues("browsing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mode.WithLabelValues("paused")))
}

func TestFrame(t *testing.T) {
	m := New()
	m.Frame(16*time.Millisecond, 2)
	m.Frame(16*time.Millisecond, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Subjects))
}

func TestHandler(t *testing.T) {
	m := New()
	var stats sensor.Stats
	stats.SkeletonFrames = 12
	m.WatchSensor(func() sensor.Stats { return stats })
	m.WatchClients("status", func() int { return 3 })
	m.AppStarted("Depth Test", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	for _, want := range []string{
		`kiosk_app_starts_total{app="Depth Test",auto="false"} 1`,
		`kiosk_sensor_frames_total{kind="skeleton"} 12`,
		`kiosk_dashboard_clients{stream="status"} 3`,
		"go_goroutines",
	} {
		assert.True(t, strings.Contains(text, want), "missing %q", want)
	}
}
