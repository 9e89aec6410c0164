package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/app"
	"github.com/teslashibe/go-kiosk/pkg/host"
	"github.com/teslashibe/go-kiosk/pkg/protocol"
	"github.com/teslashibe/go-kiosk/pkg/sensor"
)

type fakeHost struct {
	mu      sync.Mutex
	status  host.Status
	events  []host.Event
	started []string
	stops   int
}

func (f *fakeHost) Status() host.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeHost) Events(n int) []host.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= 0 || n > len(f.events) {
		n = len(f.events)
	}
	return append([]host.Event(nil), f.events[len(f.events)-n:]...)
}

func (f *fakeHost) Start(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != "depth" {
		return fmt.Errorf("%w: %s", app.ErrUnknownApp, name)
	}
	f.started = append(f.started, name)
	return nil
}

func (f *fakeHost) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.status.Mode.Running() {
		return host.ErrNotRunning
	}
	f.stops++
	return nil
}

type fakeApps []app.Descriptor

func (f fakeApps) Names() []string {
	names := []string{"skeleton", "depth"}
	return names[:len(f)]
}

func (f fakeApps) Descriptors() []app.Descriptor { return f }

type fakeSink struct {
	mu        sync.Mutex
	skeletons [][]sensor.Candidate
	statuses  []sensor.Status
}

func (f *fakeSink) PushSkeleton(c []sensor.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skeletons = append(f.skeletons, c)
}

func (f *fakeSink) PushColor(int, int, sensor.PixelFormat, []byte) error { return nil }
func (f *fakeSink) PushDepth(int, int, []int16) error                    { return nil }

func (f *fakeSink) SetStatus(s sensor.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, s)
}

func (f *fakeSink) skeletonCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.skeletons)
}

func (f *fakeSink) lastStatus() sensor.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return sensor.Status{}
	}
	return f.statuses[len(f.statuses)-1]
}

func newTestServer(port string, sink sensor.Sink) (*Server, *fakeHost) {
	h := &fakeHost{
		status: host.Status{Mode: host.Browsing, Selected: -1},
		events: []host.Event{
			{Kind: host.EventStarted, App: "Depth Test", Message: "run 1"},
			{Kind: host.EventStopped, App: "Depth Test", Message: host.ReasonQuit},
		},
	}
	apps := fakeApps{
		{Name: "Kinect Test", Author: "kiosk"},
		{Name: "Depth Test", Author: "kiosk", Passive: true, SuggestedSeconds: 30},
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "kiosk_frames_total 7\n")
	})
	s := NewServer(Options{
		Port:      port,
		CameraFPS: 5,
		Host:      h,
		Apps:      apps,
		Metrics:   metrics,
		Sensor:    sink,
		Logger:    log.Discard(),
	})
	return s, h
}

func getJSON(t *testing.T, s *Server, method, path string, v any) int {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer("0", nil)

	var got map[string]any
	code := getJSON(t, s, http.MethodGet, "/api/status", &got)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "browsing", got["mode"])
	assert.EqualValues(t, -1, got["selected"])
}

func TestHandleListApps(t *testing.T) {
	s, _ := newTestServer("0", nil)

	var got []AppInfo
	code := getJSON(t, s, http.MethodGet, "/api/apps", &got)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, got, 2)
	assert.Equal(t, AppInfo{ID: "depth", Index: 1, Name: "Depth Test", Author: "kiosk", Passive: true, SuggestedSeconds: 30}, got[1])
}

func TestHandleStartApp(t *testing.T) {
	s, h := newTestServer("0", nil)

	code := getJSON(t, s, http.MethodPost, "/api/apps/depth/start", nil)
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, []string{"depth"}, h.started)

	var body map[string]string
	code = getJSON(t, s, http.MethodPost, "/api/apps/nope/start", &body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body["error"], "nope")
}

func TestHandleStop(t *testing.T) {
	s, h := newTestServer("0", nil)

	assert.Equal(t, http.StatusConflict, getJSON(t, s, http.MethodPost, "/api/stop", nil))

	h.mu.Lock()
	h.status.Mode = host.RunningApp
	h.mu.Unlock()
	assert.Equal(t, http.StatusAccepted, getJSON(t, s, http.MethodPost, "/api/stop", nil))
	assert.Equal(t, 1, h.stops)
}

func TestHandleGetLogs(t *testing.T) {
	s, _ := newTestServer("0", nil)

	var all []host.Event
	getJSON(t, s, http.MethodGet, "/api/logs", &all)
	assert.Len(t, all, 2)

	var last []host.Event
	getJSON(t, s, http.MethodGet, "/api/logs?n=1", &last)
	require.Len(t, last, 1)
	assert.Equal(t, host.EventStopped, last[0].Kind)
}

func TestMetricsRoute(t *testing.T) {
	s, _ := newTestServer("0", nil)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "kiosk_frames_total 7")
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	s, _ := newTestServer("0", nil)
	code := getJSON(t, s, http.MethodGet, "/ws/status", nil)
	assert.Equal(t, http.StatusUpgradeRequired, code)
}

func TestCameraDueWithoutClients(t *testing.T) {
	s, _ := newTestServer("0", nil)
	assert.False(t, s.CameraDue())

	off := NewServer(Options{Host: &fakeHost{}, Apps: fakeApps{}, Logger: log.Discard()})
	assert.False(t, off.CameraDue())
}

func TestStatusStream(t *testing.T) {
	s, h := newTestServer("18093", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartAsync(ctx)
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18093/ws/status", nil)
	require.NoError(t, err)
	defer ws.Close()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first host.Status
	require.NoError(t, ws.ReadJSON(&first))
	assert.Equal(t, host.Browsing, first.Mode)

	assert.Eventually(t, func() bool { return s.StatusHub().ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.mu.Lock()
	h.status.Mode = host.PassiveAutoSelected
	h.status.App = "Depth Test"
	h.mu.Unlock()
	s.PublishStatus(h.Status())

	var next host.Status
	require.NoError(t, ws.ReadJSON(&next))
	assert.Equal(t, host.PassiveAutoSelected, next.Mode)
	assert.Equal(t, "Depth Test", next.App)
}

func TestLogStreamBacklog(t *testing.T) {
	s, _ := newTestServer("18094", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartAsync(ctx)
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18094/ws/logs", nil)
	require.NoError(t, err)
	defer ws.Close()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	for _, want := range []host.EventKind{host.EventStarted, host.EventStopped} {
		var e host.Event
		require.NoError(t, ws.ReadJSON(&e))
		assert.Equal(t, want, e.Kind)
	}

	assert.Eventually(t, func() bool { return s.LogHub().ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	s.PublishEvent(host.Event{Kind: host.EventScreensaver, Message: "no subject for 21s"})

	var live host.Event
	require.NoError(t, ws.ReadJSON(&live))
	assert.Equal(t, host.EventScreensaver, live.Kind)
}

func TestSensorBridge(t *testing.T) {
	sink := &fakeSink{}
	s, _ := newTestServer("18095", sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartAsync(ctx)
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18095/ws/sensor?device=kinect-1", nil)
	require.NoError(t, err)
	defer ws.Close()

	assert.Eventually(t, s.BridgeConnected, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return sink.lastStatus().Connected }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "kinect-1", sink.lastStatus().Device)

	// A second bridge is turned away.
	second, _, err := websocket.DefaultDialer.Dial("ws://localhost:18095/ws/sensor", nil)
	require.NoError(t, err)
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = second.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "err = %v", err)
	second.Close()
	assert.True(t, s.BridgeConnected())

	msg, err := protocol.NewSkeletonMessage(1, []protocol.BodyData{{
		Index: 0, TrackingID: 7, Tracked: true,
		Joints: map[string]protocol.JointData{"hand_right": {X: 0.1, Y: 0.2, Z: 1.5, State: "tracked"}},
	}})
	require.NoError(t, err)
	data, _ := msg.Bytes()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, data))

	// Malformed input is skipped without dropping the bridge.
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)))

	ping, err := protocol.NewMessage(protocol.TypePing, nil)
	require.NoError(t, err)
	data, _ = ping.Bytes()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, data))

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := ws.ReadMessage()
	require.NoError(t, err)
	pong, err := protocol.ParseMessage(reply)
	require.NoError(t, err)
	assert.Equal(t, protocol.TypePong, pong.Type)

	assert.Equal(t, 1, sink.skeletonCount())

	ws.Close()
	assert.Eventually(t, func() bool { return !s.BridgeConnected() }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, sink.lastStatus().Connected)
}
