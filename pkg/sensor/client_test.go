package sensor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/protocol"
)

func bridgeServer(t *testing.T, pongs chan<- *protocol.Message) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		skel, _ := protocol.NewSkeletonMessage(1, []protocol.BodyData{{
			TrackingID: 42,
			Tracked:    true,
			Joints: map[string]protocol.JointData{
				"hand_right": {X: 0.1, Y: 0.2, Z: 1.5, State: "tracked"},
			},
		}})
		status, _ := protocol.NewStatusMessage(true, "test-bridge")
		ping, _ := protocol.NewMessage(protocol.TypePing, nil)

		for _, msg := range []*protocol.Message{status, skel, ping} {
			data, _ := msg.Bytes()
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte("garbage"))

		_, data, err := conn.ReadMessage()
		if err == nil {
			if msg, err := protocol.ParseMessage(data); err == nil {
				pongs <- msg
			}
		}
		// Hold the connection until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestClient_PumpsIntoHub(t *testing.T) {
	pongs := make(chan *protocol.Message, 1)
	srv := bridgeServer(t, pongs)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	hub := NewHub(NewClient(url, time.Second, log.Discard()), log.Discard())
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer hub.Stop()

	deadline := time.Now().Add(2 * time.Second)
	var snap Snapshot
	for time.Now().Before(deadline) {
		snap = hub.Poll()
		if snap.Skeleton != nil && snap.Status.Connected {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := snap.Candidates()
	if len(got) != 1 || got[0].TrackingID != 42 {
		t.Fatalf("candidates = %+v, want tracking id 42", got)
	}
	if !got[0].IsTracked(HandRight) {
		t.Error("hand_right should be tracked")
	}
	if snap.Status.Device != "test-bridge" {
		t.Errorf("device = %q", snap.Status.Device)
	}

	select {
	case msg := <-pongs:
		if msg.Type != protocol.TypePong {
			t.Errorf("reply type = %s, want pong", msg.Type)
		}
	case <-time.After(2 * time.Second):
		t.Error("no pong received")
	}
}

func TestClient_DialFailure(t *testing.T) {
	hub := NewHub(NewClient("ws://127.0.0.1:1/skeleton", 200*time.Millisecond, log.Discard()), log.Discard())

	if err := hub.Start(context.Background()); !errors.Is(err, ErrSensorUnavailable) {
		t.Fatalf("Start() error = %v, want ErrSensorUnavailable", err)
	}
}
