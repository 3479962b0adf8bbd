package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/cdrpl/missions"
	. "github.com/cdrpl/missions/internal/server"
)

func TestWsHubShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := CreateWsHub("", zap.NewNop())
	go hub.Run()

	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expect 0 clients, received: %v", count)
	}

	hub.Shutdown()

	// publishing after shutdown must not block
	hub.Publish("user", missions.Event{Type: missions.EventMissionsChanged})
	hub.Broadcast(missions.Event{Type: missions.EventMissionsReset})
}

// Dials /ws on the test server with the credential cookie.
func dialEvents(t *testing.T, server *httptest.Server, cookie *http.Cookie) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	header := http.Header{}
	header.Add("Cookie", cookie.String())

	conn, res, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	res.Body.Close()

	return conn
}

func waitForClients(t *testing.T, hub *WsHub, count int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != count {
		if time.Now().After(deadline) {
			t.Fatalf("expect %v connected clients, received: %v", count, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketEvents(t *testing.T) {
	ts := createTestServer(t)
	cookie := ts.signUp(t, "user", "user@example.com")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	conn := dialEvents(t, server, cookie)
	defer conn.Close()

	waitForClients(t, ts.hub, 1)

	// a mutation pushes missions_changed to the owner
	ts.do(t, "POST", "/daily", map[string]interface{}{"title": "Read"}, cookie)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var event missions.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatal(err)
	}

	if event.Type != missions.EventMissionsChanged || event.MissionID == "" {
		t.Errorf("expect %v with a mission id, received: %+v", missions.EventMissionsChanged, event)
	}

	ts.hub.Broadcast(missions.Event{Type: missions.EventMissionsReset})

	if err := conn.ReadJSON(&event); err != nil {
		t.Fatal(err)
	}

	if event.Type != missions.EventMissionsReset {
		t.Errorf("expect %v, received: %+v", missions.EventMissionsReset, event)
	}
}

func TestWebSocketRequiresToken(t *testing.T) {
	ts := createTestServer(t)

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expect dial without a cookie to fail")
	}

	if res == nil || res.StatusCode != http.StatusUnauthorized {
		t.Errorf("expect status 401, received: %v", res)
	}
}
