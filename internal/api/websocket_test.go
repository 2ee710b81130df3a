package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialWS connects a test WebSocket client to the server's /ws endpoint.
func dialWS(t *testing.T, s *Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestWebSocketBroadcast(t *testing.T) {
	s := newTestServer(t)
	go s.hub.Run()

	conn, _, err := dialWS(t, s, "")
	if err != nil {
		t.Fatalf("dial /ws unexpected error: %v", err)
	}
	defer conn.Close()

	// Wait for registration before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.hub.BroadcastProgress("analyze", "anchors", "anchor 2/5", 42)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage unexpected error: %v", err)
	}

	var msg ProgressMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("broadcast not valid JSON: %v", err)
	}
	if msg.Type != "progress" || msg.Progress != 42 {
		t.Errorf("message = %+v, want progress 42", msg)
	}
	if msg.Timestamp == "" {
		t.Error("broadcast missing timestamp")
	}
}

// TestWebSocketThroughMiddleware upgrades via the full Handler() chain. The
// logging middleware's writer wrapper must pass the http.Hijacker assertion
// gorilla makes during the upgrade, or every production /ws dial fails.
func TestWebSocketThroughMiddleware(t *testing.T) {
	s := newTestServer(t)
	go s.hub.Run()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial /ws through middleware = %v (status %d)", err, status)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.hub.BroadcastProgress("analyze", "anchors", "anchor 1/5", 26)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage unexpected error: %v", err)
	}
	var msg ProgressMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("broadcast not valid JSON: %v", err)
	}
	if msg.Progress != 26 {
		t.Errorf("progress = %d, want 26", msg.Progress)
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	s := newTestServer(t)
	s.cfg.AllowedOrigins = []string{"https://keystone.example"}
	go s.hub.Run()

	// Unlisted browser origin is refused at upgrade.
	if _, _, err := dialWS(t, s, "https://evil.example"); err == nil {
		t.Error("dial with unlisted origin expected to fail")
	}

	// Listed origin connects.
	conn, _, err := dialWS(t, s, "https://keystone.example")
	if err != nil {
		t.Fatalf("dial with listed origin unexpected error: %v", err)
	}
	conn.Close()

	// Non-browser clients send no Origin header and are allowed.
	conn, _, err = dialWS(t, s, "")
	if err != nil {
		t.Fatalf("dial without origin unexpected error: %v", err)
	}
	conn.Close()
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- client

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Nothing reads from the client's unbuffered channel, so the first
	// broadcast evicts it.
	hub.BroadcastProgress("analyze", "anchors", "stall", 1)

	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client never evicted")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
