package live

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesConnectedClients(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "admin-1")
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(EventReservationStatus, map[string]string{"id": "r1", "status": "confirmed"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventReservationStatus, msg.Event)
	assert.Equal(t, "confirmed", msg.Data["status"])
}

func TestDisconnectedClientIsRemoved(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "admin-1")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func (h *Hub) connected(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		if cl.userID == userID {
			return true
		}
	}
	return false
}

func TestStalledClientDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("user"))
	}))
	defer server.Close()
	base := "ws" + strings.TrimPrefix(server.URL, "http")

	// never reads, so its socket fills up
	stalled, _, err := websocket.DefaultDialer.Dial(base+"?user=stalled", nil)
	require.NoError(t, err)
	defer stalled.Close()
	require.Eventually(t, func() bool { return hub.connected("stalled") }, time.Second, 10*time.Millisecond)

	big := strings.Repeat("x", 512<<10)
	start := time.Now()
	for i := 0; i < 64; i++ {
		hub.Publish(EventNotification, big)
	}
	assert.Less(t, time.Since(start), 2*time.Second)

	healthy, _, err := websocket.DefaultDialer.Dial(base+"?user=admin-2", nil)
	require.NoError(t, err)
	defer healthy.Close()
	require.Eventually(t, func() bool { return hub.connected("admin-2") }, time.Second, 10*time.Millisecond)

	hub.Publish(EventReservationStatus, map[string]string{"id": "r2"})
	require.NoError(t, healthy.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := healthy.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), EventReservationStatus)
}

func TestCloseDisconnectsClientsAndRefusesNewOnes(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "admin-1")
	}))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Zero(t, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)

	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer late.Close()
	hub.Publish(EventNotification, "after close")
	assert.Zero(t, hub.ClientCount())
}
