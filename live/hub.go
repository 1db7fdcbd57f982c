// Package live pushes reservation activity to connected admin consoles over websockets.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/tablemate/utils"
)

// Event types
const (
	EventReservationCreated = "reservation_created"
	EventReservationUpdated = "reservation_updated"
	EventReservationStatus  = "reservation_status"
	EventReservationDeleted = "reservation_deleted"
	EventNotification       = "notification"
	EventReminder           = "reservation_reminder"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events may queue for one client before it is dropped.
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client is one connected console. Only its writePump writes to conn.
type client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub holds every connected client and fans messages out to them. Publish never waits on
// a socket: a client whose queue is full is disconnected.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Serve upgrades the request and keeps the connection registered until the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	cl := &client{conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	if !h.register(cl) {
		conn.Close()
		return nil
	}

	go h.writePump(cl)
	go func() {
		defer h.unregister(cl)
		// Client tidak mengirim apa-apa; loop ini hanya mendeteksi koneksi terputus.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

func (h *Hub) writePump(cl *client) {
	defer cl.conn.Close()

	for payload := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("live: drop client %s: %v", cl.userID, err)
			h.unregister(cl)
			return
		}
	}

	code, reason := websocket.CloseNormalClosure, ""
	if h.isClosed() {
		code, reason = websocket.CloseGoingAway, "server shutting down"
	}
	_ = cl.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
}

func (h *Hub) register(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	utils.InfoLogger.Printf("live: client %s connected (%d total)", cl.userID, len(h.clients))
	return true
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(cl)
}

// removeLocked closes the client's queue; its writePump then closes the connection.
func (h *Hub) removeLocked(cl *client) {
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues an event for every client.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("live: marshal %s: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			utils.ErrorLogger.Printf("live: drop client %s: send queue full", cl.userID)
			h.removeLocked(cl)
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		h.removeLocked(cl)
	}
}
