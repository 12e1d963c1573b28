package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vikasavnish/carecoord/internal/models"
)

const writeWait = 5 * time.Second

// Broadcaster is the part of the hub the handlers and tasks depend on
type Broadcaster interface {
	Broadcast(msg models.Message)
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	mu sync.Mutex
	// Registered clients
	connections map[*websocket.Conn]struct{}
	// closed is set once Run has shut the hub down
	closed bool

	// Messages to be broadcast to all connected clients
	broadcast chan models.Message

	// Upgrader for HTTP connections to WebSocket
	upgrader websocket.Upgrader
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewHub creates a new hub for managing WebSocket connections
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	upgrader := websocket.Upgrader{
		// CORS is enforced on the HTTP API; push clients may connect from anywhere
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return &Hub{
		connections: make(map[*websocket.Conn]struct{}),
		broadcast:   make(chan models.Message, 64),
		upgrader:    upgrader,
		logger:      logger,
	}
}

// Run sends queued messages until ctx is done, then closes every client
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

func (h *Hub) send(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.connections {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(msg); err != nil {
			h.logger.Warn("Error sending message to client", "error", err)
			client.Close()
			delete(h.connections, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	h.closed = true
	for client := range h.connections {
		client.Close()
		delete(h.connections, client)
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// HandleWebSocket upgrades an HTTP connection to WebSocket
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Error upgrading to WebSocket", "error", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		ws.Close()
		return
	}
	h.connections[ws] = struct{}{}
	// Add happens under mu, before closeAll can observe the client
	h.wg.Add(1)
	h.mu.Unlock()

	// Read until the client goes away so closes are noticed
	go func() {
		defer h.wg.Done()
		defer ws.Close()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.connections, ws)
				h.mu.Unlock()
				return
			}
		}
	}()
}

// Broadcast queues a message for all connected clients. When the queue is
// full the message is dropped.
func (h *Hub) Broadcast(msg models.Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast queue full, dropping message", "type", msg.Type)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}
