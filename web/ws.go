package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mbocsi/growlink/controller"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Local tool, any origin may connect
	},
}

const writeTimeout = time.Second

// Hub fans controller events out to connected websocket clients. The
// hub mutex serializes all writes, so broadcasts from different relay
// goroutines never interleave on one connection.
type Hub struct {
	mu         sync.Mutex
	clients    map[*websocket.Conn]struct{}
	maxClients int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]struct{}),
		maxClients: 16,
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection", "error", err.Error())
		return
	}

	h.mu.Lock()
	if len(h.clients) >= h.maxClients {
		h.mu.Unlock()
		slog.Warn("Max websocket clients reached, rejecting connection", "remote_addr", r.RemoteAddr)
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	slog.Info("Websocket client connected", "remote_addr", r.RemoteAddr)

	// The feed is one-way; reads only detect the client going away.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if ok {
		conn.Close()
		slog.Info("Websocket client disconnected")
	}
}

// Broadcast sends one event to every connected client. Clients that
// cannot accept the write in time are dropped so the relay loops never
// stall on a stuck socket.
func (h *Hub) Broadcast(ev controller.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to encode event", "error", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Warn("Dropping websocket client", "error", err.Error())
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
