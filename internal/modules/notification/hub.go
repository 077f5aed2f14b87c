package notification

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks connected dashboard clients and fans notifications out to all
// of them.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
	}
}

func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[clientID]; exists && oldConn != nil {
		_ = oldConn.Close()
	}

	h.connections[clientID] = conn
}

func (h *Hub) Unregister(clientID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[clientID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, clientID)
	}
}

// Broadcast sends message to every connected client and returns how many
// deliveries succeeded. Clients whose write fails are dropped.
func (h *Hub) Broadcast(message interface{}) int {
	h.mutex.RLock()
	targets := make(map[string]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		targets[id] = conn
	}
	h.mutex.RUnlock()

	delivered := 0
	for id, conn := range targets {
		if conn == nil {
			continue
		}
		if err := conn.WriteJSON(message); err != nil {
			h.Unregister(id)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for clientID, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, clientID)
	}
}
