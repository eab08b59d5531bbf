package eventhub

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/moyoez/qrshare-go/types"
)

// Hub holds WebSocket connections and broadcasts transfer events to all
// connected web UI clients. Each connection carries its own write mutex:
// gorilla/websocket allows at most one writer per Conn, and broadcasts
// fire from whichever handler goroutine produced the event.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]*sync.Mutex
}

// New creates a new event hub.
func New() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Register adds a WebSocket connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = &sync.Mutex{}
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Broadcast sends the event as JSON to all registered connections.
// Write failures are ignored; the read loop notices dead peers.
func (h *Hub) Broadcast(event *types.Event) {
	if event == nil {
		return
	}
	payload, err := sonic.Marshal(event)
	if err != nil {
		return
	}

	type target struct {
		conn    *websocket.Conn
		writeMu *sync.Mutex
	}
	h.mu.RLock()
	targets := make([]target, 0, len(h.conns))
	for c, wm := range h.conns {
		targets = append(targets, target{conn: c, writeMu: wm})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		t.writeMu.Lock()
		_ = t.conn.WriteMessage(websocket.TextMessage, payload)
		t.writeMu.Unlock()
	}
}
