package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// lunchHub fans the round snapshot out to every connected lunch-section
// client whenever the round mutates or the scheduler closes it.
type lunchHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newLunchHub() *lunchHub {
	return &lunchHub{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *lunchHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *lunchHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	_ = conn.Close()
}

// Send and Broadcast write while holding the hub lock; a connection
// tolerates only one writer at a time.
func (h *lunchHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *lunchHub) Broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleLunchWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("lunch websocket upgrade failed error=%v", err)
		return
	}
	s.hub.Add(conn)
	s.hub.Send(conn, s.roundSnapshot(s.engine.TodaySnapshot(), 0))

	go func() {
		defer s.hub.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
