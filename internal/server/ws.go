package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // The API is cross-origin by design.
	},
}

// StreamHandler pushes prediction records to WebSocket clients as frames
// are processed, so a UI can render the growing word without polling.
type StreamHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	send    chan []byte
}

// NewStreamHandler creates a new StreamHandler and starts its broadcaster.
func NewStreamHandler() *StreamHandler {
	h := &StreamHandler{
		clients: make(map[*websocket.Conn]bool),
		send:    make(chan []byte, 64),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish queues a prediction record for broadcast to all connected
// clients. The broadcaster goroutine is the only writer, since a
// websocket connection supports at most one concurrent writer. A full
// queue drops the record rather than stall frame processing.
func (h *StreamHandler) Publish(sessionID string, response *app.PredictionResponse) {
	if h.Clients() == 0 {
		return
	}

	msg, err := json.Marshal(map[string]any{
		"session":    sessionID,
		"prediction": response,
		"timestamp":  time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	select {
	case h.send <- msg:
	default:
	}
}

// broadcast sends queued records to all connected clients and evicts
// connections whose writes fail.
func (h *StreamHandler) broadcast() {
	for msg := range h.send {
		var dead []*websocket.Conn

		h.mu.RLock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				dead = append(dead, conn)
			}
		}
		h.mu.RUnlock()

		if len(dead) == 0 {
			continue
		}
		h.mu.Lock()
		for _, conn := range dead {
			delete(h.clients, conn)
			conn.Close()
		}
		h.mu.Unlock()
	}
}

// Clients returns the number of connected stream clients.
func (h *StreamHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
