package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vango-dev/routetable/internal/errors"
)

// ReloadMessageType represents the type of reload message.
type ReloadMessageType string

const (
	ReloadTypeLoaded ReloadMessageType = "loaded"
	ReloadTypeError  ReloadMessageType = "error"
)

// ReloadMessage is sent to subscribers via WebSocket.
type ReloadMessage struct {
	Type       ReloadMessageType `json:"type"`
	Generation uint64            `json:"generation,omitempty"`
	Routes     int               `json:"routes,omitempty"`
	Source     string            `json:"source,omitempty"`
	Errors     []*errors.Error   `json:"errors,omitempty"`
}

// ReloadServer pushes table swaps and rejected reloads to WebSocket
// subscribers. A new subscriber first receives the latest message.
type ReloadServer struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	sendMu   sync.Mutex
	last     []byte
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewReloadServer creates a new reload server.
func NewReloadServer(logger *zap.Logger) *ReloadServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReloadServer{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Debug("reload upgrade failed", zap.Error(err))
		return
	}

	r.sendMu.Lock()
	if r.last != nil {
		if err := conn.WriteMessage(websocket.TextMessage, r.last); err != nil {
			r.sendMu.Unlock()
			conn.Close()
			return
		}
	}
	r.mu.Lock()
	r.clients[conn] = true
	r.mu.Unlock()
	r.sendMu.Unlock()

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.mu.Lock()
	delete(r.clients, conn)
	r.mu.Unlock()
	conn.Close()
}

// NotifyLoaded announces a published table.
func (r *ReloadServer) NotifyLoaded(generation uint64, routes int, source string) {
	r.broadcast(ReloadMessage{
		Type:       ReloadTypeLoaded,
		Generation: generation,
		Routes:     routes,
		Source:     source,
	})
}

// NotifyError announces a rejected reload.
func (r *ReloadServer) NotifyError(source string, errs []*errors.Error) {
	r.broadcast(ReloadMessage{
		Type:   ReloadTypeError,
		Source: source,
		Errors: errs,
	})
}

// broadcast sends a message to all connected clients.
func (r *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error("reload message encode failed", zap.Error(err))
		return
	}

	r.sendMu.Lock()
	defer r.sendMu.Unlock()
	r.last = data

	r.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}
	r.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			r.mu.Lock()
			delete(r.clients, client)
			r.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for client := range r.clients {
		client.Close()
		delete(r.clients, client)
	}
}
