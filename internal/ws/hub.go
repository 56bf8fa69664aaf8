package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is one wizard progress event pushed to a connected client:
// countdown ticks, photo upload completions and failures, submission results.
type Event struct {
	SessionID string      `json:"session_id"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
}

// Hub maintains active WebSocket clients grouped by wizard session and
// routes events to the clients watching that session.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if client.sessionID != event.SessionID {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify pushes a wizard event to the clients watching the given session.
// Implements the session notifier contract; never blocks the caller.
func (h *Hub) Notify(sessionID, event string, data any) {
	select {
	case h.broadcast <- &Event{SessionID: sessionID, Type: event, Data: data}:
	default:
		if h.log != nil {
			h.log.Warn("event feed full, dropping event",
				slog.String("session_id", sessionID),
				slog.String("type", event),
			)
		}
	}
}
