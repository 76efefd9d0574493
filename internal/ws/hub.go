package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const EventPermissionsUpdated = "permissions.updated"

// Event is pushed to every connected client.
type Event struct {
	Type          string    `json:"type"`
	StaffID       uuid.UUID `json:"staff_id"`
	PermissionIDs []int     `json:"permission_ids"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 16),
		log:        log,
	}
}

// Notify queues event for broadcast. It never blocks: when the buffer is
// full the event is dropped and logged.
func (h *Hub) Notify(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("ws: failed to encode event")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.WithFields(logrus.Fields{
			"type":     event.Type,
			"staff_id": event.StaffID,
		}).Warn("ws: broadcast buffer full, event dropped")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws: client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}
