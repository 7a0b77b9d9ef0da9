package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// RoomMessage is the payload fanned out to everyone subscribed to a
// ticket's room when a new thread message lands.
type RoomMessage struct {
	TicketID   int64     `json:"ticket_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Hub tracks websocket subscribers per ticket room. Rooms are keyed by
// ticket id; a connection joins exactly one room.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[int64]map[*websocket.Conn]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[int64]map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Join subscribes a connection to the ticket's room.
func (h *Hub) Join(ticketID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[ticketID]
	if !ok {
		room = make(map[*websocket.Conn]struct{})
		h.rooms[ticketID] = room
	}
	room[conn] = struct{}{}
}

// Leave removes a connection from the ticket's room.
func (h *Hub) Leave(ticketID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[ticketID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, ticketID)
	}
}

// Broadcast writes the message to every subscriber of its room. Write
// failures only log; a dead peer is cleaned up when its read loop ends.
func (h *Hub) Broadcast(msg RoomMessage) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[msg.TicketID]))
	for conn := range h.rooms[msg.TicketID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Warn("room broadcast write failed",
				zap.Int64("ticket_id", msg.TicketID),
				zap.Error(err))
		}
	}
}
