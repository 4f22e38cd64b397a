package availability

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub fans out availability changes to websocket subscribers. A client
// subscribes to one accommodation and receives an event whenever a booking
// starts or stops occupying a date range on it.
type Hub struct {
	subscribers map[uuid.UUID]map[*websocket.Conn]struct{}
	mutex       sync.RWMutex
}

type AvailabilityEvent struct {
	AccommodationID uuid.UUID `json:"accommodation_id"`
	CheckInDate     string    `json:"check_in_date"`
	CheckOutDate    string    `json:"check_out_date"`
	Available       bool      `json:"available"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Subscribe(accommodationID uuid.UUID, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns, exists := h.subscribers[accommodationID]
	if !exists {
		conns = make(map[*websocket.Conn]struct{})
		h.subscribers[accommodationID] = conns
	}
	conns[conn] = struct{}{}
}

func (h *Hub) Unsubscribe(accommodationID uuid.UUID, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.subscribers[accommodationID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, accommodationID)
		}
	}
	_ = conn.Close()
}

// BroadcastAvailabilityChange implements the lifecycle broadcaster contract.
// Dead connections are dropped on write failure.
func (h *Hub) BroadcastAvailabilityChange(accommodationID uuid.UUID, checkIn, checkOut time.Time, available bool) {
	event := AvailabilityEvent{
		AccommodationID: accommodationID,
		CheckInDate:     checkIn.Format("2006-01-02"),
		CheckOutDate:    checkOut.Format("2006-01-02"),
		Available:       available,
		Timestamp:       time.Now().UTC(),
	}

	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers[accommodationID]))
	for conn := range h.subscribers[accommodationID] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("availability: dropping subscriber for %s: %v", accommodationID, err)
			h.Unsubscribe(accommodationID, conn)
		}
	}
}

func (h *Hub) SubscriberCount(accommodationID uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.subscribers[accommodationID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conns := range h.subscribers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.subscribers, id)
	}
}
