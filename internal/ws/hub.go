package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event types pushed to listing subscribers.
const (
	EventBidPlaced     = "bid_placed"
	EventAuctionClosed = "auction_closed"
)

const writeTimeout = 10 * time.Second

// Event is a live update on a listing, fanned out to every subscriber of
// that listing.
type Event struct {
	Type           string    `json:"type"`
	ListingID      int64     `json:"listing_id"`
	Amount         int64     `json:"amount,omitempty"`
	BidderUsername string    `json:"bidder_username,omitempty"`
	CurrentPrice   int64     `json:"current_price"`
	At             time.Time `json:"at"`
}

// Hub maps listingID -> set of websocket connections watching that listing.
// Writes are serialized under the hub lock; gorilla connections do not allow
// concurrent writers.
type Hub struct {
	mu     sync.Mutex
	conns  map[int64]map[*websocket.Conn]struct{}
	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:  make(map[int64]map[*websocket.Conn]struct{}),
		logger: logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Register subscribes a connection to a listing's event stream.
func (h *Hub) Register(listingID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.conns[listingID]
	if !ok {
		m = make(map[*websocket.Conn]struct{})
		h.conns[listingID] = m
	}
	m[conn] = struct{}{}
}

// Unregister removes a connection.
func (h *Hub) Unregister(listingID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.conns[listingID]; ok {
		delete(m, conn)
		if len(m) == 0 {
			delete(h.conns, listingID)
		}
	}
}

// Publish sends the event to every subscriber of the listing. Connections
// that fail to take the write are dropped.
func (h *Hub) Publish(listingID int64, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Int64("listing_id", listingID).Msg("Failed to encode event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[listingID] {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("Dropping slow subscriber")
			conn.Close()
			delete(h.conns[listingID], conn)
		}
	}
}

// SubscriberCount reports how many connections watch a listing.
func (h *Hub) SubscriberCount(listingID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[listingID])
}
