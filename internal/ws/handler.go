package ws

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"auctionbay/internal/httputil"
)

// Handler upgrades HTTP requests to websocket subscriptions on a listing.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is token-authenticated, not cookie-authenticated,
			// so cross-origin upgrades carry no ambient credentials.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "ws_handler").Logger(),
	}
}

// Subscribe handles GET /ws/listings/{id}. The connection receives a JSON
// event for every accepted bid and for the close of the auction. Client
// messages are discarded; the read loop only detects disconnects.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	listingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid listing ID")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	h.hub.Register(listingID, conn)
	h.logger.Debug().Int64("listing_id", listingID).Msg("Subscriber connected")

	defer func() {
		h.hub.Unregister(listingID, conn)
		conn.Close()
		h.logger.Debug().Int64("listing_id", listingID).Msg("Subscriber disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
