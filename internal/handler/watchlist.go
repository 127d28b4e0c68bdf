package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"auctionbay/internal/httputil"
	"auctionbay/internal/model"
	"auctionbay/internal/service"
	"auctionbay/internal/transport/http/middleware"
)

type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// List handles GET /watchlist
// Returns the caller's watched listings with resolved current prices.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	listings, err := h.watchlistService.List(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] List watchlist handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to list watchlist")
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}
	httputil.WriteJSON(w, http.StatusOK, model.WatchlistResponse{Listings: listings})
}

// Watch handles PUT /watchlist/:listingID
// Adds the listing to the caller's watchlist. Watching twice is idempotent.
func (h *WatchlistHandler) Watch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	listingID, ok := parseWatchlistListingID(w, r)
	if !ok {
		return
	}

	if err := h.watchlistService.Watch(r.Context(), userID, listingID); err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			httputil.WriteNotFound(w, "Listing not found")
			return
		}
		log.Printf("[ERROR] Watch handler: user=%d listing=%d err=%v", userID, listingID, err)
		httputil.WriteInternalError(w, "Failed to watch listing")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"watching": true})
}

// Unwatch handles DELETE /watchlist/:listingID
// Removes the listing from the caller's watchlist. Removing an absent
// entry succeeds.
func (h *WatchlistHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	listingID, ok := parseWatchlistListingID(w, r)
	if !ok {
		return
	}

	if err := h.watchlistService.Unwatch(r.Context(), userID, listingID); err != nil {
		log.Printf("[ERROR] Unwatch handler: user=%d listing=%d err=%v", userID, listingID, err)
		httputil.WriteInternalError(w, "Failed to unwatch listing")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"watching": false})
}

func parseWatchlistListingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "listingID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid listing ID")
		return 0, false
	}
	return id, true
}
