package handler

import (
	"log"
	"net/http"
	"strconv"

	"auctionbay/internal/cache"
	"auctionbay/internal/httputil"
	"auctionbay/internal/model"
	"auctionbay/internal/transport/http/middleware"
)

type NotificationHandler struct {
	feed cache.NotificationFeed
}

func NewNotificationHandler(feed cache.NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// List handles GET /notifications?limit=N
// Returns the caller's notification feed, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	limit := cache.NotificationCap
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit")
			return
		}
		limit = parsed
	}

	notifications, err := h.feed.List(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[ERROR] List notifications handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to list notifications")
		return
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, model.NotificationListResponse{Notifications: notifications})
}
