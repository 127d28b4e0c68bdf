package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"auctionbay/internal/cache"
	"auctionbay/internal/model"
	"auctionbay/internal/queue"
)

// WatcherProvider returns the users watching a listing. This abstracts the
// repository layer so workers don't depend on the DB package directly.
type WatcherProvider interface {
	ListWatcherIDs(ctx context.Context, listingID int64) ([]int64, error)
}

// Handler processes auction events from the queue and fans them out into
// per-user notification feeds.
type Handler struct {
	feed     cache.NotificationFeed
	watchers WatcherProvider
}

// NewHandler creates a new event handler.
func NewHandler(feed cache.NotificationFeed, watchers WatcherProvider) *Handler {
	return &Handler{feed: feed, watchers: watchers}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.AuctionEvent) error {
	switch event.Type {
	case queue.EventBidAccepted:
		return h.handleBidAccepted(ctx, event)
	case queue.EventListingClosed:
		return h.handleListingClosed(ctx, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

// handleBidAccepted notifies the outbid user and the listing's watchers.
func (h *Handler) handleBidAccepted(ctx context.Context, event queue.AuctionEvent) error {
	at := time.Unix(event.Timestamp, 0)

	if event.PrevBidderID > 0 && event.PrevBidderID != event.BidderID {
		h.push(ctx, event.PrevBidderID, model.Notification{
			Type:      model.NotificationOutbid,
			ListingID: event.ListingID,
			Amount:    event.Amount,
			CreatedAt: at,
		})
	}

	watchers, err := h.watchers.ListWatcherIDs(ctx, event.ListingID)
	if err != nil {
		return fmt.Errorf("list watchers: %w", err)
	}

	for _, userID := range watchers {
		// The bidder knows; the outbid user was already notified above
		if userID == event.BidderID || userID == event.PrevBidderID {
			continue
		}
		h.push(ctx, userID, model.Notification{
			Type:      model.NotificationWatchedBid,
			ListingID: event.ListingID,
			Amount:    event.Amount,
			CreatedAt: at,
		})
	}
	return nil
}

// handleListingClosed notifies the winner and the listing's watchers.
func (h *Handler) handleListingClosed(ctx context.Context, event queue.AuctionEvent) error {
	at := time.Unix(event.Timestamp, 0)

	if event.WinnerID > 0 {
		h.push(ctx, event.WinnerID, model.Notification{
			Type:      model.NotificationWon,
			ListingID: event.ListingID,
			Amount:    event.FinalPrice,
			CreatedAt: at,
		})
	}

	watchers, err := h.watchers.ListWatcherIDs(ctx, event.ListingID)
	if err != nil {
		return fmt.Errorf("list watchers: %w", err)
	}

	for _, userID := range watchers {
		if userID == event.WinnerID {
			continue
		}
		h.push(ctx, userID, model.Notification{
			Type:      model.NotificationWatchedClosed,
			ListingID: event.ListingID,
			Amount:    event.FinalPrice,
			CreatedAt: at,
		})
	}
	return nil
}

// push delivers one notification. Per-user failures are logged and skipped
// so one broken feed doesn't stall the fan-out.
func (h *Handler) push(ctx context.Context, userID int64, n model.Notification) {
	if err := h.feed.Push(ctx, userID, n); err != nil {
		log.Printf("[Worker] Push failed: user=%d type=%s err=%v", userID, n.Type, err)
	}
}
