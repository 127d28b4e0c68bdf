package worker_test

import (
	"context"
	"sync"
	"testing"

	"auctionbay/internal/model"
	"auctionbay/internal/queue"
	"auctionbay/internal/worker"
)

// mockNotificationFeed records pushed notifications per user.
type mockNotificationFeed struct {
	mu    sync.Mutex
	feeds map[int64][]model.Notification
}

func newMockNotificationFeed() *mockNotificationFeed {
	return &mockNotificationFeed{feeds: make(map[int64][]model.Notification)}
}

func (m *mockNotificationFeed) Push(ctx context.Context, userID int64, n model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feeds[userID] = append([]model.Notification{n}, m.feeds[userID]...)
	return nil
}

func (m *mockNotificationFeed) List(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	feed := m.feeds[userID]
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

func (m *mockNotificationFeed) types(userID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var types []string
	for _, n := range m.feeds[userID] {
		types = append(types, n.Type)
	}
	return types
}

// mockWatcherProvider maps listingID -> watcher IDs.
type mockWatcherProvider struct {
	watchers map[int64][]int64
}

func (m *mockWatcherProvider) ListWatcherIDs(ctx context.Context, listingID int64) ([]int64, error) {
	return m.watchers[listingID], nil
}

func TestHandleBidAccepted(t *testing.T) {
	feed := newMockNotificationFeed()
	watchers := &mockWatcherProvider{watchers: map[int64][]int64{
		// 4 was outbid and also watches; 5 only watches; 3 is the bidder
		7: {3, 4, 5},
	}}
	h := worker.NewHandler(feed, watchers)

	event := queue.NewBidAcceptedEvent(7, 1, 3, 150, 4)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// The outbid user gets exactly one notification, the outbid one,
	// even though they also watch the listing
	if got := feed.types(4); len(got) != 1 || got[0] != model.NotificationOutbid {
		t.Errorf("user 4 notifications = %v, want [outbid]", got)
	}

	// A plain watcher is told about the new bid
	if got := feed.types(5); len(got) != 1 || got[0] != model.NotificationWatchedBid {
		t.Errorf("user 5 notifications = %v, want [watched_bid]", got)
	}

	// The bidder is not notified about their own bid
	if got := feed.types(3); len(got) != 0 {
		t.Errorf("user 3 notifications = %v, want none", got)
	}
}

func TestHandleBidAccepted_FirstBid(t *testing.T) {
	feed := newMockNotificationFeed()
	watchers := &mockWatcherProvider{watchers: map[int64][]int64{7: {5}}}
	h := worker.NewHandler(feed, watchers)

	// prevBidderID 0 means nobody was outbid
	event := queue.NewBidAcceptedEvent(7, 1, 3, 100, 0)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := feed.types(5); len(got) != 1 || got[0] != model.NotificationWatchedBid {
		t.Errorf("user 5 notifications = %v, want [watched_bid]", got)
	}
	if got := feed.types(0); len(got) != 0 {
		t.Errorf("user 0 notifications = %v, want none", got)
	}
}

func TestHandleListingClosed(t *testing.T) {
	feed := newMockNotificationFeed()
	watchers := &mockWatcherProvider{watchers: map[int64][]int64{
		// 3 won and also watches; 5 only watches
		7: {3, 5},
	}}
	h := worker.NewHandler(feed, watchers)

	event := queue.NewListingClosedEvent(7, 1, 3, 150)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := feed.types(3); len(got) != 1 || got[0] != model.NotificationWon {
		t.Errorf("winner notifications = %v, want [won]", got)
	}
	if got := feed.types(5); len(got) != 1 || got[0] != model.NotificationWatchedClosed {
		t.Errorf("watcher notifications = %v, want [watched_closed]", got)
	}
}

func TestHandleListingClosed_NoBids(t *testing.T) {
	feed := newMockNotificationFeed()
	watchers := &mockWatcherProvider{watchers: map[int64][]int64{7: {5}}}
	h := worker.NewHandler(feed, watchers)

	event := queue.NewListingClosedEvent(7, 1, 0, 50)
	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := feed.types(5); len(got) != 1 || got[0] != model.NotificationWatchedClosed {
		t.Errorf("watcher notifications = %v, want [watched_closed]", got)
	}
}

func TestHandleUnknownEventType(t *testing.T) {
	h := worker.NewHandler(newMockNotificationFeed(), &mockWatcherProvider{})

	err := h.HandleEvent(context.Background(), queue.AuctionEvent{Type: "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
}
