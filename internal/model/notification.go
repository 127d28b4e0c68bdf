package model

import "time"

// Notification types delivered to a user's notification feed.
const (
	NotificationOutbid        = "outbid"         // someone beat your bid
	NotificationWatchedBid    = "watched_bid"    // a watched listing got a new bid
	NotificationWatchedClosed = "watched_closed" // a watched listing ended
	NotificationWon           = "won"            // you had the highest bid when the auction closed
)

// Notification is one entry in a user's notification feed. The feed is a
// bounded, best-effort cache; notifications are not durable records.
type Notification struct {
	Type      string    `json:"type"`
	ListingID int64     `json:"listing_id"`
	Amount    int64     `json:"amount,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse is the notification feed response, newest first.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
}
