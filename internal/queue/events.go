package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the auction stream
const (
	EventBidAccepted   = "bid_accepted"
	EventListingClosed = "listing_closed"
)

// Stream and consumer group for notification workers
const (
	StreamAuctions            = "stream:auctions"
	ConsumerGroupNotification = "notification_workers"
)

// AuctionEvent is an event published to the auction stream after a state
// change has been committed. Workers fan these out into per-user
// notification feeds.
type AuctionEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	ListingID int64 `json:"listing_id"`
	SellerID  int64 `json:"seller_id"`

	// Bid events
	BidderID     int64 `json:"bidder_id,omitempty"`
	Amount       int64 `json:"amount,omitempty"`
	PrevBidderID int64 `json:"prev_bidder_id,omitempty"` // outbid user, 0 for the first bid

	// Close events
	WinnerID   int64 `json:"winner_id,omitempty"` // highest bidder at close, 0 if no bids
	FinalPrice int64 `json:"final_price,omitempty"`
}

// NewBidAcceptedEvent creates an event for an accepted bid. The worker
// notifies the outbid user and everyone watching the listing.
func NewBidAcceptedEvent(listingID, sellerID, bidderID, amount, prevBidderID int64) AuctionEvent {
	return AuctionEvent{
		Type:         EventBidAccepted,
		Timestamp:    time.Now().Unix(),
		ListingID:    listingID,
		SellerID:     sellerID,
		BidderID:     bidderID,
		Amount:       amount,
		PrevBidderID: prevBidderID,
	}
}

// NewListingClosedEvent creates an event for a closed auction. The worker
// notifies the winner and everyone watching the listing.
func NewListingClosedEvent(listingID, sellerID, winnerID, finalPrice int64) AuctionEvent {
	return AuctionEvent{
		Type:       EventListingClosed,
		Timestamp:  time.Now().Unix(),
		ListingID:  listingID,
		SellerID:   sellerID,
		WinnerID:   winnerID,
		FinalPrice: finalPrice,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is serialized to JSON
// in a "data" field.
func (e AuctionEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseAuctionEvent parses an AuctionEvent from Redis stream message values.
func ParseAuctionEvent(values map[string]interface{}) (AuctionEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return AuctionEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event AuctionEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return AuctionEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
