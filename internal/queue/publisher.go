package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event AuctionEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event AuctionEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s listing=%d msgID=%s",
		stream, event.Type, event.ListingID, messageID)
	return messageID, nil
}

// PublishBidAccepted is a convenience method for publishing bid events.
func (p *RedisPublisher) PublishBidAccepted(ctx context.Context, listingID, sellerID, bidderID, amount, prevBidderID int64) (string, error) {
	event := NewBidAcceptedEvent(listingID, sellerID, bidderID, amount, prevBidderID)
	return p.Publish(ctx, StreamAuctions, event)
}

// PublishListingClosed is a convenience method for publishing close events.
func (p *RedisPublisher) PublishListingClosed(ctx context.Context, listingID, sellerID, winnerID, finalPrice int64) (string, error) {
	event := NewListingClosedEvent(listingID, sellerID, winnerID, finalPrice)
	return p.Publish(ctx, StreamAuctions, event)
}
