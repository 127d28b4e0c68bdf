package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// PriceCachePrefix is the key prefix for cached listing prices
	PriceCachePrefix = "price:listing:"

	// PriceCacheTTL bounds staleness if an invalidation is ever missed
	PriceCacheTTL = 1 * time.Hour
)

// CachedPrice is the cached resolution of a listing's current price.
type CachedPrice struct {
	CurrentPrice   int64  `json:"current_price"`
	HasBids        bool   `json:"has_bids"`
	BidCount       int    `json:"bid_count"`
	BidderID       int64  `json:"bidder_id,omitempty"`
	BidderUsername string `json:"bidder_username,omitempty"`
}

// PriceCache caches resolved (current price, highest bidder) per listing.
// Entries are written on listing reads and dropped whenever a bid is
// accepted or the listing is closed. The cache is advisory: every caller
// must be able to fall through to the resolver.
type PriceCache interface {
	// Get returns the cached price. found=false on miss.
	Get(ctx context.Context, listingID int64) (price CachedPrice, found bool, err error)

	// Set stores the resolved price with a TTL.
	Set(ctx context.Context, listingID int64, price CachedPrice) error

	// Invalidate drops the cached price for a listing.
	Invalidate(ctx context.Context, listingID int64) error
}

// RedisPriceCache implements PriceCache on Redis.
type RedisPriceCache struct {
	client *redis.Client
}

// NewPriceCache creates a PriceCache backed by Redis.
func NewPriceCache(client *redis.Client) PriceCache {
	return &RedisPriceCache{client: client}
}

func priceKey(listingID int64) string {
	return fmt.Sprintf("%s%d", PriceCachePrefix, listingID)
}

func (c *RedisPriceCache) Get(ctx context.Context, listingID int64) (CachedPrice, bool, error) {
	var price CachedPrice

	data, err := c.client.Get(ctx, priceKey(listingID)).Bytes()
	if err == redis.Nil {
		return price, false, nil
	}
	if err != nil {
		return price, false, fmt.Errorf("get cached price: %w", err)
	}

	if err := json.Unmarshal(data, &price); err != nil {
		return price, false, fmt.Errorf("decode cached price: %w", err)
	}
	return price, true, nil
}

func (c *RedisPriceCache) Set(ctx context.Context, listingID int64, price CachedPrice) error {
	data, err := json.Marshal(price)
	if err != nil {
		return fmt.Errorf("encode cached price: %w", err)
	}

	if err := c.client.Set(ctx, priceKey(listingID), data, PriceCacheTTL).Err(); err != nil {
		return fmt.Errorf("set cached price: %w", err)
	}
	return nil
}

func (c *RedisPriceCache) Invalidate(ctx context.Context, listingID int64) error {
	if err := c.client.Del(ctx, priceKey(listingID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached price: %w", err)
	}
	return nil
}
