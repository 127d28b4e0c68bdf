package model

import (
	"errors"
	"strings"
	"time"
)

// Listing represents a sellable item put up for auction.
type Listing struct {
	ID          int64      `db:"id" json:"id"`
	SellerID    int64      `db:"seller_id" json:"seller_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	CategoryID  int64      `db:"category_id" json:"category_id"`
	ImageURL    *string    `db:"image_url" json:"image_url,omitempty"`
	StartingBid int64      `db:"starting_bid" json:"starting_bid"`
	Active      bool       `db:"active" json:"active"`
	ClosedAt    *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Joined fields (not in listings table)
	Seller        *UserSummary `json:"seller,omitempty"`
	Category      *Category    `json:"category,omitempty"`
	CurrentPrice  int64        `json:"current_price"`
	HighestBidder *UserSummary `json:"highest_bidder,omitempty"`
	BidCount      int          `json:"bid_count"`
	IsWatched     bool         `json:"is_watched"`
}

// IsOpen reports whether the listing still accepts bids.
func (l *Listing) IsOpen() bool {
	return l.Active
}

// CreateListingRequest is the request body for creating a listing.
type CreateListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"category_id"`
	ImageURL    *string `json:"image_url,omitempty"`
	StartingBid int64   `json:"starting_bid"`
}

// Validate checks the field constraints that do not need a database lookup.
func (r *CreateListingRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	if len(r.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(r.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if r.CategoryID <= 0 {
		return ErrCategoryRequired
	}
	if r.StartingBid < 0 {
		return ErrStartingBidNegative
	}
	return nil
}

// ListingListResponse is the listing collection response.
type ListingListResponse struct {
	Listings []Listing `json:"listings"`
}

// Listing constraints
const (
	MaxTitleLength       = 64
	MaxDescriptionLength = 5000
)

// Listing errors
var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrNotSeller           = errors.New("not the seller of this listing")
	ErrListingClosed       = errors.New("listing is closed")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title too long")
	ErrDescriptionTooLong  = errors.New("description too long")
	ErrCategoryRequired    = errors.New("category is required")
	ErrStartingBidNegative = errors.New("starting bid must not be negative")
)
