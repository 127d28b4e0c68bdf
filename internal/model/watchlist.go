package model

import "time"

// WatchlistEntry is a (user, listing) pair; presence means "watching".
// The pair is unique at the data layer, so the watchlist behaves as a set:
// adding twice collapses to one entry and removing an absent entry is a no-op.
type WatchlistEntry struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WatchlistResponse is the watched-listings response, each listing carrying
// its resolved current price.
type WatchlistResponse struct {
	Listings []Listing `json:"listings"`
}
