package model

import (
	"errors"
	"time"
)

// Bid is one entry in a listing's append-only bid ledger. Bids are never
// updated or deleted.
type Bid struct {
	ID        int64     `db:"id" json:"id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	BidderID  int64     `db:"bidder_id" json:"-"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Bidder *UserSummary `json:"bidder,omitempty"` // Joined field
}

// PlaceBidRequest is the request body for placing a bid.
type PlaceBidRequest struct {
	Amount int64 `json:"amount"`
}

// BidListResponse is a listing's bid ledger, oldest first.
type BidListResponse struct {
	Bids []Bid `json:"bids"`
}

// PriceQuote is the resolved effective price of a listing.
type PriceQuote struct {
	CurrentPrice  int64
	HighestBidder *UserSummary
	HasBids       bool
}

// ResolvePrice derives the current price of a listing from its starting bid
// and its bid ledger, in insertion order. With no bids the price is the
// starting bid and there is no highest bidder. Otherwise the price is the
// maximum amount, provided it has not fallen below the starting bid, and the
// highest bidder is the first bid in the ledger to reach that maximum.
func ResolvePrice(startingBid int64, bids []Bid) PriceQuote {
	quote := PriceQuote{CurrentPrice: startingBid}
	if len(bids) == 0 {
		return quote
	}

	quote.HasBids = true
	top := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > top.Amount {
			top = b
		}
	}

	if top.Amount >= startingBid {
		quote.CurrentPrice = top.Amount
	}
	if top.Bidder != nil {
		bidder := *top.Bidder
		quote.HighestBidder = &bidder
	} else {
		quote.HighestBidder = &UserSummary{ID: top.BidderID}
	}
	return quote
}

// AcceptBid decides whether a proposed amount is a valid next bid given the
// listing's starting bid and the resolved quote. The first bid must meet the
// starting bid; later bids must strictly exceed the current price.
func AcceptBid(amount int64, startingBid int64, quote PriceQuote) error {
	if amount < 0 {
		return ErrBidNegative
	}
	if !quote.HasBids {
		if amount < startingBid {
			return ErrBidBelowStarting
		}
		return nil
	}
	if amount <= quote.CurrentPrice {
		return ErrBidTooLow
	}
	return nil
}

// Bid errors
var (
	ErrBidNegative      = errors.New("bid must not be negative")
	ErrBidBelowStarting = errors.New("bid must be at least the starting bid")
	ErrBidTooLow        = errors.New("bid must exceed the current bid")
)
