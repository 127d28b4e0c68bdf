package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"auctionbay/internal/model"
)

type bidRepository struct {
	db *sqlx.DB
}

func NewBidRepository(db *sqlx.DB) BidRepository {
	return &bidRepository{db: db}
}

// Create appends a bid to the ledger. Runs inside the bid-acceptance
// transaction so the insert and the validation read commit together.
func (r *bidRepository) Create(ctx context.Context, tx *sqlx.Tx, bid *model.Bid) error {
	query := `
		INSERT INTO bids (listing_id, bidder_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := tx.QueryRowxContext(ctx, query,
		bid.ListingID,
		bid.BidderID,
		bid.Amount,
	).Scan(&bid.ID, &bid.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

// GetForListing returns the ledger in insertion order with bidder summaries.
func (r *bidRepository) GetForListing(ctx context.Context, listingID int64) ([]model.Bid, error) {
	query := `
		SELECT b.id, b.listing_id, b.bidder_id, b.amount, b.created_at,
		       u.id AS "bidder.id", u.username AS "bidder.username"
		FROM bids b
		JOIN users u ON u.id = b.bidder_id
		WHERE b.listing_id = $1
		ORDER BY b.id ASC
	`
	var bids []model.Bid
	err := r.db.SelectContext(ctx, &bids, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bids: %w", err)
	}
	return bids, nil
}

// GetLedger reads the ledger inside a transaction, without joins.
func (r *bidRepository) GetLedger(ctx context.Context, tx *sqlx.Tx, listingID int64) ([]model.Bid, error) {
	query := `
		SELECT id, listing_id, bidder_id, amount, created_at
		FROM bids
		WHERE listing_id = $1
		ORDER BY id ASC
	`
	var bids []model.Bid
	err := tx.SelectContext(ctx, &bids, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bid ledger: %w", err)
	}
	return bids, nil
}

// GetForListings batch-fetches ledgers for many listings in one query.
// Used to resolve current prices on index and watchlist pages without N+1.
func (r *bidRepository) GetForListings(ctx context.Context, listingIDs []int64) (map[int64][]model.Bid, error) {
	if len(listingIDs) == 0 {
		return map[int64][]model.Bid{}, nil
	}

	query := `
		SELECT id, listing_id, bidder_id, amount, created_at
		FROM bids
		WHERE listing_id = ANY($1)
		ORDER BY id ASC
	`
	var bids []model.Bid
	err := r.db.SelectContext(ctx, &bids, query, pq.Array(listingIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get bids for listings: %w", err)
	}

	result := make(map[int64][]model.Bid)
	for _, b := range bids {
		result[b.ListingID] = append(result[b.ListingID], b)
	}
	return result, nil
}
