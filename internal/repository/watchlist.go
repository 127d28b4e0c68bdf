package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"auctionbay/internal/model"
)

type watchlistRepository struct {
	db *sqlx.DB
}

func NewWatchlistRepository(db *sqlx.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

// Add inserts the (user, listing) pair. The unique constraint plus
// ON CONFLICT DO NOTHING keeps the watchlist a set: a duplicate add reports
// false instead of creating a second row.
func (r *watchlistRepository) Add(ctx context.Context, userID, listingID int64) (bool, error) {
	query := `
		INSERT INTO watchlist (user_id, listing_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("failed to add watchlist entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Remove deletes all matching pairs. Removing an absent pair is a no-op.
func (r *watchlistRepository) Remove(ctx context.Context, userID, listingID int64) error {
	query := `DELETE FROM watchlist WHERE user_id = $1 AND listing_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Exists(ctx context.Context, userID, listingID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM watchlist WHERE user_id = $1 AND listing_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist entry: %w", err)
	}
	return exists, nil
}

// ListWatcherIDs returns every user watching a listing. Used by the
// notification worker to fan events out.
func (r *watchlistRepository) ListWatcherIDs(ctx context.Context, listingID int64) ([]int64, error) {
	query := `SELECT user_id FROM watchlist WHERE listing_id = $1`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchers: %w", err)
	}
	return ids, nil
}

// ListListings returns the listings a user watches, newest watch first.
func (r *watchlistRepository) ListListings(ctx context.Context, userID int64) ([]model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM watchlist w
		JOIN listings l ON l.id = w.listing_id
		JOIN users u ON u.id = l.seller_id
		JOIN categories c ON c.id = l.category_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, l.id DESC
	`
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched listings: %w", err)
	}

	listings := make([]model.Listing, len(rows))
	for i := range rows {
		listings[i] = rows[i].toListing()
		listings[i].IsWatched = true
	}
	return listings, nil
}
