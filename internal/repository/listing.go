package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"auctionbay/internal/model"
)

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) ListingRepository {
	return &listingRepository{db: db}
}

// listingRow joins the seller and category denormalized columns onto a listing.
type listingRow struct {
	model.Listing
	SellerUsername string `db:"seller_username"`
	CategoryName   string `db:"category_name"`
}

func (row *listingRow) toListing() model.Listing {
	l := row.Listing
	l.Seller = &model.UserSummary{ID: l.SellerID, Username: row.SellerUsername}
	l.Category = &model.Category{ID: l.CategoryID, Name: row.CategoryName}
	return l
}

const listingColumns = `
	l.id, l.seller_id, l.title, l.description, l.category_id, l.image_url,
	l.starting_bid, l.active, l.closed_at, l.created_at, l.updated_at,
	u.username AS seller_username, c.name AS category_name
`

// Create inserts a new listing with active=true.
func (r *listingRepository) Create(ctx context.Context, l *model.Listing) error {
	query := `
		INSERT INTO listings (seller_id, title, description, category_id, image_url, starting_bid, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, active, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		l.SellerID,
		l.Title,
		l.Description,
		l.CategoryID,
		l.ImageURL,
		l.StartingBid,
	).Scan(&l.ID, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		JOIN categories c ON c.id = l.category_id
		WHERE l.id = $1
	`
	var row listingRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	listing := row.toListing()
	return &listing, nil
}

// GetByIDForUpdate locks the listing row. All bid acceptance goes through
// this lock, so two concurrent bids on the same listing are serialized and
// the second one validates against the first one's committed ledger.
func (r *listingRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Listing, error) {
	query := `
		SELECT id, seller_id, title, description, category_id, image_url,
		       starting_bid, active, closed_at, created_at, updated_at
		FROM listings
		WHERE id = $1
		FOR UPDATE
	`
	var listing model.Listing
	err := tx.GetContext(ctx, &listing, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to lock listing: %w", err)
	}
	return &listing, nil
}

func (r *listingRepository) ListActive(ctx context.Context) ([]model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		JOIN categories c ON c.id = l.category_id
		WHERE l.active = TRUE
		ORDER BY l.created_at DESC, l.id DESC
	`
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active listings: %w", err)
	}

	listings := make([]model.Listing, len(rows))
	for i := range rows {
		listings[i] = rows[i].toListing()
	}
	return listings, nil
}

func (r *listingRepository) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		JOIN categories c ON c.id = l.category_id
		WHERE l.active = TRUE AND l.category_id = $1
		ORDER BY l.created_at DESC, l.id DESC
	`
	var rows []listingRow
	err := r.db.SelectContext(ctx, &rows, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings by category: %w", err)
	}

	listings := make([]model.Listing, len(rows))
	for i := range rows {
		listings[i] = rows[i].toListing()
	}
	return listings, nil
}

// Close flips the active flag off. Only the seller may close, and closing an
// already-closed listing is rejected the same way as closing someone else's.
func (r *listingRepository) Close(ctx context.Context, listingID, sellerID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE listings SET active = FALSE, closed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND seller_id = $2 AND active = TRUE
	`, listingID, sellerID)
	if err != nil {
		return fmt.Errorf("failed to close listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var listing struct {
			SellerID int64 `db:"seller_id"`
			Active   bool  `db:"active"`
		}
		err := r.db.GetContext(ctx, &listing, `SELECT seller_id, active FROM listings WHERE id = $1`, listingID)
		if err == sql.ErrNoRows {
			return model.ErrListingNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check listing: %w", err)
		}
		if listing.SellerID != sellerID {
			return model.ErrNotSeller
		}
		return model.ErrListingClosed
	}
	return nil
}
