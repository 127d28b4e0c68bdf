package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"auctionbay/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create appends a comment to the listing's log.
func (r *commentRepository) Create(ctx context.Context, listingID, userID int64, text string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (listing_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, listing_id, user_id, text, created_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, listingID, userID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	return &comment, nil
}

// GetByListingID returns the comment log oldest first with author summaries.
func (r *commentRepository) GetByListingID(ctx context.Context, listingID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.listing_id, c.user_id, c.text, c.created_at,
		       u.id AS "author.id", u.username AS "author.username"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.listing_id = $1
		ORDER BY c.id ASC
	`
	var comments []model.Comment
	err := r.db.SelectContext(ctx, &comments, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	return comments, nil
}
