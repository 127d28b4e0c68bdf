package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"auctionbay/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	// GetByIDForUpdate locks the listing row for the duration of the
	// transaction, serializing bid acceptance per listing.
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Listing, error)
	ListActive(ctx context.Context) ([]model.Listing, error)
	ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Listing, error)
	// Close flips active to false. The transition is one-way and only the
	// seller may trigger it.
	Close(ctx context.Context, listingID, sellerID int64) error
}

type BidRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, bid *model.Bid) error
	// GetForListing returns the full ledger in insertion order with bidder
	// summaries joined in.
	GetForListing(ctx context.Context, listingID int64) ([]model.Bid, error)
	// GetLedger reads the ledger inside the bid-acceptance transaction.
	GetLedger(ctx context.Context, tx *sqlx.Tx, listingID int64) ([]model.Bid, error)
	// GetForListings batch-fetches ledgers for many listings in one query.
	GetForListings(ctx context.Context, listingIDs []int64) (map[int64][]model.Bid, error)
}

type WatchlistRepository interface {
	// Add inserts the pair; returns false when it was already present.
	Add(ctx context.Context, userID, listingID int64) (bool, error)
	// Remove deletes the pair; removing an absent pair is a no-op.
	Remove(ctx context.Context, userID, listingID int64) error
	Exists(ctx context.Context, userID, listingID int64) (bool, error)
	ListListings(ctx context.Context, userID int64) ([]model.Listing, error)
	// ListWatcherIDs returns the IDs of every user watching a listing.
	ListWatcherIDs(ctx context.Context, listingID int64) ([]int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, listingID, userID int64, text string) (*model.Comment, error)
	GetByListingID(ctx context.Context, listingID int64) ([]model.Comment, error)
}
