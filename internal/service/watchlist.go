package service

import (
	"context"

	"github.com/rs/zerolog"

	"auctionbay/internal/model"
	"auctionbay/internal/repository"
)

// WatchlistService handles the user's saved-listings set.
type WatchlistService struct {
	watchRepo   repository.WatchlistRepository
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
	logger      zerolog.Logger
}

func NewWatchlistService(
	watchRepo repository.WatchlistRepository,
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
	logger zerolog.Logger,
) *WatchlistService {
	return &WatchlistService{
		watchRepo:   watchRepo,
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
		logger:      logger.With().Str("component", "watchlist_service").Logger(),
	}
}

// Watch adds the listing to the user's watchlist. Watching an already
// watched listing is idempotent.
func (s *WatchlistService) Watch(ctx context.Context, userID, listingID int64) error {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return err
	}

	inserted, err := s.watchRepo.Add(ctx, userID, listingID)
	if err != nil {
		return err
	}
	if !inserted {
		s.logger.Debug().Int64("user_id", userID).Int64("listing_id", listingID).Msg("Already watching")
	}
	return nil
}

// Unwatch removes the listing from the user's watchlist. Removing an entry
// that was never added is a no-op, not an error.
func (s *WatchlistService) Unwatch(ctx context.Context, userID, listingID int64) error {
	return s.watchRepo.Remove(ctx, userID, listingID)
}

// IsWatching reports whether the listing is on the user's watchlist.
func (s *WatchlistService) IsWatching(ctx context.Context, userID, listingID int64) (bool, error) {
	return s.watchRepo.Exists(ctx, userID, listingID)
}

// List returns the user's watched listings with resolved current prices.
func (s *WatchlistService) List(ctx context.Context, userID int64) ([]model.Listing, error) {
	listings, err := s.watchRepo.ListListings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return listings, nil
	}

	ids := make([]int64, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
	}

	ledgers, err := s.bidRepo.GetForListings(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range listings {
		bids := ledgers[listings[i].ID]
		quote := model.ResolvePrice(listings[i].StartingBid, bids)
		listings[i].CurrentPrice = quote.CurrentPrice
		listings[i].BidCount = len(bids)
	}
	return listings, nil
}
