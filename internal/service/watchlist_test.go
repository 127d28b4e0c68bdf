package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"auctionbay/internal/model"
)

func newWatchlistService(watchRepo *mockWatchlistRepository, listingRepo *mockListingRepository, bidRepo *mockBidRepository) *WatchlistService {
	return NewWatchlistService(watchRepo, listingRepo, bidRepo, zerolog.Nop())
}

// Watch then unwatch leaves the membership query returning false; a second
// remove of the same pair is a harmless no-op.
func TestWatchlistService_WatchUnwatchRoundTrip(t *testing.T) {
	watched := map[int64]bool{}

	watchRepo := &mockWatchlistRepository{
		addFn: func(ctx context.Context, userID, listingID int64) (bool, error) {
			if watched[listingID] {
				return false, nil
			}
			watched[listingID] = true
			return true, nil
		},
		removeFn: func(ctx context.Context, userID, listingID int64) error {
			delete(watched, listingID)
			return nil
		},
		existsFn: func(ctx context.Context, userID, listingID int64) (bool, error) {
			return watched[listingID], nil
		},
	}
	listingRepo := &mockListingRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
			return &model.Listing{ID: id, Active: true}, nil
		},
	}
	svc := newWatchlistService(watchRepo, listingRepo, &mockBidRepository{})
	ctx := context.Background()

	if err := svc.Watch(ctx, 1, 7); err != nil {
		t.Fatalf("watch: %v", err)
	}
	// Duplicate add collapses, no error
	if err := svc.Watch(ctx, 1, 7); err != nil {
		t.Fatalf("duplicate watch: %v", err)
	}

	watching, err := svc.IsWatching(ctx, 1, 7)
	if err != nil || !watching {
		t.Fatalf("is watching = %v, %v; want true", watching, err)
	}

	if err := svc.Unwatch(ctx, 1, 7); err != nil {
		t.Fatalf("unwatch: %v", err)
	}
	watching, err = svc.IsWatching(ctx, 1, 7)
	if err != nil || watching {
		t.Fatalf("is watching after remove = %v, %v; want false", watching, err)
	}

	// Removing an entry that was never added is a no-op
	if err := svc.Unwatch(ctx, 1, 99); err != nil {
		t.Fatalf("unwatch absent: %v", err)
	}
	if watchRepo.removeCalls != 2 {
		t.Errorf("remove called %d times, want 2", watchRepo.removeCalls)
	}
}

func TestWatchlistService_WatchMissingListing(t *testing.T) {
	svc := newWatchlistService(&mockWatchlistRepository{}, &mockListingRepository{}, &mockBidRepository{})

	err := svc.Watch(context.Background(), 1, 404)
	if !errors.Is(err, model.ErrListingNotFound) {
		t.Fatalf("err = %v, want ErrListingNotFound", err)
	}
}

// The watchlist page carries resolved current prices.
func TestWatchlistService_ListResolvesPrices(t *testing.T) {
	watchRepo := &mockWatchlistRepository{
		listListingsFn: func(ctx context.Context, userID int64) ([]model.Listing, error) {
			return []model.Listing{
				{ID: 7, StartingBid: 10},
				{ID: 9, StartingBid: 50},
			}, nil
		},
	}
	bidRepo := &mockBidRepository{
		getForListingsFn: func(ctx context.Context, listingIDs []int64) (map[int64][]model.Bid, error) {
			return map[int64][]model.Bid{
				7: {{BidderID: 2, Amount: 10}, {BidderID: 3, Amount: 25}},
			}, nil
		},
	}
	svc := newWatchlistService(watchRepo, &mockListingRepository{}, bidRepo)

	listings, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}

	if listings[0].CurrentPrice != 25 || listings[0].BidCount != 2 {
		t.Errorf("listing 7 price = %d (%d bids), want 25 (2 bids)", listings[0].CurrentPrice, listings[0].BidCount)
	}
	// No bids: current price falls back to the starting bid
	if listings[1].CurrentPrice != 50 || listings[1].BidCount != 0 {
		t.Errorf("listing 9 price = %d (%d bids), want 50 (0 bids)", listings[1].CurrentPrice, listings[1].BidCount)
	}
}
