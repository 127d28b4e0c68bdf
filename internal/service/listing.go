package service

import (
	"context"

	"github.com/rs/zerolog"

	"auctionbay/internal/cache"
	"auctionbay/internal/model"
	"auctionbay/internal/repository"
	"auctionbay/internal/ws"
)

// Broadcaster fans live listing events out to websocket subscribers.
type Broadcaster interface {
	Publish(listingID int64, event ws.Event)
}

// EventPublisher puts committed auction state changes on the stream the
// notification workers consume. Distinct from Broadcaster: the stream is
// durable and consumed asynchronously, the websocket fan-out is not.
type EventPublisher interface {
	PublishBidAccepted(ctx context.Context, listingID, sellerID, bidderID, amount, prevBidderID int64) (string, error)
	PublishListingClosed(ctx context.Context, listingID, sellerID, winnerID, finalPrice int64) (string, error)
}

// ListingService handles listing reads, creation and closing. Every read
// resolves the listing's current price from its bid ledger.
type ListingService struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
	bidRepo      repository.BidRepository
	watchRepo    repository.WatchlistRepository
	priceCache   cache.PriceCache
	broadcaster  Broadcaster
	events       EventPublisher
	logger       zerolog.Logger
}

type ListingServiceParams struct {
	ListingRepo  repository.ListingRepository
	CategoryRepo repository.CategoryRepository
	BidRepo      repository.BidRepository
	WatchRepo    repository.WatchlistRepository
	PriceCache   cache.PriceCache // optional
	Broadcaster  Broadcaster      // optional
	Events       EventPublisher   // optional
	Logger       zerolog.Logger
}

func NewListingService(params ListingServiceParams) *ListingService {
	return &ListingService{
		listingRepo:  params.ListingRepo,
		categoryRepo: params.CategoryRepo,
		bidRepo:      params.BidRepo,
		watchRepo:    params.WatchRepo,
		priceCache:   params.PriceCache,
		broadcaster:  params.Broadcaster,
		events:       params.Events,
		logger:       params.Logger.With().Str("component", "listing_service").Logger(),
	}
}

// Create validates the request and inserts an active listing for the seller.
func (s *ListingService) Create(ctx context.Context, sellerID int64, req *model.CreateListingRequest) (*model.Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	listing := &model.Listing{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		StartingBid: req.StartingBid,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	listing.Category = category
	listing.CurrentPrice = listing.StartingBid

	s.logger.Info().
		Int64("listing_id", listing.ID).
		Int64("seller_id", sellerID).
		Int64("starting_bid", listing.StartingBid).
		Msg("Listing created")

	return listing, nil
}

// GetByID returns the listing with its resolved current price and, when a
// viewer is given, whether the viewer watches it.
func (s *ListingService) GetByID(ctx context.Context, id int64, viewerID *int64) (*model.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.resolvePrice(ctx, listing); err != nil {
		return nil, err
	}

	if viewerID != nil {
		watched, err := s.watchRepo.Exists(ctx, *viewerID, id)
		if err != nil {
			// Watch state is decoration; don't fail the read over it.
			s.logger.Warn().Err(err).Int64("listing_id", id).Msg("Failed to check watch state")
		} else {
			listing.IsWatched = watched
		}
	}

	return listing, nil
}

// ListActive returns all active listings with resolved current prices.
func (s *ListingService) ListActive(ctx context.Context) ([]model.Listing, error) {
	listings, err := s.listingRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolvePrices(ctx, listings)
}

// ListActiveByCategory returns a category's active listings with resolved
// prices. A missing category is reported, not propagated opaquely.
func (s *ListingService) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Listing, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	listings, err := s.listingRepo.ListActiveByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.resolvePrices(ctx, listings)
}

// Categories lists all categories.
func (s *ListingService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Close ends the auction. Only the seller may close; the transition is
// one-way and closed listings refuse further bids.
func (s *ListingService) Close(ctx context.Context, listingID, sellerID int64) (*model.Listing, error) {
	if err := s.listingRepo.Close(ctx, listingID, sellerID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("listing_id", listingID).Int64("seller_id", sellerID).Msg("Listing closed")

	listing, err := s.GetByID(ctx, listingID, nil)
	if err != nil {
		return nil, err
	}

	if s.priceCache != nil {
		if err := s.priceCache.Invalidate(ctx, listingID); err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("Failed to invalidate price cache")
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish(listingID, ws.Event{
			Type:         ws.EventAuctionClosed,
			ListingID:    listingID,
			CurrentPrice: listing.CurrentPrice,
			At:           listing.UpdatedAt,
		})
	}
	if s.events != nil {
		var winnerID int64
		if listing.HighestBidder != nil {
			winnerID = listing.HighestBidder.ID
		}
		if _, err := s.events.PublishListingClosed(ctx, listingID, sellerID, winnerID, listing.CurrentPrice); err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("Failed to publish close event")
		}
	}

	return listing, nil
}

// resolvePrice fills CurrentPrice, HighestBidder and BidCount on a single
// listing, consulting the price cache first.
func (s *ListingService) resolvePrice(ctx context.Context, listing *model.Listing) error {
	if s.priceCache != nil {
		cached, found, err := s.priceCache.Get(ctx, listing.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listing.ID).Msg("Price cache read failed")
		} else if found {
			listing.CurrentPrice = cached.CurrentPrice
			listing.BidCount = cached.BidCount
			if cached.HasBids {
				listing.HighestBidder = &model.UserSummary{ID: cached.BidderID, Username: cached.BidderUsername}
			}
			return nil
		}
	}

	bids, err := s.bidRepo.GetForListing(ctx, listing.ID)
	if err != nil {
		return err
	}

	quote := model.ResolvePrice(listing.StartingBid, bids)
	listing.CurrentPrice = quote.CurrentPrice
	listing.HighestBidder = quote.HighestBidder
	listing.BidCount = len(bids)

	if s.priceCache != nil {
		cached := cache.CachedPrice{
			CurrentPrice: quote.CurrentPrice,
			HasBids:      quote.HasBids,
			BidCount:     len(bids),
		}
		if quote.HighestBidder != nil {
			cached.BidderID = quote.HighestBidder.ID
			cached.BidderUsername = quote.HighestBidder.Username
		}
		if err := s.priceCache.Set(ctx, listing.ID, cached); err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listing.ID).Msg("Price cache write failed")
		}
	}

	return nil
}

// resolvePrices batch-resolves prices for a page of listings with a single
// ledger query. Highest bidders are left out on list pages; detail reads
// carry them.
func (s *ListingService) resolvePrices(ctx context.Context, listings []model.Listing) ([]model.Listing, error) {
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
