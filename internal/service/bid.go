package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"auctionbay/internal/cache"
	"auctionbay/internal/model"
	"auctionbay/internal/repository"
	"auctionbay/internal/ws"
)

// BidService implements bid acceptance. Acceptance runs inside a transaction
// that locks the listing row, so two simultaneous bids on one listing are
// serialized and the loser validates against the winner's committed ledger.
type BidService struct {
	db          *sqlx.DB
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
	userRepo    repository.UserRepository
	priceCache  cache.PriceCache
	broadcaster Broadcaster
	events      EventPublisher
	logger      zerolog.Logger
}

type BidServiceParams struct {
	DB          *sqlx.DB
	ListingRepo repository.ListingRepository
	BidRepo     repository.BidRepository
	UserRepo    repository.UserRepository
	PriceCache  cache.PriceCache // optional
	Broadcaster Broadcaster      // optional
	Events      EventPublisher   // optional
	Logger      zerolog.Logger
}

func NewBidService(params BidServiceParams) *BidService {
	return &BidService{
		db:          params.DB,
		listingRepo: params.ListingRepo,
		bidRepo:     params.BidRepo,
		userRepo:    params.UserRepo,
		priceCache:  params.PriceCache,
		broadcaster: params.Broadcaster,
		events:      params.Events,
		logger:      params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// PlaceBid validates the proposed amount against the listing's current price
// and appends it to the ledger. A rejection writes nothing.
func (s *BidService) PlaceBid(ctx context.Context, listingID, bidderID, amount int64) (*model.Bid, error) {
	bidder, err := s.userRepo.GetByID(ctx, bidderID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	listing, err := s.listingRepo.GetByIDForUpdate(ctx, tx, listingID)
	if err != nil {
		return nil, err
	}

	if !listing.IsOpen() {
		return nil, model.ErrListingClosed
	}

	ledger, err := s.bidRepo.GetLedger(ctx, tx, listingID)
	if err != nil {
		return nil, err
	}

	quote := model.ResolvePrice(listing.StartingBid, ledger)
	if err := model.AcceptBid(amount, listing.StartingBid, quote); err != nil {
		s.logger.Info().
			Int64("listing_id", listingID).
			Int64("bidder_id", bidderID).
			Int64("amount", amount).
			Int64("current_price", quote.CurrentPrice).
			Err(err).
			Msg("Bid rejected")
		return nil, err
	}

	bid := &model.Bid{
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
	}
	if err := s.bidRepo.Create(ctx, tx, bid); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	bid.Bidder = &model.UserSummary{ID: bidder.ID, Username: bidder.Username}

	s.logger.Info().
		Int64("listing_id", listingID).
		Int64("bidder_id", bidderID).
		Int64("amount", amount).
		Msg("Bid accepted")

	// Post-commit side effects; both tolerate failure.
	if s.priceCache != nil {
		if err := s.priceCache.Invalidate(ctx, listingID); err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("Failed to invalidate price cache")
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish(listingID, ws.Event{
			Type:           ws.EventBidPlaced,
			ListingID:      listingID,
			Amount:         amount,
			BidderUsername: bidder.Username,
			CurrentPrice:   amount,
			At:             time.Now(),
		})
	}
	if s.events != nil {
		var prevBidderID int64
		if quote.HighestBidder != nil {
			prevBidderID = quote.HighestBidder.ID
		}
		if _, err := s.events.PublishBidAccepted(ctx, listingID, listing.SellerID, bidderID, amount, prevBidderID); err != nil {
			s.logger.Warn().Err(err).Int64("listing_id", listingID).Msg("Failed to publish bid event")
		}
	}

	return bid, nil
}

// ListForListing returns the full ledger of a listing in insertion order.
func (s *BidService) ListForListing(ctx context.Context, listingID int64) ([]model.Bid, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.bidRepo.GetForListing(ctx, listingID)
}
