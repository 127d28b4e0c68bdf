package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"auctionbay/internal/model"
	"auctionbay/internal/repository"
)

// CommentService handles the append-only comment log. There is no edit or
// delete path.
type CommentService struct {
	commentRepo repository.CommentRepository
	listingRepo repository.ListingRepository
	logger      zerolog.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	listingRepo repository.ListingRepository,
	logger zerolog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		listingRepo: listingRepo,
		logger:      logger.With().Str("component", "comment_service").Logger(),
	}
}

// Post appends a comment to the listing's log. Empty text is a validation
// error and writes nothing.
func (s *CommentService) Post(ctx context.Context, listingID, userID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrCommentEmpty
	}
	if len(text) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.Create(ctx, listingID, userID, text)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("listing_id", listingID).Int64("user_id", userID).Msg("Comment posted")
	return comment, nil
}

// List returns the listing's comment log, oldest first.
func (s *CommentService) List(ctx context.Context, listingID int64) ([]model.Comment, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByListingID(ctx, listingID)
}
