package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"auctionbay/internal/model"
)

func newCommentService(commentRepo *mockCommentRepository, listingRepo *mockListingRepository) *CommentService {
	return NewCommentService(commentRepo, listingRepo, zerolog.Nop())
}

func TestCommentService_Post(t *testing.T) {
	commentRepo := &mockCommentRepository{}
	listingRepo := &mockListingRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Listing, error) {
			return &model.Listing{ID: id, Active: true}, nil
		},
	}
	svc := newCommentService(commentRepo, listingRepo)

	comment, err := svc.Post(context.Background(), 7, 2, "Lovely teapot")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if comment.Text != "Lovely teapot" {
		t.Errorf("text = %q", comment.Text)
	}
	if commentRepo.createCalls != 1 {
		t.Errorf("create called %d times, want 1", commentRepo.createCalls)
	}
}

// Empty or whitespace-only comments never reach the repository.
func TestCommentService_Post_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		commentRepo := &mockCommentRepository{}
		svc := newCommentService(commentRepo, &mockListingRepository{})

		_, err := svc.Post(context.Background(), 7, 2, text)
		if !errors.Is(err, model.ErrCommentEmpty) {
			t.Errorf("text %q: err = %v, want ErrCommentEmpty", text, err)
		}
		if commentRepo.createCalls != 0 {
			t.Errorf("text %q: create called %d times, want 0", text, commentRepo.createCalls)
		}
	}
}

func TestCommentService_Post_TooLong(t *testing.T) {
	commentRepo := &mockCommentRepository{}
	svc := newCommentService(commentRepo, &mockListingRepository{})

	_, err := svc.Post(context.Background(), 7, 2, strings.Repeat("x", model.MaxCommentLength+1))
	if !errors.Is(err, model.ErrCommentTooLong) {
		t.Fatalf("err = %v, want ErrCommentTooLong", err)
	}
	if commentRepo.createCalls != 0 {
		t.Error("overlong comment must not be written")
	}
}

func TestCommentService_Post_MissingListing(t *testing.T) {
	svc := newCommentService(&mockCommentRepository{}, &mockListingRepository{})

	_, err := svc.Post(context.Background(), 404, 2, "hello")
	if !errors.Is(err, model.ErrListingNotFound) {
		t.Fatalf("err = %v, want ErrListingNotFound", err)
	}
}
