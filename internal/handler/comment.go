package handler

import (
	"errors"
	"log"
	"net/http"

	"auctionbay/internal/httputil"
	"auctionbay/internal/model"
	"auctionbay/internal/service"
	"auctionbay/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /listings/:id/comments
// Appends a comment to the listing's log.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Post(r.Context(), listingID, userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentEmpty):
			httputil.WriteBadRequest(w, "Comment text is required")
		case errors.Is(err, model.ErrCommentTooLong):
			httputil.WriteBadRequest(w, "Comment too long (max 280 characters)")
		case errors.Is(err, model.ErrListingNotFound):
			httputil.WriteNotFound(w, "Listing not found")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d listing=%d err=%v", userID, listingID, err)
			httputil.WriteInternalError(w, "Failed to post comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// List handles GET /listings/:id/comments
// Returns the listing's comment log, oldest first.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			httputil.WriteNotFound(w, "Listing not found")
			return
		}
		log.Printf("[ERROR] List comments handler: listing=%d err=%v", listingID, err)
		httputil.WriteInternalError(w, "Failed to list comments")
		return
	}

	if comments == nil {
		comments = []model.Comment{}
	}
	httputil.WriteJSON(w, http.StatusOK, model.CommentListResponse{Comments: comments})
}
