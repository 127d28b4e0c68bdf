package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"auctionbay/internal/httputil"
	"auctionbay/internal/model"
	"auctionbay/internal/service"
	"auctionbay/internal/transport/http/middleware"
)

type ListingHandler struct {
	listingService *service.ListingService
	bidService     *service.BidService
}

func NewListingHandler(listingService *service.ListingService, bidService *service.BidService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		bidService:     bidService,
	}
}

// Create handles POST /listings
// Creates an active listing owned by the authenticated user.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateListingRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	listing, err := h.listingService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Title is required")
		case errors.Is(err, model.ErrTitleTooLong):
			httputil.WriteBadRequest(w, "Title too long (max 64 characters)")
		case errors.Is(err, model.ErrDescriptionTooLong):
			httputil.WriteBadRequest(w, "Description too long (max 5000 characters)")
		case errors.Is(err, model.ErrCategoryRequired):
			httputil.WriteBadRequest(w, "Category is required")
		case errors.Is(err, model.ErrStartingBidNegative):
			httputil.WriteBadRequest(w, "Starting bid must not be negative")
		case errors.Is(err, model.ErrCategoryNotFound):
			httputil.WriteBadRequest(w, "Unknown category")
		default:
			log.Printf("[ERROR] Create listing handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to create listing")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, listing)
}

// List handles GET /listings
// Returns active listings, optionally filtered by ?category=<id>.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		listings []model.Listing
		err      error
	)

	if categoryStr := r.URL.Query().Get("category"); categoryStr != "" {
		categoryID, parseErr := strconv.ParseInt(categoryStr, 10, 64)
		if parseErr != nil {
			httputil.WriteBadRequest(w, "Invalid category ID")
			return
		}
		listings, err = h.listingService.ListActiveByCategory(r.Context(), categoryID)
	} else {
		listings, err = h.listingService.ListActive(r.Context())
	}

	if err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			httputil.WriteNotFound(w, "Category not found")
			return
		}
		log.Printf("[ERROR] List listings handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list listings")
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}
	httputil.WriteJSON(w, http.StatusOK, model.ListingListResponse{Listings: listings})
}

// GetByID handles GET /listings/:id
// Returns the listing with its resolved current price. For authenticated
// viewers the response also carries the viewer's watch state.
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	var viewerID *int64
	if id, authed := middleware.GetUserIDFromContext(r.Context()); authed {
		viewerID = &id
	}

	listing, err := h.listingService.GetByID(r.Context(), listingID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			httputil.WriteNotFound(w, "Listing not found")
			return
		}
		log.Printf("[ERROR] Get listing handler: listing=%d err=%v", listingID, err)
		httputil.WriteInternalError(w, "Failed to get listing")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listing)
}

// Close handles POST /listings/:id/close
// Ends the auction. Only the seller may close a listing.
func (h *ListingHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	listing, err := h.listingService.Close(r.Context(), listingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrListingNotFound):
			httputil.WriteNotFound(w, "Listing not found")
		case errors.Is(err, model.ErrNotSeller):
			httputil.WriteForbidden(w, "Only the seller can close a listing")
		case errors.Is(err, model.ErrListingClosed):
			httputil.WriteConflict(w, "Listing is already closed")
		default:
			log.Printf("[ERROR] Close listing handler: user=%d listing=%d err=%v", userID, listingID, err)
			httputil.WriteInternalError(w, "Failed to close listing")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listing)
}

// PlaceBid handles POST /listings/:id/bids
// Appends a bid to the listing's ledger if it beats the current price.
func (h *ListingHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	var req model.PlaceBidRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	bid, err := h.bidService.PlaceBid(r.Context(), listingID, userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrListingNotFound):
			httputil.WriteNotFound(w, "Listing not found")
		case errors.Is(err, model.ErrListingClosed):
			httputil.WriteConflict(w, "Listing is closed")
		case errors.Is(err, model.ErrBidNegative):
			httputil.WriteBadRequest(w, "Bid must not be negative")
		case errors.Is(err, model.ErrBidBelowStarting):
			httputil.WriteBadRequest(w, "Bid must be at least the starting bid")
		case errors.Is(err, model.ErrBidTooLow):
			httputil.WriteBadRequest(w, "Bid must exceed the current bid")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteUnauthorized(w, "Unknown bidder")
		default:
			log.Printf("[ERROR] Place bid handler: user=%d listing=%d err=%v", userID, listingID, err)
			httputil.WriteInternalError(w, "Failed to place bid")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, bid)
}

// ListBids handles GET /listings/:id/bids
// Returns the listing's bid ledger, oldest first.
func (h *ListingHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	bids, err := h.bidService.ListForListing(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			httputil.WriteNotFound(w, "Listing not found")
			return
		}
		log.Printf("[ERROR] List bids handler: listing=%d err=%v", listingID, err)
		httputil.WriteInternalError(w, "Failed to list bids")
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}
	httputil.WriteJSON(w, http.StatusOK, model.BidListResponse{Bids: bids})
}

func parseListingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid listing ID")
		return 0, false
	}
	return id, true
}
