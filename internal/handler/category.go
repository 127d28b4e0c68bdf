package handler

import (
	"log"
	"net/http"

	"auctionbay/internal/httputil"
	"auctionbay/internal/model"
	"auctionbay/internal/service"
)

type CategoryHandler struct {
	listingService *service.ListingService
}

func NewCategoryHandler(listingService *service.ListingService) *CategoryHandler {
	return &CategoryHandler{listingService: listingService}
}

// List handles GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listingService.Categories(r.Context())
	if err != nil {
		log.Printf("[ERROR] List categories handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list categories")
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]model.Category{"categories": categories})
}
