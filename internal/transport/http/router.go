package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"auctionbay/internal/handler"
	"auctionbay/internal/httputil"
	authmw "auctionbay/internal/transport/http/middleware"
	"auctionbay/internal/ws"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	ListingHandler      *handler.ListingHandler
	CategoryHandler     *handler.CategoryHandler
	WatchlistHandler    *handler.WatchlistHandler
	CommentHandler      *handler.CommentHandler
	MediaHandler        *handler.MediaHandler        // nil when R2 is not configured
	NotificationHandler *handler.NotificationHandler // nil when Redis is not configured
	WSHandler           *ws.Handler                  // nil when live updates are disabled
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Get("/categories", cfg.CategoryHandler.List)

	// Public listing reads with optional authentication: a signed-in
	// viewer's response carries their watch state.
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuth(cfg.JWTSecret))

		r.Get("/listings", cfg.ListingHandler.List)
		r.Get("/listings/{id}", cfg.ListingHandler.GetByID)
		r.Get("/listings/{id}/bids", cfg.ListingHandler.ListBids)
		r.Get("/listings/{id}/comments", cfg.CommentHandler.List)
	})

	// Live bid updates over websocket; the page is public so the socket is too
	if cfg.WSHandler != nil {
		r.Get("/ws/listings/{id}", cfg.WSHandler.Subscribe)
	}

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.Auth(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Post("/listings", cfg.ListingHandler.Create)
		r.Post("/listings/{id}/close", cfg.ListingHandler.Close)
		r.Post("/listings/{id}/bids", cfg.ListingHandler.PlaceBid)
		r.Post("/listings/{id}/comments", cfg.CommentHandler.Create)

		r.Get("/watchlist", cfg.WatchlistHandler.List)
		r.Put("/watchlist/{listingID}", cfg.WatchlistHandler.Watch)
		r.Delete("/watchlist/{listingID}", cfg.WatchlistHandler.Unwatch)

		if cfg.NotificationHandler != nil {
			r.Get("/notifications", cfg.NotificationHandler.List)
		}

		if cfg.MediaHandler != nil {
			r.Post("/media/listing-image", cfg.MediaHandler.UploadListingImage)
		}
	})

	return r
}
