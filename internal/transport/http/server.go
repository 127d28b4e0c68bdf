package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"auctionbay/internal/cache"
	"auctionbay/internal/config"
	"auctionbay/internal/database"
	"auctionbay/internal/handler"
	"auctionbay/internal/queue"
	"auctionbay/internal/redis"
	"auctionbay/internal/repository"
	"auctionbay/internal/service"
	"auctionbay/internal/worker"
	"auctionbay/internal/ws"
)

// tokenRetention is how long expired refresh tokens are kept before the
// cleanup sweep deletes them.
const tokenRetention = 7 * 24 * time.Hour

// Run assembles the whole application and serves HTTP until the listener
// fails. Redis and object storage are optional; without them the server
// runs with the price cache, notifications and image uploads disabled.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("Connected to database")

	ctx := context.Background()
	if err := database.Apply(ctx, db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	var (
		priceCache  cache.PriceCache
		notifFeed   cache.NotificationFeed
		publisher   *queue.RedisPublisher
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		defer redisClient.Close()
		priceCache = cache.NewPriceCache(redisClient.Client)
		notifFeed = cache.NewNotificationFeed(redisClient.Client)
		publisher = queue.NewPublisher(redisClient.Client)
		logger.Info().Msg("Price cache and notifications enabled")
	} else {
		logger.Info().Msg("REDIS_URL not set, price cache and notifications disabled")
	}

	hub := ws.NewHub(logger)

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bidRepo := repository.NewBidRepository(db)
	watchRepo := repository.NewWatchlistRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Interface fields must stay nil when redis is absent; a typed nil
	// pointer would pass the != nil checks in the services.
	var events service.EventPublisher
	if publisher != nil {
		events = publisher
	}

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg, logger)
	listingService := service.NewListingService(service.ListingServiceParams{
		ListingRepo:  listingRepo,
		CategoryRepo: categoryRepo,
		BidRepo:      bidRepo,
		WatchRepo:    watchRepo,
		PriceCache:   priceCache,
		Broadcaster:  hub,
		Events:       events,
		Logger:       logger,
	})
	bidService := service.NewBidService(service.BidServiceParams{
		DB:          db,
		ListingRepo: listingRepo,
		BidRepo:     bidRepo,
		UserRepo:    userRepo,
		PriceCache:  priceCache,
		Broadcaster: hub,
		Events:      events,
		Logger:      logger,
	})
	watchlistService := service.NewWatchlistService(watchRepo, listingRepo, bidRepo, logger)
	commentService := service.NewCommentService(commentRepo, listingRepo, logger)

	// Expired refresh tokens pile up one row per login; sweep them daily.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := authService.PurgeExpiredTokens(ctx, tokenRetention); err != nil {
					logger.Warn().Err(err).Msg("Refresh token cleanup failed")
				}
			}
		}
	}()

	var notificationHandler *handler.NotificationHandler
	if redisClient != nil {
		consumer := queue.NewConsumer(redisClient.Client)
		workers := worker.NewManager(consumer, worker.NewHandler(notifFeed, watchRepo), worker.ManagerConfig{})
		if err := workers.Start(ctx); err != nil {
			return fmt.Errorf("failed to start notification workers: %w", err)
		}
		defer workers.Stop()
		notificationHandler = handler.NewNotificationHandler(notifFeed)
	}

	var mediaHandler *handler.MediaHandler
	if cfg.HasR2() {
		mediaService, err := service.NewMediaService(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create media service: %w", err)
		}
		mediaHandler = handler.NewMediaHandler(mediaService)
		logger.Info().Msg("Image uploads enabled")
	} else {
		logger.Info().Msg("R2 not configured, image uploads disabled")
	}

	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		ListingHandler:      handler.NewListingHandler(listingService, bidService),
		CategoryHandler:     handler.NewCategoryHandler(listingService),
		WatchlistHandler:    handler.NewWatchlistHandler(watchlistService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		MediaHandler:        mediaHandler,
		NotificationHandler: notificationHandler,
		WSHandler:           ws.NewHandler(hub, logger),
		JWTSecret:           cfg.JWTSecret,
	})

	addr := ":" + cfg.ServerPort
	logger.Info().Str("addr", addr).Msg("Starting server")
	return stdhttp.ListenAndServe(addr, router)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
