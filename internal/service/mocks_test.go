package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"auctionbay/internal/cache"
	"auctionbay/internal/model"
	"auctionbay/internal/ws"
)

// Function-field mocks: each test configures just the calls it cares about.
// Because services depend on the repository INTERFACES, these stand in for
// the database without any driver involved.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

type revokeCall struct {
	id         string
	replacedBy *string
}

type mockRefreshTokenRepository struct {
	createFn           func(ctx context.Context, token *model.RefreshToken) error
	findByTokenHashFn  func(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	revokeFn           func(ctx context.Context, id string, replacedBy *string) error
	revokeAllForUserFn func(ctx context.Context, userID int64) error
	deleteExpiredFn    func(ctx context.Context, olderThan time.Duration) (int64, error)

	createCalls        []*model.RefreshToken
	revokeCalls        []revokeCall
	revokeAllCalls     []int64
	deleteExpiredCalls []time.Duration
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	m.createCalls = append(m.createCalls, token)
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	return nil
}

func (m *mockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	if m.findByTokenHashFn != nil {
		return m.findByTokenHashFn(ctx, tokenHash)
	}
	return nil, model.ErrRefreshTokenNotFound
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	m.revokeCalls = append(m.revokeCalls, revokeCall{id: id, replacedBy: replacedBy})
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id, replacedBy)
	}
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	m.revokeAllCalls = append(m.revokeAllCalls, userID)
	if m.revokeAllForUserFn != nil {
		return m.revokeAllForUserFn(ctx, userID)
	}
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.deleteExpiredCalls = append(m.deleteExpiredCalls, olderThan)
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, olderThan)
	}
	return 0, nil
}

type mockListingRepository struct {
	createFn               func(ctx context.Context, listing *model.Listing) error
	getByIDFn              func(ctx context.Context, id int64) (*model.Listing, error)
	getByIDForUpdateFn     func(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Listing, error)
	listActiveFn           func(ctx context.Context) ([]model.Listing, error)
	listActiveByCategoryFn func(ctx context.Context, categoryID int64) ([]model.Listing, error)
	closeFn                func(ctx context.Context, listingID, sellerID int64) error
}

func (m *mockListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if m.createFn != nil {
		return m.createFn(ctx, listing)
	}
	return nil
}

func (m *mockListingRepository) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrListingNotFound
}

func (m *mockListingRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Listing, error) {
	if m.getByIDForUpdateFn != nil {
		return m.getByIDForUpdateFn(ctx, tx, id)
	}
	return nil, model.ErrListingNotFound
}

func (m *mockListingRepository) ListActive(ctx context.Context) ([]model.Listing, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockListingRepository) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.Listing, error) {
	if m.listActiveByCategoryFn != nil {
		return m.listActiveByCategoryFn(ctx, categoryID)
	}
	return nil, nil
}

func (m *mockListingRepository) Close(ctx context.Context, listingID, sellerID int64) error {
	if m.closeFn != nil {
		return m.closeFn(ctx, listingID, sellerID)
	}
	return nil
}

type mockBidRepository struct {
	createFn         func(ctx context.Context, tx *sqlx.Tx, bid *model.Bid) error
	getForListingFn  func(ctx context.Context, listingID int64) ([]model.Bid, error)
	getLedgerFn      func(ctx context.Context, tx *sqlx.Tx, listingID int64) ([]model.Bid, error)
	getForListingsFn func(ctx context.Context, listingIDs []int64) (map[int64][]model.Bid, error)

	createCalls []*model.Bid
}

func (m *mockBidRepository) Create(ctx context.Context, tx *sqlx.Tx, bid *model.Bid) error {
	m.createCalls = append(m.createCalls, bid)
	if m.createFn != nil {
		return m.createFn(ctx, tx, bid)
	}
	bid.ID = int64(len(m.createCalls))
	bid.CreatedAt = time.Now()
	return nil
}

func (m *mockBidRepository) GetForListing(ctx context.Context, listingID int64) ([]model.Bid, error) {
	if m.getForListingFn != nil {
		return m.getForListingFn(ctx, listingID)
	}
	return nil, nil
}

func (m *mockBidRepository) GetLedger(ctx context.Context, tx *sqlx.Tx, listingID int64) ([]model.Bid, error) {
	if m.getLedgerFn != nil {
		return m.getLedgerFn(ctx, tx, listingID)
	}
	return nil, nil
}

func (m *mockBidRepository) GetForListings(ctx context.Context, listingIDs []int64) (map[int64][]model.Bid, error) {
	if m.getForListingsFn != nil {
		return m.getForListingsFn(ctx, listingIDs)
	}
	return map[int64][]model.Bid{}, nil
}

type mockWatchlistRepository struct {
	addFn            func(ctx context.Context, userID, listingID int64) (bool, error)
	removeFn         func(ctx context.Context, userID, listingID int64) error
	existsFn         func(ctx context.Context, userID, listingID int64) (bool, error)
	listListingsFn   func(ctx context.Context, userID int64) ([]model.Listing, error)
	listWatcherIDsFn func(ctx context.Context, listingID int64) ([]int64, error)

	removeCalls int
}

func (m *mockWatchlistRepository) Add(ctx context.Context, userID, listingID int64) (bool, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, listingID)
	}
	return true, nil
}

func (m *mockWatchlistRepository) Remove(ctx context.Context, userID, listingID int64) error {
	m.removeCalls++
	if m.removeFn != nil {
		return m.removeFn(ctx, userID, listingID)
	}
	return nil
}

func (m *mockWatchlistRepository) Exists(ctx context.Context, userID, listingID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, listingID)
	}
	return false, nil
}

func (m *mockWatchlistRepository) ListListings(ctx context.Context, userID int64) ([]model.Listing, error) {
	if m.listListingsFn != nil {
		return m.listListingsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWatchlistRepository) ListWatcherIDs(ctx context.Context, listingID int64) ([]int64, error) {
	if m.listWatcherIDsFn != nil {
		return m.listWatcherIDsFn(ctx, listingID)
	}
	return nil, nil
}

type mockCommentRepository struct {
	createFn         func(ctx context.Context, listingID, userID int64, text string) (*model.Comment, error)
	getByListingIDFn func(ctx context.Context, listingID int64) ([]model.Comment, error)

	createCalls int
}

func (m *mockCommentRepository) Create(ctx context.Context, listingID, userID int64, text string) (*model.Comment, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, listingID, userID, text)
	}
	return &model.Comment{ID: 1, ListingID: listingID, UserID: userID, Text: text, CreatedAt: time.Now()}, nil
}

func (m *mockCommentRepository) GetByListingID(ctx context.Context, listingID int64) ([]model.Comment, error) {
	if m.getByListingIDFn != nil {
		return m.getByListingIDFn(ctx, listingID)
	}
	return nil, nil
}

type mockCategoryRepository struct {
	listFn    func(ctx context.Context) ([]model.Category, error)
	getByIDFn func(ctx context.Context, id int64) (*model.Category, error)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.Category{ID: id, Name: "Misc"}, nil
}

type mockPriceCache struct {
	entries     map[int64]cache.CachedPrice
	invalidated []int64
}

func newMockPriceCache() *mockPriceCache {
	return &mockPriceCache{entries: make(map[int64]cache.CachedPrice)}
}

func (m *mockPriceCache) Get(ctx context.Context, listingID int64) (cache.CachedPrice, bool, error) {
	price, ok := m.entries[listingID]
	return price, ok, nil
}

func (m *mockPriceCache) Set(ctx context.Context, listingID int64, price cache.CachedPrice) error {
	m.entries[listingID] = price
	return nil
}

func (m *mockPriceCache) Invalidate(ctx context.Context, listingID int64) error {
	delete(m.entries, listingID)
	m.invalidated = append(m.invalidated, listingID)
	return nil
}

type mockBroadcaster struct {
	events []ws.Event
}

func (m *mockBroadcaster) Publish(listingID int64, event ws.Event) {
	m.events = append(m.events, event)
}
