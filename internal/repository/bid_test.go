package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"auctionbay/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestBidRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBidRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bids").
		WithArgs(int64(7), int64(3), int64(150)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now))

	tx, err := db.BeginTxx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	bid := &model.Bid{ListingID: 7, BidderID: 3, Amount: 150}
	if err := repo.Create(context.Background(), tx, bid); err != nil {
		t.Fatalf("create bid: %v", err)
	}

	if bid.ID != 42 {
		t.Errorf("bid id = %d, want 42", bid.ID)
	}
	if !bid.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v, want %v", bid.CreatedAt, now)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBidRepository_GetLedgerInsertionOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBidRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, listing_id, bidder_id, amount, created_at").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "bidder_id", "amount", "created_at"}).
			AddRow(int64(1), int64(7), int64(3), int64(100), time.Now()).
			AddRow(int64(2), int64(7), int64(4), int64(120), time.Now()))

	tx, err := db.BeginTxx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	bids, err := repo.GetLedger(context.Background(), tx, 7)
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}

	if len(bids) != 2 {
		t.Fatalf("got %d bids, want 2", len(bids))
	}
	if bids[0].Amount != 100 || bids[1].Amount != 120 {
		t.Errorf("ledger order wrong: %+v", bids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBidRepository_GetForListingsGroupsByListing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBidRepository(db)

	mock.ExpectQuery("SELECT id, listing_id, bidder_id, amount, created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "bidder_id", "amount", "created_at"}).
			AddRow(int64(1), int64(7), int64(3), int64(100), time.Now()).
			AddRow(int64(2), int64(9), int64(4), int64(50), time.Now()).
			AddRow(int64(3), int64(7), int64(4), int64(120), time.Now()))

	ledgers, err := repo.GetForListings(context.Background(), []int64{7, 9})
	if err != nil {
		t.Fatalf("get for listings: %v", err)
	}

	if len(ledgers[7]) != 2 {
		t.Errorf("listing 7 ledger = %d bids, want 2", len(ledgers[7]))
	}
	if len(ledgers[9]) != 1 {
		t.Errorf("listing 9 ledger = %d bids, want 1", len(ledgers[9]))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBidRepository_GetForListingsEmptyInput(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewBidRepository(db)

	ledgers, err := repo.GetForListings(context.Background(), nil)
	if err != nil {
		t.Fatalf("get for listings: %v", err)
	}
	if len(ledgers) != 0 {
		t.Errorf("got %d ledgers, want 0", len(ledgers))
	}
}
