package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"auctionbay/internal/model"
)

func TestWatchlistRepository_AddReportsDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWatchlistRepository(db)

	mock.ExpectExec("INSERT INTO watchlist").
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO watchlist").
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // ON CONFLICT DO NOTHING

	inserted, err := repo.Add(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !inserted {
		t.Error("first add should insert")
	}

	inserted, err = repo.Add(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if inserted {
		t.Error("duplicate add should not insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWatchlistRepository_RemoveAbsentIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWatchlistRepository(db)

	mock.ExpectExec("DELETE FROM watchlist").
		WithArgs(int64(1), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Remove(context.Background(), 1, 99); err != nil {
		t.Fatalf("remove absent entry: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListingRepository_CloseByNonSeller(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	mock.ExpectExec("UPDATE listings SET active = FALSE").
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT seller_id, active FROM listings").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id", "active"}).AddRow(int64(1), true))

	err := repo.Close(context.Background(), 7, 2)
	if !errors.Is(err, model.ErrNotSeller) {
		t.Fatalf("err = %v, want ErrNotSeller", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListingRepository_CloseAlreadyClosed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	mock.ExpectExec("UPDATE listings SET active = FALSE").
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT seller_id, active FROM listings").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seller_id", "active"}).AddRow(int64(1), false))

	err := repo.Close(context.Background(), 7, 1)
	if !errors.Is(err, model.ErrListingClosed) {
		t.Fatalf("err = %v, want ErrListingClosed", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
