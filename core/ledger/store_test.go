package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"price-tracker/core/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCurrentRows(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	rows := sqlmock.NewRows([]string{"natural_key", "content_hash"}).
		AddRow("kahvi-500g", "hash-1").
		AddRow("tee-100g", "hash-2")

	mock.ExpectQuery("SELECT `natural_key`,`content_hash` FROM `product_price_ledger` WHERE data_source = \\? AND valid_to IS NULL").
		WithArgs("K-ruoka").
		WillReturnRows(rows)

	current, err := store.CurrentRows(context.Background(), "K-ruoka")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"kahvi-500g": "hash-1",
		"tee-100g":   "hash-2",
	}, current)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDelta_ClosesAndInserts(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	asOf := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `product_price_ledger` SET `valid_to`=\\? WHERE data_source = \\? AND natural_key IN \\(\\?\\) AND valid_to IS NULL").
		WithArgs(asOf, "K-ruoka", "tee-100g").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `product_price_ledger`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	insert := catalog.LedgerRow{
		ProductRecord: catalog.ProductRecord{
			NaturalKey:  "kahvi-500g",
			NormalPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("7.95"), Valid: true},
		},
		ContentHash: "hash-new",
	}

	result, err := store.ApplyDelta(context.Background(), "K-ruoka", []string{"tee-100g"}, []catalog.LedgerRow{insert}, asOf)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Closed)
	assert.Equal(t, int64(1), result.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDelta_RollsBackOnInsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	asOf := time.Now().UTC()
	boom := errors.New("duplicate entry")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `product_price_ledger`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `product_price_ledger`").
		WillReturnError(boom)
	mock.ExpectRollback()

	insert := catalog.LedgerRow{ProductRecord: catalog.ProductRecord{NaturalKey: "kahvi-500g"}, ContentHash: "h"}

	_, err := store.ApplyDelta(context.Background(), "K-ruoka", []string{"a", "b"}, []catalog.LedgerRow{insert}, asOf)
	assert.Error(t, err)

	var se *StorageError
	assert.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDelta_DuplicateVersionRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	asOf := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)

	// The unique index on (data_source, natural_key, valid_from) refuses a
	// second version for the same key and cycle; the whole delta rolls
	// back and the failure wraps as StorageError.
	dup := errors.New("Error 1062 (23000): Duplicate entry 'K-ruoka-kahvi-500g-2026-08-01 06:00:00' for key 'uq_source_key_from'")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `product_price_ledger`").
		WillReturnError(dup)
	mock.ExpectRollback()

	insert := catalog.LedgerRow{ProductRecord: catalog.ProductRecord{NaturalKey: "kahvi-500g"}, ContentHash: "h"}

	_, err := store.ApplyDelta(context.Background(), "K-ruoka", nil, []catalog.LedgerRow{insert}, asOf)

	var se *StorageError
	assert.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, dup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDelta_NoWork(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	// An empty delta still opens a transaction but issues no statements.
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := store.ApplyDelta(context.Background(), "K-ruoka", nil, nil, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, DeltaResult{}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRows(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `product_price_ledger` WHERE data_source = \\?").
		WithArgs("K-ruoka").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(42))

	count, err := store.CountRows(context.Background(), "K-ruoka")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestWithSourceLock(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	// Acquire, callback, and release on the same connection, in order.
	mock.ExpectQuery("SELECT GET_LOCK\\(\\?, \\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka", 10).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(1))
	mock.ExpectQuery("SELECT RELEASE_LOCK\\(\\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka").
		WillReturnRows(sqlmock.NewRows([]string{"RELEASE_LOCK"}).AddRow(1))

	ran := false
	locked, err := store.WithSourceLock(context.Background(), "K-ruoka", 10*time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, locked)
	assert.True(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSourceLock_HeldElsewhere(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	// 0 means another session holds the lock. No release is issued and the
	// callback never runs.
	mock.ExpectQuery("SELECT GET_LOCK\\(\\?, \\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka", 10).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(0))

	ran := false
	locked, err := store.WithSourceLock(context.Background(), "K-ruoka", 10*time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, locked)
	assert.False(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())

	// NULL means the server could not create the lock at all.
	mock.ExpectQuery("SELECT GET_LOCK\\(\\?, \\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka", 10).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(nil))

	locked, err = store.WithSourceLock(context.Background(), "K-ruoka", 10*time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, locked)
	assert.False(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSourceLock_CallbackErrorStillReleases(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	boom := errors.New("cycle failed")

	mock.ExpectQuery("SELECT GET_LOCK\\(\\?, \\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka", 10).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(1))
	mock.ExpectQuery("SELECT RELEASE_LOCK\\(\\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka").
		WillReturnRows(sqlmock.NewRows([]string{"RELEASE_LOCK"}).AddRow(1))

	locked, err := store.WithSourceLock(context.Background(), "K-ruoka", 10*time.Second, func(context.Context) error {
		return boom
	})
	assert.True(t, locked)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSourceLock_ReleaseNotOwned(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	// RELEASE_LOCK returning 0 means this session did not hold the lock,
	// so the mutual exclusion it was supposed to provide cannot be trusted.
	mock.ExpectQuery("SELECT GET_LOCK\\(\\?, \\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka", 10).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(1))
	mock.ExpectQuery("SELECT RELEASE_LOCK\\(\\?\\)").
		WithArgs("price_tracker.reconcile.K-ruoka").
		WillReturnRows(sqlmock.NewRows([]string{"RELEASE_LOCK"}).AddRow(0))

	locked, err := store.WithSourceLock(context.Background(), "K-ruoka", 10*time.Second, func(context.Context) error {
		return nil
	})
	assert.True(t, locked)

	var se *StorageError
	assert.True(t, errors.As(err, &se))
	assert.NoError(t, mock.ExpectationsWereMet())
}
