package ledger

import (
	"context"
	"fmt"
	"time"

	"price-tracker/core/catalog"

	"gorm.io/gorm"
)

// DeltaResult reports how many rows a delta application touched.
type DeltaResult struct {
	Closed   int64 `json:"closed"`
	Inserted int64 `json:"inserted"`
}

// Store is the version store contract consumed by the reconciliation engine
// and the read-side features.
type Store interface {
	// CurrentRows returns natural_key -> content_hash for every current
	// (valid_to IS NULL) row of the source.
	CurrentRows(ctx context.Context, source string) (map[string]string, error)

	// ApplyDelta atomically closes the current row of every key in
	// closures (valid_to = asOf) and inserts the given rows as new current
	// rows (valid_from = asOf, valid_to = NULL). Commit or rollback as a
	// unit.
	ApplyDelta(ctx context.Context, source string, closures []string, inserts []catalog.LedgerRow, asOf time.Time) (DeltaResult, error)

	// CurrentSnapshot returns the full current rows of a source.
	CurrentSnapshot(ctx context.Context, source string) ([]catalog.LedgerRow, error)

	// HistoryRows returns every version of one key ordered by valid_from.
	HistoryRows(ctx context.Context, source, key string) ([]catalog.LedgerRow, error)

	// CountRows returns the total row count for a source, current and
	// historical. Zero means the source has never been loaded.
	CountRows(ctx context.Context, source string) (int64, error)

	// WithSourceLock runs fn while holding the per-source advisory lock,
	// waiting at most wait for it. It returns false without calling fn
	// when the lock is held elsewhere. Acquire, fn, and release all run
	// within one lock scope; the lock is released even when fn fails.
	WithSourceLock(ctx context.Context, source string, wait time.Duration, fn func(ctx context.Context) error) (bool, error)
}

// GormStore implements Store on a gorm MySQL connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an established gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the ledger table.
func Migrate(db *gorm.DB) error {
	return storageErr("migrate", db.AutoMigrate(&catalog.LedgerRow{}))
}

func (s *GormStore) CurrentRows(ctx context.Context, source string) (map[string]string, error) {
	type pair struct {
		NaturalKey  string
		ContentHash string
	}
	var pairs []pair
	err := s.db.WithContext(ctx).
		Model(&catalog.LedgerRow{}).
		Select("natural_key", "content_hash").
		Where("data_source = ? AND valid_to IS NULL", source).
		Scan(&pairs).Error
	if err != nil {
		return nil, storageErr("current rows", err)
	}

	current := make(map[string]string, len(pairs))
	for _, p := range pairs {
		current[p.NaturalKey] = p.ContentHash
	}
	return current, nil
}

func (s *GormStore) ApplyDelta(ctx context.Context, source string, closures []string, inserts []catalog.LedgerRow, asOf time.Time) (DeltaResult, error) {
	var result DeltaResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(closures) > 0 {
			res := tx.Model(&catalog.LedgerRow{}).
				Where("data_source = ? AND natural_key IN ? AND valid_to IS NULL", source, closures).
				Update("valid_to", asOf)
			if res.Error != nil {
				return res.Error
			}
			result.Closed = res.RowsAffected
		}

		if len(inserts) > 0 {
			rows := make([]catalog.LedgerRow, len(inserts))
			copy(rows, inserts)
			for i := range rows {
				rows[i].ID = 0
				rows[i].DataSource = source
				rows[i].ValidFrom = asOf
				rows[i].ValidTo = nil
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return err
			}
			result.Inserted = int64(len(rows))
		}

		return nil
	})
	if err != nil {
		return DeltaResult{}, storageErr("apply delta", err)
	}
	return result, nil
}

func (s *GormStore) CurrentSnapshot(ctx context.Context, source string) ([]catalog.LedgerRow, error) {
	var rows []catalog.LedgerRow
	err := s.db.WithContext(ctx).
		Where("data_source = ? AND valid_to IS NULL", source).
		Order("natural_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("current snapshot", err)
	}
	return rows, nil
}

func (s *GormStore) HistoryRows(ctx context.Context, source, key string) ([]catalog.LedgerRow, error) {
	var rows []catalog.LedgerRow
	err := s.db.WithContext(ctx).
		Where("data_source = ? AND natural_key = ?", source, key).
		Order("valid_from ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("history rows", err)
	}
	return rows, nil
}

func (s *GormStore) CountRows(ctx context.Context, source string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&catalog.LedgerRow{}).
		Where("data_source = ?", source).
		Count(&count).Error
	if err != nil {
		return 0, storageErr("count rows", err)
	}
	return count, nil
}

// sourceLockName builds the MySQL advisory lock name for a source. GET_LOCK
// names are server-wide, so the application prefix keeps us out of other
// tenants' namespaces.
func sourceLockName(source string) string {
	return fmt.Sprintf("price_tracker.reconcile.%s", source)
}

// WithSourceLock takes the source's advisory lock, runs fn, and releases the
// lock. GET_LOCK is session-scoped in MySQL, so all three steps are pinned to
// one dedicated connection; issuing them on arbitrary pooled connections would
// let a second cycle re-acquire the lock through the owning session, and would
// leak the lock when RELEASE_LOCK lands on a session that does not hold it.
func (s *GormStore) WithSourceLock(ctx context.Context, source string, wait time.Duration, fn func(ctx context.Context) error) (bool, error) {
	name := sourceLockName(source)

	var acquired bool
	var fnErr error
	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		var got *int
		if err := conn.Raw("SELECT GET_LOCK(?, ?)", name, int(wait.Seconds())).Scan(&got).Error; err != nil {
			return storageErr("acquire source lock", err)
		}
		// NULL means the server failed to create the lock, 0 means
		// timeout.
		if got == nil || *got != 1 {
			return nil
		}
		acquired = true

		fnErr = fn(ctx)

		// Release must go through even when fn lost its context, or the
		// lock stays taken until the connection dies.
		var released *int
		if err := conn.WithContext(context.WithoutCancel(ctx)).Raw("SELECT RELEASE_LOCK(?)", name).Scan(&released).Error; err != nil {
			return storageErr("release source lock", err)
		}
		if released == nil || *released != 1 {
			return storageErr("release source lock", fmt.Errorf("lock %q was not held by this session", name))
		}
		return nil
	})
	if fnErr != nil {
		return acquired, fnErr
	}
	if err != nil {
		return acquired, err
	}
	return acquired, nil
}
