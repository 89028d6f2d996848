package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"price-tracker/core/catalog"
)

// MemoryStore is an in-memory Store used by tests and local development.
// It honors the same semantics as the MySQL store: atomic delta application,
// append-only rows, and a per-source lock.
type MemoryStore struct {
	mu    sync.Mutex
	rows  map[string][]catalog.LedgerRow // keyed by data source
	locks map[string]*sync.Mutex
	next  uint
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:  make(map[string][]catalog.LedgerRow),
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) CurrentRows(ctx context.Context, source string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[string]string)
	for _, r := range s.rows[source] {
		if r.ValidTo == nil {
			current[r.NaturalKey] = r.ContentHash
		}
	}
	return current, nil
}

func (s *MemoryStore) ApplyDelta(ctx context.Context, source string, closures []string, inserts []catalog.LedgerRow, asOf time.Time) (DeltaResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result DeltaResult

	closing := make(map[string]struct{}, len(closures))
	for _, k := range closures {
		closing[k] = struct{}{}
	}

	rows := s.rows[source]
	for i := range rows {
		if rows[i].ValidTo != nil {
			continue
		}
		if _, ok := closing[rows[i].NaturalKey]; ok {
			ts := asOf
			rows[i].ValidTo = &ts
			result.Closed++
		}
	}

	for _, ins := range inserts {
		s.next++
		ins.ID = s.next
		ins.DataSource = source
		ins.ValidFrom = asOf
		ins.ValidTo = nil
		rows = append(rows, ins)
		result.Inserted++
	}
	s.rows[source] = rows

	return result, nil
}

func (s *MemoryStore) CurrentSnapshot(ctx context.Context, source string) ([]catalog.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []catalog.LedgerRow
	for _, r := range s.rows[source] {
		if r.ValidTo == nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NaturalKey < out[j].NaturalKey })
	return out, nil
}

func (s *MemoryStore) HistoryRows(ctx context.Context, source, key string) ([]catalog.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []catalog.LedgerRow
	for _, r := range s.rows[source] {
		if r.NaturalKey == key {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ValidFrom.Before(out[j].ValidFrom) })
	return out, nil
}

func (s *MemoryStore) CountRows(ctx context.Context, source string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows[source])), nil
}

func (s *MemoryStore) WithSourceLock(ctx context.Context, source string, wait time.Duration, fn func(ctx context.Context) error) (bool, error) {
	s.mu.Lock()
	lock, ok := s.locks[source]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[source] = lock
	}
	s.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		lock.Lock()
		close(acquired)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-acquired:
		defer lock.Unlock()
		return true, fn(ctx)
	case <-timer.C:
		// The goroutine will eventually take the lock; hand it straight
		// back so the holder count stays balanced.
		go func() {
			<-acquired
			lock.Unlock()
		}()
		return false, nil
	case <-ctx.Done():
		go func() {
			<-acquired
			lock.Unlock()
		}()
		return false, ctx.Err()
	}
}

// AllRows returns every row of a source ordered by key then valid_from.
// Test helper.
func (s *MemoryStore) AllRows(source string) []catalog.LedgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.LedgerRow, len(s.rows[source]))
	copy(out, s.rows[source])
	sort.Slice(out, func(i, j int) bool {
		if out[i].NaturalKey != out[j].NaturalKey {
			return out[i].NaturalKey < out[j].NaturalKey
		}
		return out[i].ValidFrom.Before(out[j].ValidFrom)
	})
	return out
}
