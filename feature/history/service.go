package history

import (
	"context"
	"errors"

	"price-tracker/core/compact"
	"price-tracker/core/ledger"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a product has no ledger rows at all.
var ErrNotFound = errors.New("history: product not found")

// Service reads version sequences from the ledger and compacts them.
type Service struct {
	store  ledger.Store
	logger *zap.Logger
}

// NewService creates a new history service.
func NewService(store ledger.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Intervals returns the compacted price intervals of one product. The
// compaction is recomputed from the ledger on every call; it is a pure
// function of the rows.
func (s *Service) Intervals(ctx context.Context, source, key string) ([]compact.PriceInterval, error) {
	rows, err := s.store.HistoryRows(ctx, source, key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return compact.Compact(rows), nil
}
