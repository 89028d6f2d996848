package prices

import (
	"context"
	"time"

	"price-tracker/core/catalog"
	"price-tracker/core/ledger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductView is one current product decorated with the derived price
// metrics for API consumers.
type ProductView struct {
	catalog.ProductRecord

	ContentHash    string              `json:"content_hash"`
	ValidFrom      time.Time           `json:"valid_from"`
	EffectivePrice decimal.NullDecimal `json:"effective_price"`
	PricePerUnit   decimal.NullDecimal `json:"price_per_unit"`
}

// Service reads current snapshots from the ledger.
type Service struct {
	store   ledger.Store
	sources []string
	logger  *zap.Logger
}

// NewService creates a new prices service. sources is the list of enabled
// data sources used by the "all sources" listing.
func NewService(store ledger.Store, sources []string, logger *zap.Logger) *Service {
	return &Service{store: store, sources: sources, logger: logger}
}

// Current returns the current snapshot of one source.
func (s *Service) Current(ctx context.Context, source string) ([]ProductView, error) {
	rows, err := s.store.CurrentSnapshot(ctx, source)
	if err != nil {
		return nil, err
	}
	return decorate(rows), nil
}

// CurrentAll returns the current snapshot of every enabled source.
func (s *Service) CurrentAll(ctx context.Context) ([]ProductView, error) {
	var views []ProductView
	for _, source := range s.sources {
		rows, err := s.store.CurrentSnapshot(ctx, source)
		if err != nil {
			return nil, err
		}
		views = append(views, decorate(rows)...)
	}
	return views, nil
}

func decorate(rows []catalog.LedgerRow) []ProductView {
	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		view := ProductView{
			ProductRecord: row.ProductRecord,
			ContentHash:   row.ContentHash,
			ValidFrom:     row.ValidFrom,
		}
		if price, ok := catalog.EffectivePrice(row.ProductRecord); ok {
			view.EffectivePrice = decimal.NullDecimal{Decimal: price, Valid: true}
		}
		if per, ok := catalog.PricePerUnit(row.ProductRecord); ok {
			view.PricePerUnit = decimal.NullDecimal{Decimal: per, Valid: true}
		}
		views = append(views, view)
	}
	return views
}
