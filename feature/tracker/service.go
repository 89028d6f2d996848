package tracker

import (
	"context"
	"errors"

	"price-tracker/core/catalog"
	"price-tracker/core/database"
	"price-tracker/core/orchestrator"
	"price-tracker/core/reconcile"
	"price-tracker/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrArchiveDisabled is returned when archive listing is requested but
// payload archiving is not configured.
var ErrArchiveDisabled = errors.New("tracker: payload archive not configured")

// ledgerColumns is the expected shape of the ledger table, checked by the
// schema endpoint.
var ledgerColumns = []string{
	"id", "data_source", "natural_key",
	"name_primary", "name_secondary",
	"available_in_store", "available_online",
	"net_weight", "content_unit", "image_url", "brand_name",
	"normal_price_unit", "normal_price",
	"batch_price", "batch_discount_pct", "batch_discount_type", "batch_days_left",
	"content_hash", "valid_from", "valid_to",
}

// Service drives tracker admin operations.
type Service struct {
	orch   *orchestrator.Orchestrator
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new tracker service. client may be nil when payload
// archiving is disabled; db may be nil when running storeless (tests).
func NewService(orch *orchestrator.Orchestrator, db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{orch: orch, db: db, client: client, bucket: bucket, logger: logger}
}

// RunCycle executes one reconcile cycle for a source, immediately.
func (s *Service) RunCycle(ctx context.Context, source string) (reconcile.Result, error) {
	return s.orch.RunCycle(ctx, source)
}

// Status returns the per-source cycle status.
func (s *Service) Status() []orchestrator.SourceStatus {
	return s.orch.Status()
}

// SchemaCheck returns the ledger columns missing from the database.
func (s *Service) SchemaCheck() ([]string, error) {
	return database.VerifyColumns(s.db, catalog.LedgerRow{}.TableName(), ledgerColumns)
}

// Archives lists the archived raw payload object names of one source,
// newest last.
func (s *Service) Archives(ctx context.Context, source string) ([]string, error) {
	if s.client == nil {
		return nil, ErrArchiveDisabled
	}

	names := []string{}
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    "raw/" + source + "/",
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, obj.Err
		}
		names = append(names, obj.Key)
	}
	return names, nil
}
