package orchestrator

import (
	"context"
	"errors"
	"testing"

	"price-tracker/core/catalog"
	"price-tracker/core/connector"
	"price-tracker/core/ledger"
	"price-tracker/core/reconcile"
	"price-tracker/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedConnector returns canned payloads and records.
type scriptedConnector struct {
	source    string
	payload   []byte
	fetchErrs []error // consumed one per Fetch call, nil means success
	records   []catalog.ProductRecord
	normErr   error
	fetches   int
}

func (s *scriptedConnector) Source() string { return s.source }

func (s *scriptedConnector) Fetch(ctx context.Context) ([]byte, error) {
	call := s.fetches
	s.fetches++
	if call < len(s.fetchErrs) && s.fetchErrs[call] != nil {
		return nil, s.fetchErrs[call]
	}
	return s.payload, nil
}

func (s *scriptedConnector) Normalize(payload []byte) ([]catalog.ProductRecord, error) {
	if s.normErr != nil {
		return nil, s.normErr
	}
	return s.records, nil
}

func product(key, price string) catalog.ProductRecord {
	return catalog.ProductRecord{
		NaturalKey:  key,
		NormalPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true},
	}
}

func newTestOrchestrator(conn connector.Connector, archiver *Archiver, cfg Config) (*Orchestrator, *ledger.MemoryStore) {
	registry := connector.NewRegistry()
	registry.Register(conn)
	store := ledger.NewMemoryStore()
	engine := reconcile.NewEngine(store, zap.NewNop(), reconcile.Options{})
	if cfg.Sources == "" {
		cfg.Sources = conn.Source()
	}
	return New(registry, engine, store, archiver, zap.NewNop(), cfg), store
}

// TestRunCycle_StateTransitions tests UNINITIALIZED -> INITIALIZING on an
// empty ledger and STEADY after a successful cycle.
func TestRunCycle_StateTransitions(t *testing.T) {
	conn := &scriptedConnector{
		source:  "K-ruoka",
		payload: []byte(`{}`),
		records: []catalog.ProductRecord{product("a", "7.95")},
	}
	orch, _ := newTestOrchestrator(conn, nil, Config{})

	status := orch.Status()
	require.Len(t, status, 1)
	assert.Equal(t, StateUninitialized, status[0].State)

	result, err := orch.RunCycle(context.Background(), "K-ruoka")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)

	status = orch.Status()
	assert.Equal(t, StateSteady, status[0].State)
	assert.NotEmpty(t, status[0].LastCycleID)
	assert.NotNil(t, status[0].LastRun)
	require.NotNil(t, status[0].LastResult)
	assert.Equal(t, 1, status[0].LastResult.Inserted)
	assert.Empty(t, status[0].LastError)
}

// TestRunCycle_UnknownSource tests that an unregistered source fails without
// touching anything.
func TestRunCycle_UnknownSource(t *testing.T) {
	conn := &scriptedConnector{source: "K-ruoka", payload: []byte(`{}`)}
	orch, store := newTestOrchestrator(conn, nil, Config{})

	_, err := orch.RunCycle(context.Background(), "Lidl")
	assert.Error(t, err)
	assert.Empty(t, store.AllRows("Lidl"))
}

// TestRunCycle_RetriesTransient tests that transient fetch failures are
// retried and a later success completes the cycle.
func TestRunCycle_RetriesTransient(t *testing.T) {
	conn := &scriptedConnector{
		source:  "K-ruoka",
		payload: []byte(`{}`),
		records: []catalog.ProductRecord{product("a", "7.95")},
		fetchErrs: []error{
			&connector.TransientError{Source: "K-ruoka", Err: errors.New("reset")},
			&connector.TransientError{Source: "K-ruoka", Err: errors.New("reset")},
			nil,
		},
	}
	orch, _ := newTestOrchestrator(conn, nil, Config{FetchRetries: 3})

	result, err := orch.RunCycle(context.Background(), "K-ruoka")
	require.NoError(t, err)
	assert.Equal(t, 3, conn.fetches)
	assert.Equal(t, 1, result.Inserted)
}

// TestRunCycle_ValidationNotRetried tests that a validation failure aborts
// the cycle immediately and leaves the ledger untouched.
func TestRunCycle_ValidationNotRetried(t *testing.T) {
	conn := &scriptedConnector{
		source: "K-ruoka",
		fetchErrs: []error{
			&connector.ValidationError{Source: "K-ruoka", Reason: "challenge page"},
		},
	}
	orch, store := newTestOrchestrator(conn, nil, Config{FetchRetries: 3})

	_, err := orch.RunCycle(context.Background(), "K-ruoka")
	var verr *connector.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, conn.fetches)
	assert.Empty(t, store.AllRows("K-ruoka"))

	status := orch.Status()
	require.Len(t, status, 1)
	assert.NotEmpty(t, status[0].LastError)
	assert.Nil(t, status[0].LastResult)
}

// TestRunCycle_NormalizeFailureStopsBeforeLedger tests that a bad payload
// discovered during normalization never reaches the engine.
func TestRunCycle_NormalizeFailureStopsBeforeLedger(t *testing.T) {
	conn := &scriptedConnector{
		source:  "K-ruoka",
		payload: []byte(`<html>`),
		normErr: &connector.ValidationError{Source: "K-ruoka", Reason: "HTML payload"},
	}
	orch, store := newTestOrchestrator(conn, nil, Config{})

	_, err := orch.RunCycle(context.Background(), "K-ruoka")
	assert.Error(t, err)
	assert.Empty(t, store.AllRows("K-ruoka"))
}

// TestRunCycle_ArchivesPayload tests that the raw payload lands in object
// storage under the source prefix.
func TestRunCycle_ArchivesPayload(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "price-tracker-raw").Return(true, nil)
	client.On("PutObject", mock.Anything, "price-tracker-raw",
		mock.MatchedBy(func(name string) bool {
			return len(name) > len("raw/K-ruoka/") && name[:len("raw/K-ruoka/")] == "raw/K-ruoka/"
		}),
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	archiver, err := NewArchiver(context.Background(), client, "price-tracker-raw")
	require.NoError(t, err)

	conn := &scriptedConnector{
		source:  "K-ruoka",
		payload: []byte(`{"result": []}`),
		records: []catalog.ProductRecord{product("a", "7.95")},
	}
	orch, _ := newTestOrchestrator(conn, archiver, Config{})

	_, err = orch.RunCycle(context.Background(), "K-ruoka")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

// TestRunCycle_ArchiveFailureIsBestEffort tests that a failed upload does not
// fail the cycle.
func TestRunCycle_ArchiveFailureIsBestEffort(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "price-tracker-raw").Return(true, nil)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("storage down"))

	archiver, err := NewArchiver(context.Background(), client, "price-tracker-raw")
	require.NoError(t, err)

	conn := &scriptedConnector{
		source:  "K-ruoka",
		payload: []byte(`{"result": []}`),
		records: []catalog.ProductRecord{product("a", "7.95")},
	}
	orch, _ := newTestOrchestrator(conn, archiver, Config{})

	result, err := orch.RunCycle(context.Background(), "K-ruoka")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

// TestStatus_Order tests that status entries follow the configured source
// order.
func TestStatus_Order(t *testing.T) {
	registry := connector.NewRegistry()
	store := ledger.NewMemoryStore()
	engine := reconcile.NewEngine(store, zap.NewNop(), reconcile.Options{})
	orch := New(registry, engine, store, nil, zap.NewNop(), Config{Sources: "S-Ryhma, K-ruoka"})

	status := orch.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "S-Ryhma", status[0].Source)
	assert.Equal(t, "K-ruoka", status[1].Source)
}
