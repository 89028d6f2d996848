package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"price-tracker/core/canonical"
	"price-tracker/core/connector"
	"price-tracker/core/ledger"
	"price-tracker/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the per-source lifecycle position.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateInitializing  State = "INITIALIZING"
	StateSteady        State = "STEADY"
)

// SourceStatus is the externally visible record of a source's last cycle.
type SourceStatus struct {
	Source      string            `json:"source"`
	State       State             `json:"state"`
	LastCycleID string            `json:"last_cycle_id,omitempty"`
	LastRun     *time.Time        `json:"last_run,omitempty"`
	LastResult  *reconcile.Result `json:"last_result,omitempty"`
	LastError   string            `json:"last_error,omitempty"`
}

// Orchestrator runs fetch-and-reconcile cycles. All collaborators are
// injected; it owns no connections.
type Orchestrator struct {
	registry *connector.Registry
	engine   *reconcile.Engine
	store    ledger.Store
	archiver *Archiver
	logger   *zap.Logger
	cfg      Config

	mu     sync.Mutex
	status map[string]*SourceStatus
}

// New creates an orchestrator. archiver may be nil when payload archiving is
// disabled.
func New(registry *connector.Registry, engine *reconcile.Engine, store ledger.Store, archiver *Archiver, logger *zap.Logger, cfg Config) *Orchestrator {
	status := make(map[string]*SourceStatus)
	for _, source := range cfg.SourceList() {
		status[source] = &SourceStatus{Source: source, State: StateUninitialized}
	}
	return &Orchestrator{
		registry: registry,
		engine:   engine,
		store:    store,
		archiver: archiver,
		logger:   logger,
		cfg:      cfg,
		status:   status,
	}
}

// Sources returns the enabled source names.
func (o *Orchestrator) Sources() []string {
	return o.cfg.SourceList()
}

// Status returns a snapshot of every source's state.
func (o *Orchestrator) Status() []SourceStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]SourceStatus, 0, len(o.status))
	for _, source := range o.cfg.SourceList() {
		if st, ok := o.status[source]; ok {
			out = append(out, *st)
		}
	}
	return out
}

// RunCycle executes one full cycle for one source. Failures never mutate
// the ledger; they are recorded in the source status and returned.
func (o *Orchestrator) RunCycle(ctx context.Context, source string) (reconcile.Result, error) {
	cycleID := uuid.NewString()
	l := o.logger.With(zap.String("source", source), zap.String("cycle_id", cycleID))

	result, err := o.runCycle(ctx, l, source, cycleID)

	now := time.Now().UTC()
	o.mu.Lock()
	st, ok := o.status[source]
	if !ok {
		st = &SourceStatus{Source: source, State: StateUninitialized}
		o.status[source] = st
	}
	st.LastCycleID = cycleID
	st.LastRun = &now
	if err != nil {
		st.LastResult = nil
		st.LastError = err.Error()
	} else {
		st.State = StateSteady
		res := result
		st.LastResult = &res
		st.LastError = ""
	}
	o.mu.Unlock()

	return result, err
}

func (o *Orchestrator) runCycle(ctx context.Context, l *zap.Logger, source, cycleID string) (reconcile.Result, error) {
	conn, ok := o.registry.Lookup(source)
	if !ok {
		return reconcile.Result{}, fmt.Errorf("orchestrator: unknown source %q", source)
	}

	timeout := time.Duration(o.cfg.CycleTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Resolve the state machine position before fetching so the INIT vs
	// UPDATE decision shows up in the logs even when the fetch fails.
	if err := o.resolveState(ctx, l, source); err != nil {
		return reconcile.Result{}, err
	}

	started := time.Now()
	payload, err := o.fetchWithRetry(ctx, l, conn)
	if err != nil {
		return reconcile.Result{}, err
	}
	l.Info("Fetched source payload",
		zap.Int("bytes", len(payload)),
		zap.Duration("duration", time.Since(started)))

	if o.archiver != nil {
		// Best effort: a failed archive must not block reconciliation.
		if err := o.archiver.Put(ctx, source, cycleID, payload); err != nil {
			l.Warn("Payload archive failed", zap.Error(err))
		}
	}

	records, err := conn.Normalize(payload)
	if err != nil {
		return reconcile.Result{}, err
	}

	incoming := make([]reconcile.Record, len(records))
	for i, rec := range records {
		incoming[i] = reconcile.Record{
			ProductRecord: rec,
			Fingerprint:   canonical.Fingerprint(rec),
		}
	}

	return o.engine.Reconcile(ctx, source, incoming, time.Now().UTC())
}

// resolveState moves UNINITIALIZED sources to INITIALIZING or STEADY based
// on whether the ledger already holds rows for them.
func (o *Orchestrator) resolveState(ctx context.Context, l *zap.Logger, source string) error {
	o.mu.Lock()
	st, ok := o.status[source]
	if !ok {
		st = &SourceStatus{Source: source, State: StateUninitialized}
		o.status[source] = st
	}
	state := st.State
	o.mu.Unlock()

	if state != StateUninitialized {
		return nil
	}

	count, err := o.store.CountRows(ctx, source)
	if err != nil {
		return err
	}

	next := StateSteady
	if count == 0 {
		next = StateInitializing
		l.Info("Source ledger empty, first cycle will bulk-insert")
	}

	o.mu.Lock()
	st.State = next
	o.mu.Unlock()
	return nil
}

// fetchWithRetry retries transient fetch failures with linear backoff
// inside the cycle deadline. Validation failures are not retried; the next
// scheduled cycle handles those.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, l *zap.Logger, conn connector.Connector) ([]byte, error) {
	attempts := o.cfg.FetchRetries
	if attempts <= 0 {
		attempts = 1
	}
	backoff := time.Duration(o.cfg.RetryBackoffSeconds) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, err := conn.Fetch(ctx)
		if err == nil {
			return payload, nil
		}
		lastErr = err

		var transient *connector.TransientError
		if !errors.As(err, &transient) {
			return nil, err
		}
		l.Warn("Transient fetch failure",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}
