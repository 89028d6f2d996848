package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"price-tracker/core/ledger"

	"go.uber.org/zap"
)

// ErrEmptySnapshot is returned when a source that currently has ledger rows
// delivers an empty snapshot and is not configured to allow it. Nothing is
// written; the condition is surfaced instead of auto-applied as a mass
// disappearance.
var ErrEmptySnapshot = errors.New("reconcile: empty snapshot for non-empty source")

// ErrSourceBusy is returned when another cycle holds the per-source lock
// beyond the configured wait.
var ErrSourceBusy = errors.New("reconcile: source lock held by another cycle")

// Options tunes engine policy.
type Options struct {
	// AllowEmpty lists sources whose empty snapshots are trusted as "the
	// source really has zero products" and applied as disappearances.
	AllowEmpty []string

	// LockWait bounds how long a cycle waits for the per-source lock.
	LockWait time.Duration
}

// Engine drives the read-classify-apply sequence against a version store.
type Engine struct {
	store      ledger.Store
	logger     *zap.Logger
	allowEmpty map[string]struct{}
	lockWait   time.Duration
}

// NewEngine creates a reconciliation engine. The store is injected
// explicitly; the engine holds no connection state of its own.
func NewEngine(store ledger.Store, logger *zap.Logger, opts Options) *Engine {
	allow := make(map[string]struct{}, len(opts.AllowEmpty))
	for _, s := range opts.AllowEmpty {
		allow[s] = struct{}{}
	}
	lockWait := opts.LockWait
	if lockWait <= 0 {
		lockWait = 10 * time.Second
	}
	return &Engine{
		store:      store,
		logger:     logger,
		allowEmpty: allow,
		lockWait:   lockWait,
	}
}

// Reconcile merges one snapshot for one source into the ledger at timestamp
// at. The whole sequence runs under the source's advisory lock so two
// overlapping cycles can never observe the same current set and double-close
// the same keys.
func (e *Engine) Reconcile(ctx context.Context, source string, incoming []Record, at time.Time) (Result, error) {
	var result Result
	locked, err := e.store.WithSourceLock(ctx, source, e.lockWait, func(ctx context.Context) error {
		var err error
		result, err = e.reconcileLocked(ctx, source, incoming, at)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	if !locked {
		return Result{}, fmt.Errorf("%w: %s", ErrSourceBusy, source)
	}
	return result, nil
}

// reconcileLocked is the read-classify-apply sequence. It must only run
// inside the source's lock scope.
func (e *Engine) reconcileLocked(ctx context.Context, source string, incoming []Record, at time.Time) (Result, error) {
	current, err := e.store.CurrentRows(ctx, source)
	if err != nil {
		return Result{}, err
	}

	if len(incoming) == 0 && len(current) > 0 {
		if _, ok := e.allowEmpty[source]; !ok {
			return Result{}, fmt.Errorf("%w: %s has %d current rows", ErrEmptySnapshot, source, len(current))
		}
		e.logger.Warn("Applying trusted empty snapshot",
			zap.String("source", source),
			zap.Int("current_rows", len(current)))
	}

	delta := BuildDelta(current, incoming)
	if delta.IsNoop() {
		e.logger.Info("Snapshot unchanged, zero writes",
			zap.String("source", source),
			zap.Int("unchanged", delta.Unchanged))
		return delta.Result(), nil
	}

	// The write is all-or-nothing; bail out before it if the cycle was
	// cancelled while we were classifying.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	applied, err := e.store.ApplyDelta(ctx, source, delta.closures(), delta.inserts(), at)
	if err != nil {
		return Result{}, err
	}

	result := delta.Result()
	e.logger.Info("Reconcile cycle applied",
		zap.String("source", source),
		zap.Time("as_of", at),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("disappeared", result.Disappeared),
		zap.Int("unchanged", result.Unchanged),
		zap.Int64("rows_closed", applied.Closed),
		zap.Int64("rows_inserted", applied.Inserted))

	return result, nil
}
