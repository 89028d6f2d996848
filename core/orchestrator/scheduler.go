package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Run blocks until ctx is cancelled, executing one cycle per enabled source
// every interval. Sources run concurrently with each other; per-source
// overlap is prevented by the engine's advisory lock, not here.
func (o *Orchestrator) Run(ctx context.Context) {
	interval := time.Duration(o.cfg.IntervalSeconds) * time.Second
	if o.cfg.IntervalSeconds <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	o.logger.Info("Scheduler started",
		zap.Duration("interval", interval),
		zap.Strings("sources", o.Sources()))

	// One pass immediately so a fresh deployment doesn't wait a full
	// interval for its first data.
	o.runAll(ctx)

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("Scheduler stopping")
			return
		case <-ticker.C:
			o.runAll(ctx)
		}
	}
}

func (o *Orchestrator) runAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, source := range o.Sources() {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()
			if _, err := o.RunCycle(ctx, source); err != nil {
				o.logger.Error("Cycle failed", zap.String("source", source), zap.Error(err))
			}
		}(source)
	}
	wg.Wait()
}
