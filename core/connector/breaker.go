package connector

import (
	"context"
	"errors"
	"time"

	"price-tracker/core/catalog"

	"github.com/sony/gobreaker/v2"
)

// WithBreaker wraps a connector's Fetch in a circuit breaker. After three
// consecutive failures the breaker opens and fetches fail fast as
// TransientError until the cool-down elapses; Normalize is unaffected.
func WithBreaker(c Connector) Connector {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        c.Source(),
		MaxRequests: 1,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &breakerConnector{inner: c, cb: cb}
}

type breakerConnector struct {
	inner Connector
	cb    *gobreaker.CircuitBreaker[[]byte]
}

func (b *breakerConnector) Source() string {
	return b.inner.Source()
}

func (b *breakerConnector) Fetch(ctx context.Context) ([]byte, error) {
	payload, err := b.cb.Execute(func() ([]byte, error) {
		return b.inner.Fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TransientError{Source: b.Source(), Err: err}
		}
		return nil, err
	}
	return payload, nil
}

func (b *breakerConnector) Normalize(payload []byte) ([]catalog.ProductRecord, error) {
	return b.inner.Normalize(payload)
}
