package connector

import (
	"context"
	"errors"
	"testing"

	"price-tracker/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConnector lets tests script Fetch outcomes.
type stubConnector struct {
	source   string
	payload  []byte
	fetchErr error
	calls    int
}

func (s *stubConnector) Source() string { return s.source }

func (s *stubConnector) Fetch(ctx context.Context) ([]byte, error) {
	s.calls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.payload, nil
}

func (s *stubConnector) Normalize(payload []byte) ([]catalog.ProductRecord, error) {
	return nil, nil
}

// TestRegistry tests registration, lookup, and sorted source listing.
func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubConnector{source: "S-Ryhma"})
	r.Register(&stubConnector{source: "K-ruoka"})

	c, ok := r.Lookup("K-ruoka")
	assert.True(t, ok)
	assert.Equal(t, "K-ruoka", c.Source())

	_, ok = r.Lookup("Lidl")
	assert.False(t, ok)

	assert.Equal(t, []string{"K-ruoka", "S-Ryhma"}, r.Sources())
}

// TestRegistry_DuplicatePanics tests that double registration is caught at
// startup.
func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubConnector{source: "K-ruoka"})
	assert.Panics(t, func() {
		r.Register(&stubConnector{source: "K-ruoka"})
	})
}

// TestWithBreaker_OpensAfterConsecutiveFailures tests that the breaker fails
// fast after three consecutive fetch errors and that fast failures surface
// as transient.
func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubConnector{source: "K-ruoka", fetchErr: errors.New("connection reset")}
	wrapped := WithBreaker(stub)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := wrapped.Fetch(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, 3, stub.calls)

	// Breaker is now open: the inner connector is no longer called.
	_, err := wrapped.Fetch(ctx)
	var terr *TransientError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, 3, stub.calls)
}

// TestWithBreaker_PassesThrough tests that a healthy connector is unaffected.
func TestWithBreaker_PassesThrough(t *testing.T) {
	stub := &stubConnector{source: "K-ruoka", payload: []byte(`{"result": []}`)}
	wrapped := WithBreaker(stub)

	assert.Equal(t, "K-ruoka", wrapped.Source())

	body, err := wrapped.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stub.payload, body)
}
