package connector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"price-tracker/core/catalog"
)

// Connector is the per-retailer capability interface: one network fetch and
// one payload normalizer. Implementations must be safe for concurrent use.
type Connector interface {
	// Source returns the data source name the connector serves.
	Source() string

	// Fetch performs the retailer-specific network call and returns the
	// raw payload. Network failures are wrapped in TransientError.
	Fetch(ctx context.Context) ([]byte, error)

	// Normalize validates the raw payload and converts it into canonical
	// product records. Malformed or challenge payloads yield a
	// ValidationError.
	Normalize(payload []byte) ([]catalog.ProductRecord, error)
}

// Registry is the lookup table of connectors keyed by source name.
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]Connector
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{connectors: make(map[string]Connector)}
}

// Register adds a connector. Registering the same source twice is a
// programming error and panics early.
func (r *Registry) Register(c Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.connectors[c.Source()]; exists {
		panic(fmt.Sprintf("connector: duplicate registration for source %q", c.Source()))
	}
	r.connectors[c.Source()] = c
}

// Lookup returns the connector for a source name.
func (r *Registry) Lookup(source string) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[source]
	return c, ok
}

// Sources returns the registered source names, sorted.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.connectors))
	for name := range r.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
