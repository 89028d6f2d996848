// Package prices exposes the read-side "current snapshot" endpoints: every
// current ledger row per source, decorated with the centrally defined
// effective price and price-per-unit metrics.
package prices
