// Package catalog defines the canonical product and ledger row shapes shared
// by every component of the tracker.
//
// A ProductRecord is the source-agnostic view of one retail product as
// observed during a single fetch cycle. Each external retailer (data source)
// identifies products by its own natural key; keys are only meaningful within
// their source and are never compared across sources.
//
// A LedgerRow is a ProductRecord plus versioning metadata: the content hash
// used for change detection, and the [valid_from, valid_to) interval during
// which the state was current. A nil ValidTo marks the current row.
//
// The package also hosts the single definition of the effective price rule
// (batch price when present and lower, otherwise normal price) so that no
// consumer reimplements it ad hoc.
package catalog
