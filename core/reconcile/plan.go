package reconcile

import (
	"sort"

	"price-tracker/core/catalog"
)

// BuildDelta classifies an incoming snapshot against the current
// (natural_key -> content_hash) set of one source. It is a pure function:
// no I/O, no clock, deterministic output for deterministic input.
//
// When the snapshot carries the same key more than once the last occurrence
// wins; sources occasionally paginate the same product into two pages.
func BuildDelta(current map[string]string, incoming []Record) Delta {
	latest := make(map[string]Record, len(incoming))
	order := make([]string, 0, len(incoming))
	for _, rec := range incoming {
		if _, seen := latest[rec.NaturalKey]; !seen {
			order = append(order, rec.NaturalKey)
		}
		latest[rec.NaturalKey] = rec
	}

	var delta Delta
	for _, key := range order {
		rec := latest[key]
		hash, exists := current[key]
		switch {
		case !exists:
			delta.New = append(delta.New, rec)
		case hash != rec.Fingerprint:
			delta.Changed = append(delta.Changed, rec)
		default:
			delta.Unchanged++
		}
	}

	for key := range current {
		if _, ok := latest[key]; !ok {
			delta.Disappeared = append(delta.Disappeared, key)
		}
	}
	// Map iteration order is random; sort for deterministic logs and tests.
	sort.Strings(delta.Disappeared)

	return delta
}

// closures lists every key whose current row must be closed: changed keys
// get a replacement row, disappeared keys do not.
func (d Delta) closures() []string {
	keys := make([]string, 0, len(d.Changed)+len(d.Disappeared))
	for _, rec := range d.Changed {
		keys = append(keys, rec.NaturalKey)
	}
	keys = append(keys, d.Disappeared...)
	return keys
}

// inserts builds the new current rows for NEW and CHANGED records. The store
// stamps valid_from with the cycle timestamp during ApplyDelta.
func (d Delta) inserts() []catalog.LedgerRow {
	rows := make([]catalog.LedgerRow, 0, len(d.New)+len(d.Changed))
	for _, rec := range d.New {
		rows = append(rows, catalog.LedgerRow{ProductRecord: rec.ProductRecord, ContentHash: rec.Fingerprint})
	}
	for _, rec := range d.Changed {
		rows = append(rows, catalog.LedgerRow{ProductRecord: rec.ProductRecord, ContentHash: rec.Fingerprint})
	}
	return rows
}
