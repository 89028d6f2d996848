package reconcile

import "price-tracker/core/catalog"

// Record is one incoming product together with its precomputed content
// fingerprint. The engine never recomputes fingerprints; canonical encoding
// and hashing happen in exactly one place upstream.
type Record struct {
	catalog.ProductRecord

	// Fingerprint is the SHA-256 hex digest over the record's mutable
	// fields.
	Fingerprint string
}

// Result reports the classification counts of one reconcile cycle.
type Result struct {
	// Inserted counts NEW keys that received a first current row.
	Inserted int `json:"inserted"`

	// Updated counts CHANGED keys whose previous row was closed and a new
	// current row inserted.
	Updated int `json:"updated"`

	// Disappeared counts keys present in the ledger but absent from the
	// snapshot; their rows were closed, never deleted.
	Disappeared int `json:"disappeared"`

	// Unchanged counts keys whose fingerprint matched; they caused zero
	// writes.
	Unchanged int `json:"unchanged"`
}

// Delta is the planned mutation set for one cycle. It is a pure function of
// the current (key, hash) set and the incoming snapshot; applying it is a
// separate, transactional step.
type Delta struct {
	New         []Record
	Changed     []Record
	Disappeared []string
	Unchanged   int
}

// IsNoop reports whether the delta requires no writes.
func (d Delta) IsNoop() bool {
	return len(d.New) == 0 && len(d.Changed) == 0 && len(d.Disappeared) == 0
}

// Result converts the delta into its classification counts.
func (d Delta) Result() Result {
	return Result{
		Inserted:    len(d.New),
		Updated:     len(d.Changed),
		Disappeared: len(d.Disappeared),
		Unchanged:   d.Unchanged,
	}
}
