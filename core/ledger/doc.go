// Package ledger persists the append-only, temporally-versioned product
// price ledger.
//
// The Store interface is the only write path into the ledger. ApplyDelta is
// the single mutation: it closes the current rows for a set of keys and
// inserts the replacement rows in one database transaction, so a partial
// delta is never observable. Rows are never deleted; history queries read
// the full version sequence per key.
//
// The MySQL implementation also exposes a per-source advisory lock
// (GET_LOCK) used by the reconciliation engine to serialize cycles for the
// same data source while letting different sources proceed in parallel.
package ledger
