// Package reconcile merges a freshly fetched product snapshot into the
// temporally-versioned price ledger.
//
// Each incoming record is classified against the source's current ledger
// rows purely by natural key and content fingerprint:
//
//   - key absent from the ledger            -> NEW
//   - key present, fingerprint differs     -> CHANGED
//   - key present, fingerprint equal       -> UNCHANGED (zero writes)
//   - ledger key absent from the snapshot  -> DISAPPEARED
//
// The resulting delta is applied as a single atomic store transaction:
// CHANGED and DISAPPEARED rows are closed at the cycle timestamp, NEW and
// CHANGED records are inserted as new current rows. Re-running the same
// snapshot is a no-op because every fingerprint matches.
//
// Cycles are serialized per data source through the store's advisory lock;
// cycles for different sources run independently. An empty snapshot from a
// source that currently has rows is refused rather than applied as a mass
// disappearance, since it is indistinguishable from a degraded fetch;
// sources that can legitimately return zero products opt in via
// configuration.
package reconcile
