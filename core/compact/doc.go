// Package compact collapses the full version sequence of one product into
// human-readable price intervals.
//
// Consecutive ledger rows that share the same effective price (see
// catalog.EffectivePrice) belong to one interval; descriptive fields such as
// the product name may drift inside an interval without being treated as a
// price event. Compact is a pure function of its input rows and can be
// recomputed freely on every read.
package compact
