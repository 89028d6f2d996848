// Package history exposes the read-side price history endpoint: the full
// version sequence of one product compacted into price intervals.
package history
