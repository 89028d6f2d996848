// Package canonical produces the deterministic string encoding of a product's
// mutable fields and the SHA-256 content fingerprint derived from it.
//
// The encoding is the load-bearing property for change detection: two records
// with equal mutable fields must encode (and therefore hash) identically on
// every machine and in every process. To guarantee that the encoding uses a
// fixed field order, a dedicated null sentinel that cannot appear in any
// legitimate value, fixed-scale decimal rendering, and escaping of the field
// separator inside string values.
//
// Any change to the field order, the sentinel, or the numeric formatting
// invalidates every stored fingerprint; bump EncodingVersion when that
// happens so mixed-version hashes can never be compared silently.
package canonical
