// Package orchestrator sequences fetch-and-reconcile cycles per data
// source.
//
// Each source moves through a small state machine: UNINITIALIZED until the
// ledger is first consulted, INITIALIZING while the ledger is empty for the
// source, STEADY after the first successful reconcile. There is no separate
// init algorithm: bulk-loading an empty ledger is just the NEW branch of
// the same reconciliation.
//
// A cycle is: fetch (bounded retries on transient failures), optionally
// archive the raw payload to object storage, normalize, fingerprint,
// reconcile. Any failure ends the cycle without touching the ledger; the
// next scheduled cycle retries independently and catches up, because
// reconciliation compares against ledger state, not the previous cycle's
// outcome.
package orchestrator
