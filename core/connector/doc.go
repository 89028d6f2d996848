// Package connector fetches raw product payloads from external retailers
// and normalizes them into canonical product records.
//
// Every retailer implements the Connector interface; implementations are
// selected from a registry keyed by source name, so adding a retailer is a
// new file plus a Register call, not a new hierarchy.
//
// Normalize doubles as the validation gate: payloads that are empty, not
// the expected JSON shape, or look like an anti-bot challenge page are
// rejected with a ValidationError before any reconciliation can mistake a
// failed fetch for "everything disappeared". Network-level failures are
// reported as TransientError and retried by the orchestrator; a circuit
// breaker around Fetch keeps a flapping retailer from being hammered.
package connector
