// Package tracker exposes the operational surface of the price tracker:
// triggering a reconcile cycle on demand, inspecting per-source cycle
// status, verifying the ledger table schema, and listing archived raw
// payloads.
package tracker
