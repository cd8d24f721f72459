// Package types contains the shared domain types and interfaces for the
// leadsync library.
//
// It defines leads, assignments, aggregate statistics, the broadcast message
// envelope with its typed payloads, sentinel errors, and the Logger /
// MetricsCollector / Distributor interfaces implemented elsewhere.
//
// Internal packages depend on types directly; the root leadsync package
// re-exports the public surface via type aliases so callers can write
// leadsync.Lead, leadsync.Assignment, and so on without importing this
// package explicitly.
package types
