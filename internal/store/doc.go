// Package store provides SQLite-backed storage for reconciled usage events.
//
// Events are partitioned by day and workspace. Folding a tracking period into
// a partition loads the partition, reconciles it with the period's records via
// merge.Registry, and rewrites it, all in one transaction.
//
// # Guarantees
//
//   - Idempotent folds: every fold carries a token; folding the same token
//     twice is a no-op.
//   - Deterministic reads: events come back ORDER BY kind, position.
//   - Rebuildable partitions: the raw records of every fold are kept in
//     flush_events, so Rebuild can replay them in seq order and Verify can
//     compare the result with the stored partition.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Payloads are canonical JSON produced by internal/canon.
package store
