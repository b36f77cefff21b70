// Package store runs compiled queries against SQLite and keeps an audit
// log of compensations.
//
// Entity tables are created from a model: one table per entity, one column
// per property, with the store type of the property's mapping. Rows go in
// as logical values and are converted to their physical form on insert;
// query results come back physical and are converted by result column.
//
// The audit log is append-only:
//   - compensations: one row per (run, query fingerprint)
//   - every run has a UUIDv7 id, so runs sort by creation time
//   - reads are ORDER BY seq ASC, id COLLATE BINARY ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
