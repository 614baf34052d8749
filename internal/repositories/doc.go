// Package repositories implements SQLite persistence for the local object store.
//
// Key Implementations:
//   - [ObjectRepository] : uploaded photo blobs keyed by their storage key
//
// Sequence numbers provide stable listing order independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
