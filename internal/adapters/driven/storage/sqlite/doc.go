// Package sqlite provides the SQLite-based implementation of driven.CatalogStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation to every host in a fleet.
//
// # Schema
//
// A catalog holds exactly two tables, created idempotently from schema/schema.sql
// every time a store is opened for writing with Open:
//
//   - hash: content identities keyed by (hash, size), with a best-effort mime
//   - file: paths keyed by (host, full_path), referencing a hash row
//
// The schema is not versioned. Foreign keys are enforced on every connection.
//
// # Read-only catalogs
//
// OpenReadOnly opens an existing file with mode=ro and query_only. It never
// creates tables or switches the journal mode, and rejects files that lack
// the catalog tables with domain.ErrNotFound.
//
// # Conflicts
//
// Inserts use ON CONFLICT DO NOTHING and report domain.AlreadyExists when no
// row was written. Any other failure is returned as a *domain.StorageError.
//
// # Thread Safety
//
// All operations are thread-safe. Writers are serialised by the store; readers
// of writable catalogs rely on SQLite in WAL mode.
package sqlite
