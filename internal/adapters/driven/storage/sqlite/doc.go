// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - ReferenceStore: Reference and asset persistence
//   - AnchorStore: Anchor persistence, including the composite transactional
//     creation of located text annotations
//   - NoteStore: Note persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.stroma/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Per-reference sequence numbers (local_no) are computed
// inside the same transaction as the insert that consumes them, so concurrent
// writers cannot race to the same number.
package sqlite
