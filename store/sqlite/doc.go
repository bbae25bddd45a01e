// Package sqlite provides a SQLite-backed SnapshotStore.
//
// Snapshots are kept in a single table (default "snapshots") indexed by run
// id; node records and metadata are stored as JSON text.
//
// # Basic Usage
//
//	s, err := sqlite.NewSqliteSnapshotStore(sqlite.SqliteOptions{
//		Path: "./runs.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	rec := store.NewRecorder(s, "pipeline")
//	out, snap, err := rec.Run(ctx, g, input)
//
// Use a file path rather than ":memory:": database/sql may open several
// connections, and each in-memory connection sees its own empty database.
package sqlite
