// Package store persists snapshots of graph runs.
//
// A Snapshot holds the externally visible state of every node of a graph
// (id, name, variant, evaluated flag and cached value) as produced by
// graph.Node.Record, so taking one never triggers evaluation. A Recorder runs
// a graph and saves a snapshot after each run, keyed by a run id.
//
// Backends implementing SnapshotStore live in sub-packages:
//   - memory: in-process map, for tests and short-lived tools
//   - file: one JSON file per snapshot
//   - sqlite: database/sql with github.com/mattn/go-sqlite3
//   - redis: github.com/redis/go-redis/v9, with optional expiration
//   - postgres: github.com/jackc/pgx/v5 connection pools
//
// store/open selects a backend from config.Config.
package store
