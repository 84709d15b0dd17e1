// Package database provides SQLite-based storage for mirror run history.
//
// This package implements the MirrorDB, which stores:
//   - One row per mirror run with its counters and full report JSON
//   - Per-page and per-asset outcomes for later inspection
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
