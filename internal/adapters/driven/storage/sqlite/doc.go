// Package sqlite persists vector indexes as SQLite snapshot files.
//
// The driver is modernc.org/sqlite, so the binary needs no CGO.
//
// # Layout
//
// One database holds one index: an index_meta row (schema version, model,
// dimension, chunk count, creation time) and a chunks table of chunk text,
// source, position and a little-endian float32 vector blob. Tables come from
// the versioned .up.sql files in migrations/.
//
// # Data Location
//
// The index lives at <cache_dir>/index.db. Saves write a complete new database
// next to it and rename it into place, so readers never see a partial index.
package sqlite
