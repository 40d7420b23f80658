// Package storage persists indexed chunks in an embedded SQLite database
// with FTS5 full-text search.
//
// # Schema
//
// Three application tables:
//   - file_meta: one row per indexed file (path, mtime_ns, chunk_count),
//     driving incremental updates
//   - chunks_content: the backing rows for every chunk
//   - chunks: an FTS5 external-content virtual table over file_path,
//     chunk_type, symbol_name and content, kept in sync by triggers
//
// There is no cross-version migration. On open, a missing table or a
// version mismatch in schema_version drops and recreates the whole schema;
// the indexer repopulates it from disk on the next refresh. The database
// file is safe to delete while the service is not running.
//
// # Ranking
//
// Search uses FTS5's built-in bm25 rank, where more-negative values are
// better matches. Chunks from doc-boost files have their rank multiplied by
// types.DocBoost, which preserves the orientation, so results are always
// ordered by score ascending.
//
// # Concurrency
//
// The connection pool is capped at a single connection and the database
// runs in WAL mode: one writer, readers observing either the pre- or
// post-commit state of any file. One logical write is one UpsertFile or
// DeleteFile call, each a single transaction.
//
// # Drivers
//
// Two interchangeable drivers are selected at build time:
//
//	CGO_ENABLED=1 go build -tags fts5 ./...   # mattn/go-sqlite3
//	go build ./...                            # modernc.org/sqlite (default)
//
// The modernc driver needs no C compiler, but the module as a whole does:
// the tree-sitter grammars imported by internal/resolver are cgo packages.
package storage
