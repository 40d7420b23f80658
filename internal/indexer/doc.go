// Package indexer keeps the persistent chunk index in agreement with the
// filesystem.
//
// Refresh walks the project tree (skipping types.SkipDirs and anything
// without an indexable extension), compares modification times against the
// store, re-chunks only the files that changed, and deletes rows for files
// that disappeared. Chunking runs across a worker pool; store writes go
// through the store's single writer. Refresh is idempotent and best-effort
// per file: a read error is logged, the file is skipped, and any rows it
// already had are left in place.
//
// Rebuild clears the store and refreshes from scratch.
package indexer
