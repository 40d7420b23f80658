package storage

import (
	"context"

	"github.com/huiyuanXP/racode/pkg/types"
)

// Store defines the interface for persisting and querying indexed chunks.
// The store exclusively owns all persisted rows; one logical write is one
// UpsertFile or DeleteFile call, each committed as a single transaction.
type Store interface {
	// GetFileMeta returns the metadata row for a path, or types.ErrNotFound.
	GetFileMeta(ctx context.Context, path string) (*types.FileMeta, error)

	// UpsertFile atomically replaces all chunks for a path and upserts its
	// metadata row. Chunks are replaced en bloc, never mutated in place.
	UpsertFile(ctx context.Context, path string, mtimeNS int64, chunks []types.Chunk) error

	// DeleteFile removes the metadata row and all owned chunks atomically.
	DeleteFile(ctx context.Context, path string) error

	// AllFileMeta returns every indexed path mapped to its stored mtime.
	AllFileMeta(ctx context.Context) (map[string]int64, error)

	// Search executes a full-text query with BM25 ranking and the doc-file
	// boost. matchExpr must already be a safe FTS MATCH expression.
	// extensions is a set of case-sensitive path suffixes; nil disables the
	// filter. Results are ordered by score ascending (best first).
	Search(ctx context.Context, matchExpr string, extensions []string, limit int) ([]types.SearchResult, error)

	// Clear drops all rows.
	Clear(ctx context.Context) error

	// Stats reports the number of indexed files and chunks.
	Stats(ctx context.Context) (files, chunks int, err error)

	// Close releases the database handle.
	Close() error
}
