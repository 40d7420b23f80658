//go:build !fts5
// +build !fts5

package storage

// This file is compiled when building without the fts5 tag. It uses a pure
// Go SQLite implementation, which ships FTS5 support by default.
//
// Build command:
//   go build ./...
//
// The pure Go implementation provides:
//   - No C compiler required for this package (the tree-sitter grammars in
//     internal/resolver still need cgo)
//   - Cross-platform compilation
//   - Suitable for development and smaller repositories
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
