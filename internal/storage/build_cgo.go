//go:build fts5
// +build fts5

package storage

// This file is compiled when building with CGO and the fts5 tag.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "fts5" ./...
//
// The cgo driver provides:
//   - The reference SQLite C implementation
//   - FTS5 full-text search compiled in via the fts5 tag
//   - Recommended for large repositories
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
