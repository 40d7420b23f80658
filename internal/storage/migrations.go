package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version. There is no
	// cross-version migration: any mismatch drops and recreates the schema,
	// and the next refresh repopulates it from disk.
	CurrentSchemaVersion = "1.0.0"
)

// expectedTables is the table set a healthy database must contain.
var expectedTables = []string{"schema_version", "file_meta", "chunks_content", "chunks"}

const schemaUp = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- File metadata for incremental updates
CREATE TABLE IF NOT EXISTS file_meta (
    file_path TEXT PRIMARY KEY,
    mtime_ns INTEGER NOT NULL,
    chunk_count INTEGER NOT NULL DEFAULT 0
);

-- Backing content table
CREATE TABLE IF NOT EXISTS chunks_content (
    rowid INTEGER PRIMARY KEY AUTOINCREMENT,
    file_path TEXT NOT NULL,
    chunk_type TEXT NOT NULL,
    symbol_name TEXT NOT NULL,
    content TEXT NOT NULL,
    line_start INTEGER NOT NULL,
    line_end INTEGER NOT NULL,
    is_doc_file INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_chunks_content_path ON chunks_content(file_path);

-- FTS5 virtual table (external content mode)
CREATE VIRTUAL TABLE IF NOT EXISTS chunks USING fts5(
    file_path, chunk_type, symbol_name, content,
    line_start UNINDEXED, line_end UNINDEXED, is_doc_file UNINDEXED,
    content='chunks_content', content_rowid='rowid'
);

-- Triggers to keep FTS in sync. Rows are replaced, never updated in place,
-- so no AFTER UPDATE trigger is needed.
CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks_content BEGIN
    INSERT INTO chunks(rowid, file_path, chunk_type, symbol_name, content)
    VALUES (new.rowid, new.file_path, new.chunk_type, new.symbol_name, new.content);
END;

CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks_content BEGIN
    INSERT INTO chunks(chunks, rowid, file_path, chunk_type, symbol_name, content)
    VALUES ('delete', old.rowid, old.file_path, old.chunk_type, old.symbol_name, old.content);
END;
`

const schemaDown = `
DROP TRIGGER IF EXISTS chunks_ad;
DROP TRIGGER IF EXISTS chunks_ai;

DROP TABLE IF EXISTS chunks;
DROP TABLE IF EXISTS chunks_content;
DROP TABLE IF EXISTS file_meta;
DROP TABLE IF EXISTS schema_version;
`

// EnsureSchema brings the database to the current schema. A database with a
// missing table or an incompatible recorded version is dropped and recreated
// from scratch; the caller's next refresh repopulates it.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	healthy, err := schemaHealthy(ctx, db)
	if err != nil {
		return err
	}
	if healthy {
		return nil
	}

	if _, err := db.ExecContext(ctx, schemaDown); err != nil {
		return fmt.Errorf("failed to drop stale schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaUp); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", CurrentSchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// schemaHealthy reports whether all expected tables exist and the recorded
// version matches the current one.
func schemaHealthy(ctx context.Context, db *sql.DB) (bool, error) {
	for _, table := range expectedTables {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE name = ?", table).Scan(&name)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to inspect schema: %w", err)
		}
	}

	var versionStr string
	err := db.QueryRowContext(ctx,
		"SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&versionStr)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		// The table exists but can't be read; treat as corruption.
		return false, nil
	}

	stored, err := semver.NewVersion(versionStr)
	if err != nil {
		return false, nil
	}
	current := semver.MustParse(CurrentSchemaVersion)
	return stored.Equal(current), nil
}
