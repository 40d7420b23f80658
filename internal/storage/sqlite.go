package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/huiyuanXP/racode/pkg/types"
)

// SQLiteStore implements the Store interface using SQLite with FTS5.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode so readers can proceed alongside the single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// Open creates a new SQLite store at dbPath, creating or repairing the
// schema as needed.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetFileMeta returns the metadata row for a path, or types.ErrNotFound.
func (s *SQLiteStore) GetFileMeta(ctx context.Context, path string) (*types.FileMeta, error) {
	var meta types.FileMeta
	err := s.db.QueryRowContext(ctx,
		"SELECT file_path, mtime_ns, chunk_count FROM file_meta WHERE file_path = ?", path).
		Scan(&meta.Path, &meta.MtimeNS, &meta.ChunkCount)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// UpsertFile replaces all chunks for a path and upserts its metadata row in
// one transaction.
func (s *SQLiteStore) UpsertFile(ctx context.Context, path string, mtimeNS int64, chunks []types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_content WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("failed to delete old chunks: %w", err)
	}

	for _, c := range chunks {
		isDoc := 0
		if c.IsDocFile {
			isDoc = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks_content (
				file_path, chunk_type, symbol_name, content,
				line_start, line_end, is_doc_file
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`, path, string(c.ChunkType), c.SymbolName, c.Content, c.LineStart, c.LineEnd, isDoc)
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO file_meta (file_path, mtime_ns, chunk_count)
		VALUES (?, ?, ?)
	`, path, mtimeNS, len(chunks))
	if err != nil {
		return fmt.Errorf("failed to upsert file meta: %w", err)
	}

	return tx.Commit()
}

// DeleteFile removes the metadata row and all chunks for a path in one
// transaction.
func (s *SQLiteStore) DeleteFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_content WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM file_meta WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("failed to delete file meta: %w", err)
	}

	return tx.Commit()
}

// AllFileMeta returns every indexed path mapped to its stored mtime.
func (s *SQLiteStore) AllFileMeta(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT file_path, mtime_ns FROM file_meta")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	metas := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		metas[path] = mtime
	}
	return metas, rows.Err()
}

// Search executes an FTS5 MATCH query with BM25 ranking and the doc-file
// boost. FTS5's rank is negative for better matches; multiplying by the
// boost preserves that orientation, so ascending order is best-first.
func (s *SQLiteStore) Search(ctx context.Context, matchExpr string, extensions []string, limit int) ([]types.SearchResult, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			c.file_path,
			c.chunk_type,
			c.symbol_name,
			c.content,
			c.line_start,
			c.line_end,
			rank * CASE WHEN c.is_doc_file = 1 THEN ? ELSE 1.0 END AS score
		FROM chunks
		JOIN chunks_content c ON chunks.rowid = c.rowid
		WHERE chunks MATCH ?
	`)
	args := []interface{}{types.DocBoost, matchExpr}

	if len(extensions) > 0 {
		// substr with a negative offset takes the path's tail; unlike LIKE
		// this keeps the suffix comparison case-sensitive.
		conds := make([]string, len(extensions))
		for i, ext := range extensions {
			conds[i] = "substr(c.file_path, -length(?)) = ?"
			args = append(args, ext, ext)
		}
		sb.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")
	}

	sb.WriteString(" ORDER BY score LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]types.SearchResult, 0)
	for rows.Next() {
		var r types.SearchResult
		var chunkType string
		if err := rows.Scan(&r.FilePath, &chunkType, &r.SymbolName, &r.Content,
			&r.LineStart, &r.LineEnd, &r.Score); err != nil {
			return nil, err
		}
		r.ChunkType = types.ChunkType(chunkType)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Clear drops all rows.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks_content"); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM file_meta"); err != nil {
		return fmt.Errorf("failed to clear file meta: %w", err)
	}

	return tx.Commit()
}

// Stats reports the number of indexed files and chunks.
func (s *SQLiteStore) Stats(ctx context.Context) (int, int, error) {
	var files, chunks int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM file_meta").Scan(&files); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks_content").Scan(&chunks); err != nil {
		return 0, 0, err
	}
	return files, chunks, nil
}
