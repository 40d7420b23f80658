package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huiyuanXP/racode/internal/chunker"
	"github.com/huiyuanXP/racode/internal/storage"
	"github.com/huiyuanXP/racode/pkg/types"
)

// ErrRebuildInProgress is returned when a rebuild overlaps another rebuild.
var ErrRebuildInProgress = errors.New("rebuild already in progress")

// Indexer keeps the persistent index in agreement with the filesystem.
// Refreshes re-chunk only files whose modification time changed.
type Indexer struct {
	root    string
	store   storage.Store
	workers int
	log     *slog.Logger

	// mu serializes whole refreshes so a search issued after Refresh
	// returns observes the post-refresh state.
	mu       sync.Mutex
	rebuild  rebuildLock
	onChange func()
}

// RefreshStats describes one incremental update.
type RefreshStats struct {
	FilesNew       int
	FilesModified  int
	FilesDeleted   int
	FilesUnchanged int
	ChunksCreated  int
	ChunksRemoved  int
	Duration       time.Duration
	Errors         []string
}

// RebuildStats describes one full rebuild.
type RebuildStats struct {
	FilesIndexed  int
	ChunksCreated int
	Duration      time.Duration
	Errors        []string
}

// New creates an Indexer for the tree rooted at root.
func New(root string, store storage.Store, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{
		root:    root,
		store:   store,
		workers: runtime.NumCPU(),
		log:     log.With("component", "indexer"),
	}
}

// OnChange registers a hook invoked after any refresh that altered the
// index. The searcher uses it to invalidate its result cache.
func (idx *Indexer) OnChange(fn func()) {
	idx.onChange = fn
}

// Refresh brings the index into agreement with the filesystem. Per-file
// failures are logged and skipped; a file that was indexed but became
// unreadable retains its stale chunks.
func (idx *Indexer) Refresh(ctx context.Context) (*RefreshStats, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.refreshLocked(ctx)
}

func (idx *Indexer) refreshLocked(ctx context.Context) (*RefreshStats, error) {
	start := time.Now()
	stats := &RefreshStats{}

	onDisk, err := idx.collectFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to walk project root: %w", err)
	}

	stored, err := idx.store.AllFileMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read index state: %w", err)
	}

	// Remove files no longer on disk.
	for path := range stored {
		if _, ok := onDisk[path]; ok {
			continue
		}
		if err := idx.store.DeleteFile(ctx, path); err != nil {
			return nil, fmt.Errorf("failed to delete %s: %w", path, err)
		}
		stats.FilesDeleted++
		stats.ChunksRemoved++
	}

	// Chunk new and modified files in parallel; commit serially through the
	// store's single writer.
	type job struct {
		path  string
		mtime int64
	}
	var pending []job
	for path, mtime := range onDisk {
		storedMtime, ok := stored[path]
		switch {
		case !ok:
			stats.FilesNew++
		case storedMtime != mtime:
			stats.FilesModified++
			stats.ChunksRemoved++
		default:
			stats.FilesUnchanged++
			continue
		}
		pending = append(pending, job{path: path, mtime: mtime})
	}

	type result struct {
		path   string
		mtime  int64
		chunks []types.Chunk
		err    error
	}
	results := make(chan result, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for _, j := range pending {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, err := os.ReadFile(filepath.Join(idx.root, filepath.FromSlash(j.path)))
			if err != nil {
				results <- result{path: j.path, err: err}
				return nil
			}
			results <- result{path: j.path, mtime: j.mtime, chunks: chunker.Chunk(j.path, data)}
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			idx.log.Warn("skipping unreadable file", "path", res.path, "error", res.err)
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", res.path, res.err))
			continue
		}
		if err := idx.store.UpsertFile(ctx, res.path, res.mtime, res.chunks); err != nil {
			return nil, fmt.Errorf("failed to upsert %s: %w", res.path, err)
		}
		stats.ChunksCreated += len(res.chunks)
	}
	if err := <-waitErr; err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)

	if idx.onChange != nil && stats.FilesNew+stats.FilesModified+stats.FilesDeleted > 0 {
		idx.onChange()
	}
	return stats, nil
}

// Rebuild clears the index and refreshes from scratch. Overlapping rebuilds
// are rejected with ErrRebuildInProgress.
func (idx *Indexer) Rebuild(ctx context.Context) (*RebuildStats, error) {
	if !idx.rebuild.TryAcquire() {
		return nil, ErrRebuildInProgress
	}
	defer idx.rebuild.Release()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	start := time.Now()
	if err := idx.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear index: %w", err)
	}
	// Clearing changes the index even when the refresh below finds nothing.
	if idx.onChange != nil {
		idx.onChange()
	}

	refresh, err := idx.refreshLocked(ctx)
	if err != nil {
		return nil, err
	}

	return &RebuildStats{
		FilesIndexed:  refresh.FilesNew,
		ChunksCreated: refresh.ChunksCreated,
		Duration:      time.Since(start),
		Errors:        refresh.Errors,
	}, nil
}

// collectFiles walks the project tree and returns indexable relative paths
// mapped to their modification time in nanoseconds. Skip directories are
// never descended into, and symlinks are ignored.
func (idx *Indexer) collectFiles() (map[string]int64, error) {
	files := make(map[string]int64)

	err := filepath.WalkDir(idx.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries are skipped, not fatal.
			idx.log.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != idx.root && types.SkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if !types.IndexableExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			idx.log.Warn("skipping unstatable file", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(idx.root, path)
		if err != nil {
			return nil
		}
		files[filepath.ToSlash(rel)] = info.ModTime().UnixNano()
		return nil
	})

	return files, err
}
