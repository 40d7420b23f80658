package resolver

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/huiyuanXP/racode/pkg/types"
)

// DefaultTimeout is the wall-clock budget for one resolver call.
const DefaultTimeout = 30 * time.Second

// Resolver answers symbol definition and reference lookups by parsing the
// live source tree with an in-process syntax-tree library. It does not
// consult the search index.
type Resolver struct {
	root    string
	timeout time.Duration
	log     *slog.Logger
}

// backend is the per-language strategy: which files to scan and how to
// extract locations from one parsed file.
type backend interface {
	// sources lists the files this backend scans, respecting the skip-dir set.
	sources(root string) ([]sourceFile, error)
	// scan parses one file and returns the matching locations.
	scan(ctx context.Context, file sourceFile, src []byte, symbol string, refs bool) ([]types.Location, error)
}

type sourceFile struct {
	abs string
	rel string // forward-slashed, relative to the project root
}

// New creates a Resolver for the tree rooted at root.
func New(root string, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		root:    root,
		timeout: DefaultTimeout,
		log:     log.With("component", "resolver"),
	}
}

// Definition returns every definition site of symbol in the given language.
func (r *Resolver) Definition(ctx context.Context, symbol, language string) ([]types.Location, error) {
	return r.run(ctx, symbol, language, false)
}

// References returns every reference site of symbol in the given language.
func (r *Resolver) References(ctx context.Context, symbol, language string) ([]types.Location, error) {
	return r.run(ctx, symbol, language, true)
}

func (r *Resolver) run(ctx context.Context, symbol, language string, refs bool) ([]types.Location, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("%w: symbol is required", types.ErrInvalidArgument)
	}

	var b backend
	switch language {
	case "python":
		b = &pythonBackend{}
	case "typescript":
		b = &typescriptBackend{}
	default:
		return nil, fmt.Errorf("%w: %q (supported: python, typescript)", types.ErrUnsupportedLanguage, language)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	files, err := b.sources(r.root)
	if err != nil {
		return nil, err
	}

	var locations []types.Location
	for _, f := range files {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s lookup exceeded %s", types.ErrBackendTimeout, language, r.timeout)
		}

		src, err := os.ReadFile(f.abs)
		if err != nil {
			r.log.Warn("skipping unreadable file", "path", f.rel, "error", err)
			continue
		}

		locs, err := b.scan(ctx, f, src, symbol, refs)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s lookup exceeded %s", types.ErrBackendTimeout, language, r.timeout)
			}
			r.log.Warn("skipping unparseable file", "path", f.rel, "error", err)
			continue
		}
		locations = append(locations, locs...)
	}

	sort.Slice(locations, func(i, j int) bool {
		li, lj := locations[i], locations[j]
		if li.FilePath != lj.FilePath {
			return li.FilePath < lj.FilePath
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		return li.Column < lj.Column
	})
	return locations, nil
}

// collectSources walks walkRoot for files with the given extensions,
// skipping the skip-dir set and symlinks. Reported paths are relative to
// relRoot; files outside it keep their absolute path.
func collectSources(walkRoot, relRoot string, exts map[string]bool) ([]sourceFile, error) {
	var files []sourceFile
	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != walkRoot && types.SkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(relRoot, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = path
		}
		files = append(files, sourceFile{abs: path, rel: filepath.ToSlash(rel)})
		return nil
	})
	return files, err
}

// location builds a Location from a name node, using the node's own position
// and the trimmed text of its line as context.
func location(file sourceFile, lines []string, node *sitter.Node, kind string) types.Location {
	row := int(node.StartPoint().Row)
	context := ""
	if row >= 0 && row < len(lines) {
		context = strings.TrimSpace(lines[row])
	}
	return types.Location{
		FilePath: file.rel,
		Line:     row + 1,
		Column:   int(node.StartPoint().Column),
		Context:  context,
		Kind:     kind,
	}
}

// sameNode reports whether two nodes cover the same source span. Used to
// test whether a node occupies a specific field of its parent.
func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// parseAndQuery parses src and runs a tree-sitter query, invoking visit once
// per match with the captured nodes keyed by capture name.
func parseAndQuery(ctx context.Context, lang *sitter.Language, query string, src []byte, visit func(captures map[string]*sitter.Node)) error {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(query), lang)
	if err != nil {
		return fmt.Errorf("compile query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		captures := make(map[string]*sitter.Node, len(m.Captures))
		for _, cap := range m.Captures {
			captures[q.CaptureNameForId(cap.Index)] = cap.Node
		}
		visit(captures)
	}
	return nil
}
