package searcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/huiyuanXP/racode/internal/storage"
	"github.com/huiyuanXP/racode/pkg/types"
)

const (
	// DefaultLimit is the number of results returned when the caller does
	// not ask for a specific count.
	DefaultLimit = 5
	// MaxLimit bounds the result count a caller may request.
	MaxLimit = 100
	// DefaultExtensions is the extension filter applied when none is given.
	DefaultExtensions = ".md"

	// Snippet window for prose results: twenty lines around the first line
	// containing a query term.
	snippetBefore = 9
	snippetAfter  = 10

	cacheSize = 256
)

// ftsSpecials are characters with meaning in the FTS5 query grammar. They
// are stripped from every term before the MATCH expression is built.
const ftsSpecials = "\"()*:^+-{}~.\\"

// Searcher executes ranked full-text queries against the index store and
// post-processes the results. Results for an unchanged index are served from
// a bounded LRU cache; the indexer invalidates it on every change.
type Searcher struct {
	store storage.Store
	cache *lru.Cache[string, []types.SearchResult]
}

// New creates a Searcher backed by the given store.
func New(store storage.Store) *Searcher {
	cache, err := lru.New[string, []types.SearchResult](cacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &Searcher{store: store, cache: cache}
}

// Invalidate drops all cached results. Called by the indexer whenever a
// refresh changes the index.
func (s *Searcher) Invalidate() {
	s.cache.Purge()
}

// Search tokenizes and sanitizes the query, applies the extension filter,
// and returns up to limit results ordered best-first. Markdown results are
// trimmed to a window around the first matching line.
func (s *Searcher) Search(ctx context.Context, query, extensions string, limit int) ([]types.SearchResult, error) {
	matchExpr, terms, err := SanitizeQuery(query)
	if err != nil {
		return nil, err
	}

	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", types.ErrInvalidArgument, MaxLimit)
	}

	exts := ParseExtensions(extensions)

	key := matchExpr + "|" + strings.Join(exts, ",") + "|" + strconv.Itoa(limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	results, err := s.store.Search(ctx, matchExpr, exts, limit)
	if err != nil {
		return nil, err
	}

	for i := range results {
		if strings.HasSuffix(results[i].FilePath, ".md") {
			trimSnippet(&results[i], terms)
		}
	}

	s.cache.Add(key, results)
	return results, nil
}

// SanitizeQuery splits the query on whitespace, strips FTS5-significant
// characters from each term, and builds a MATCH expression with implicit AND
// semantics. It fails with ErrInvalidQuery when no usable terms remain.
func SanitizeQuery(query string) (matchExpr string, terms []string, err error) {
	for _, raw := range strings.Fields(query) {
		term := strings.Map(func(r rune) rune {
			if strings.ContainsRune(ftsSpecials, r) {
				return -1
			}
			return r
		}, raw)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return "", nil, fmt.Errorf("%w: no searchable terms after sanitization", types.ErrInvalidQuery)
	}

	quoted := make([]string, len(terms))
	for i, t := range terms {
		// Quoting each term keeps anything the tokenizer produces from
		// being parsed as FTS syntax.
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " "), terms, nil
}

// ParseExtensions normalizes the extensions argument: "*" means no filter,
// an empty string means the default, and a comma-separated list becomes a
// suffix set.
func ParseExtensions(extensions string) []string {
	extensions = strings.TrimSpace(extensions)
	if extensions == "" {
		extensions = DefaultExtensions
	}

	var exts []string
	for _, e := range strings.Split(extensions, ",") {
		e = strings.TrimSpace(e)
		if e == "*" {
			return nil
		}
		if e != "" {
			exts = append(exts, e)
		}
	}
	return exts
}

// trimSnippet narrows a prose chunk to the window around the first line
// containing any query term, and rewrites the result's line numbers to the
// window's absolute position in the file. A term can match a chunk through
// its file path or symbol name without appearing in the content at all; in
// that case the first twenty lines are returned.
func trimSnippet(r *types.SearchResult, terms []string) {
	lines := strings.Split(r.Content, "\n")

	start, end := 0, snippetBefore+snippetAfter+1
	if hit := firstHitLine(lines, terms); hit >= 0 {
		start = hit - snippetBefore
		if start < 0 {
			start = 0
		}
		end = hit + snippetAfter + 1
	}
	if end > len(lines) {
		end = len(lines)
	}

	base := r.LineStart
	r.Content = strings.Join(lines[start:end], "\n")
	r.LineStart = base + start
	r.LineEnd = base + end - 1
}

// firstHitLine returns the 0-based index of the first line containing any
// term, case-insensitively, or -1 when no line matches.
func firstHitLine(lines, terms []string) int {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	for i, line := range lines {
		l := strings.ToLower(line)
		for _, t := range lowered {
			if strings.Contains(l, t) {
				return i
			}
		}
	}
	return -1
}
