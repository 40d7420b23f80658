// Package searcher turns free-form queries into safe FTS5 MATCH expressions
// and post-processes the ranked results.
//
// # Query construction
//
// The query is split on whitespace; characters with meaning in the FTS5
// grammar are stripped from each term, and the surviving terms are quoted
// and joined with implicit AND semantics. A query with no usable terms
// fails with types.ErrInvalidQuery. Matching is case-insensitive via the
// index's default tokenizer.
//
// # Post-processing
//
// Results from .md files are trimmed to a twenty-line window centred on the
// first line containing a query term (nine lines above, ten below), and the
// result's line numbers are rewritten to the window's absolute position.
// Code results are returned whole.
//
// Results are cached in a bounded LRU keyed on the sanitized query,
// extension set and limit; the indexer purges the cache whenever a refresh
// changes the index.
package searcher
