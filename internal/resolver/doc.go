// Package resolver answers symbol definition and reference lookups.
//
// Lookups are dispatched by language to a tree-sitter backend that parses
// the live source tree in-process: the python grammar for .py files, and
// the typescript/tsx/javascript grammars for .ts/.tsx/.js/.jsx. The
// resolver operates on the filesystem, not the search index, so results
// always reflect the current state of the tree.
//
// Each call is bounded by a 30 second wall-clock budget; on expiry it
// returns types.ErrBackendTimeout. Per-file read or parse failures are
// logged and skipped.
package resolver
