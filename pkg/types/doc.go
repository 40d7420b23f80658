// Package types provides shared type definitions for the racode server.
//
// # Core Types
//
// Chunk is the unit of indexing and retrieval: a markdown section, a
// top-level declaration, or a whole small file, with its line range and an
// optional symbol name. FileMeta tracks one indexed file for incremental
// updates. SearchResult and Location are the payloads returned by the
// search engine and the symbol resolver.
//
// # Contract constants
//
// SkipDirs, IndexableExtensions, DocBoost and the doc-boost basename set
// live here because they are part of the external contract: they determine
// what is searchable and how documentation is ranked. They are policy, not
// configuration.
//
// # Errors
//
// The error kinds of the service's taxonomy are sentinel errors here
// (ErrInvalidArgument, ErrInvalidQuery, ErrUnsupportedLanguage,
// ErrBackendTimeout, ErrNotFound), wrapped with context at the point of
// failure and matched with errors.Is at the boundary.
package types
