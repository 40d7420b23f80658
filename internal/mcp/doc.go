// Package mcp exposes the code-search core over the Model Context Protocol.
//
// Four tools are served on stdio:
//   - code_search_search: ranked full-text search over indexed chunks
//   - code_search_get_definition: symbol definition sites
//   - code_search_get_references: symbol reference sites
//   - code_search_rebuild_index: full index rebuild
//
// Every tool triggers an incremental index refresh before executing its
// body, except rebuild, which performs a full rebuild. Raw tool arguments
// are validated into typed request structs (schemas.go) before entering
// the core; invalid arguments surface as tool errors, never as protocol
// failures.
package mcp
