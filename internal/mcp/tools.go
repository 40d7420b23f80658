package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huiyuanXP/racode/pkg/types"
)

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchTool() mcp.Tool {
	return mcp.NewTool("code_search_search",
		mcp.WithDescription("Search the codebase using full-text search with BM25 ranking. "+
			"Documentation files (FileStructure.md, IntegrationGuide.md) are prioritized with a 3x ranking boost. "+
			"The index is updated incrementally before each search, so results reflect the latest code changes."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keywords. Use simple terms and avoid special characters. Examples: 'authentication', 'model selector'"),
		),
		mcp.WithString("extensions",
			mcp.Description("Comma-separated file suffixes to search (e.g. '.py,.ts'), or '*' for all files. Default: '.md' (documentation)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-100, default 5)"),
		),
	)
}

func getDefinitionTool() mcp.Tool {
	return mcp.NewTool("code_search_get_definition",
		mcp.WithDescription("Find the definition location of a symbol by parsing the live source tree. "+
			"Use this to jump to where a function, class, or variable is defined."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Symbol name to look up. Examples: 'get_gpt_service', 'ModelSelector'"),
		),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Programming language of the symbol: 'python' or 'typescript'"),
		),
	)
}

func getReferencesTool() mcp.Tool {
	return mcp.NewTool("code_search_get_references",
		mcp.WithDescription("Find all references to a symbol across the codebase. "+
			"Use this to see every call site and usage of a function, class, or variable."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Symbol name to find references for"),
		),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Programming language of the symbol: 'python' or 'typescript'"),
		),
	)
}

func rebuildIndexTool() mcp.Tool {
	return mcp.NewTool("code_search_rebuild_index",
		mcp.WithDescription("Force a complete rebuild of the search index. "+
			"Normally not needed: the index is updated incrementally before each search. "+
			"Use this only if you suspect the index is corrupted or out of sync."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(false),
			DestructiveHint: mcp.ToBoolPtr(false),
			IdempotentHint:  mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		}),
	)
}

// --- Handlers ---

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := parseSearchRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := s.indexer.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index refresh failed: %v", err)), nil
	}

	results, err := s.searcher.Search(ctx, req.Query, req.Extensions, req.Limit)
	if err != nil {
		if errors.Is(err, types.ErrInvalidQuery) || errors.Is(err, types.ErrInvalidArgument) {
			return mcp.NewToolResultError(fmt.Sprintf("%v. Please use simple keywords and avoid special characters.", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"results": []types.SearchResult{},
			"message": fmt.Sprintf("No results found for query %q. Try different keywords or search all files with extensions='*'.", req.Query),
		})), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"results": results,
		"count":   len(results),
		"query":   req.Query,
	})), nil
}

func (s *Server) handleGetDefinition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSymbolLookup(ctx, request, "definition", s.resolver.Definition)
}

func (s *Server) handleGetReferences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSymbolLookup(ctx, request, "reference", s.resolver.References)
}

func (s *Server) handleSymbolLookup(ctx context.Context, request mcp.CallToolRequest, what string,
	lookup func(context.Context, string, string) ([]types.Location, error)) (*mcp.CallToolResult, error) {

	req, err := parseSymbolRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := s.indexer.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index refresh failed: %v", err)), nil
	}

	results, err := lookup(ctx, req.Symbol, req.Language)
	if err != nil {
		if errors.Is(err, types.ErrBackendTimeout) {
			// Timeouts surface an empty result list with a warning rather
			// than a hard error: the other tools keep working.
			return mcp.NewToolResultText(formatJSON(map[string]interface{}{
				"results": []types.Location{},
				"warning": err.Error(),
			})), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to find %ss: %v", what, err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"results": []types.Location{},
			"message": fmt.Sprintf("No %ss found for symbol %q. Check spelling or try searching with code_search_search.", what, req.Symbol),
		})), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"results":  results,
		"count":    len(results),
		"symbol":   req.Symbol,
		"language": req.Language,
	})), nil
}

func (s *Server) handleRebuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.indexer.Rebuild(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index rebuild failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"indexed_files": stats.FilesIndexed,
		"chunks":        stats.ChunksCreated,
		"elapsed_ms":    stats.Duration.Milliseconds(),
	}
	if len(stats.Errors) > 0 {
		response["errors"] = stats.Errors
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// formatJSON formats a map as indented JSON.
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
