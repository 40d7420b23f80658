package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huiyuanXP/racode/internal/searcher"
	"github.com/huiyuanXP/racode/pkg/types"
)

// The tool interface accepts free-form JSON; requests are validated into
// these structs before entering the core.

// SearchRequest is the validated input for code_search_search.
type SearchRequest struct {
	Query      string
	Extensions string
	Limit      int
}

// SymbolRequest is the validated input for the symbol lookup tools.
type SymbolRequest struct {
	Symbol   string
	Language string
}

var supportedLanguages = map[string]bool{
	"python":     true,
	"typescript": true,
}

func parseSearchRequest(req mcp.CallToolRequest) (*SearchRequest, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", types.ErrInvalidArgument)
	}

	limit := req.GetInt("limit", searcher.DefaultLimit)
	if limit < 1 || limit > searcher.MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", types.ErrInvalidArgument, searcher.MaxLimit)
	}

	extensions := strings.TrimSpace(req.GetString("extensions", searcher.DefaultExtensions))
	if extensions == "" {
		extensions = searcher.DefaultExtensions
	}

	return &SearchRequest{Query: query, Extensions: extensions, Limit: limit}, nil
}

func parseSymbolRequest(req mcp.CallToolRequest) (*SymbolRequest, error) {
	symbol := strings.TrimSpace(req.GetString("symbol", ""))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", types.ErrInvalidArgument)
	}

	language := strings.TrimSpace(req.GetString("language", ""))
	if language == "" {
		return nil, fmt.Errorf("%w: language is required", types.ErrInvalidArgument)
	}
	if !supportedLanguages[language] {
		return nil, fmt.Errorf("%w: %q (supported: python, typescript)", types.ErrUnsupportedLanguage, language)
	}

	return &SymbolRequest{Symbol: symbol, Language: language}, nil
}
