package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/huiyuanXP/racode/internal/indexer"
	"github.com/huiyuanXP/racode/internal/resolver"
	"github.com/huiyuanXP/racode/internal/searcher"
	"github.com/huiyuanXP/racode/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "racode"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp      *server.MCPServer
	store    storage.Store
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	resolver *resolver.Resolver
	log      *slog.Logger
}

// NewServer creates a new MCP server indexing the tree at projectRoot into
// the database at dbPath.
func NewServer(projectRoot, dbPath string, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}

	idx := indexer.New(projectRoot, store, log)
	srch := searcher.New(store)
	idx.OnChange(srch.Invalidate)
	res := resolver.New(projectRoot, log)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:      mcpServer,
		store:    store,
		indexer:  idx,
		searcher: srch,
		resolver: res,
		log:      log.With("component", "mcp"),
	}
	s.registerTools()

	return s, nil
}

// Refresh runs an incremental index update. The entry point calls it once at
// startup so the first query starts from a warm index.
func (s *Server) Refresh(ctx context.Context) (*indexer.RefreshStats, error) {
	return s.indexer.Refresh(ctx)
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(getDefinitionTool(), s.handleGetDefinition)
	s.mcp.AddTool(getReferencesTool(), s.handleGetReferences)
	s.mcp.AddTool(rebuildIndexTool(), s.handleRebuildIndex)
}
