package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huiyuanXP/racode/internal/mcp"
	"github.com/huiyuanXP/racode/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	flagProjectRoot string
	flagDBPath      string
)

var rootCmd = &cobra.Command{
	Use:   "racode",
	Short: "Local code search MCP server with BM25 ranking and symbol resolution",
	Long: "racode indexes a source tree into an embedded SQLite FTS5 database and serves\n" +
		"ranked full-text search plus symbol definition/reference lookups over MCP stdio.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagProjectRoot, "project-root", "", "root directory of the project to index (required)")
	rootCmd.Flags().StringVar(&flagDBPath, "db-path", "", "path to the index database (default <project-root>/.code_search.db)")
	_ = rootCmd.MarkFlagRequired("project-root")

	rootCmd.Version = fmt.Sprintf("%s (built %s, %s sqlite driver %q)", version, buildTime, storage.BuildMode, storage.DriverName)
}

func run(cmd *cobra.Command, args []string) error {
	// Log to stderr: stdout is reserved for the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	projectRoot, err := filepath.Abs(flagProjectRoot)
	if err != nil {
		return fmt.Errorf("invalid project root: %w", err)
	}
	info, err := os.Stat(projectRoot)
	if err != nil {
		return fmt.Errorf("project root does not exist: %s", projectRoot)
	}
	if !info.IsDir() {
		return fmt.Errorf("project root is not a directory: %s", projectRoot)
	}

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = os.Getenv("RACODE_DB_PATH")
	}
	if dbPath == "" {
		dbPath = filepath.Join(projectRoot, ".code_search.db")
	}

	log.Info("starting racode MCP server",
		"version", version, "build_mode", storage.BuildMode,
		"project_root", projectRoot, "db_path", dbPath)

	srv, err := mcp.NewServer(projectRoot, dbPath, log)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Warm the index so the first query doesn't pay the full scan.
	stats, err := srv.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("initial index update failed: %w", err)
	}
	log.Info("index ready",
		"files", stats.FilesNew+stats.FilesModified+stats.FilesUnchanged,
		"chunks_created", stats.ChunksCreated,
		"duration", stats.Duration)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info("MCP server ready, listening on stdio")
		errChan <- srv.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", "signal", sig.String())
		cancel()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
