// Package server wires the symbol catalog to the MCP protocol over stdio.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/averycrespi/cartographer-mcp/internal/catalog"
	"github.com/averycrespi/cartographer-mcp/internal/config"
	"github.com/averycrespi/cartographer-mcp/internal/engine"
	"github.com/averycrespi/cartographer-mcp/internal/tools"
	"github.com/averycrespi/cartographer-mcp/pkg/project"
	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

const instructions = `This server exposes a queryable symbol catalog for a Go workspace, backed by gopls.

Use the find_symbol tool to search for symbols by name across the workspace, with exact, fuzzy, or prefix matching, an optional library scope, and kind filtering.
Use the enumerate_file tool to list the top-level declarations of a Go file in source order.

All line numbers are 0-based. The workspace is loaded once at startup.`

var _ types.Server = &CatalogServer{}

// CatalogServer serves the symbol catalog over MCP stdio. The tool surface
// is fixed at construction time; no tools are added or removed at runtime.
type CatalogServer struct {
	mcpServer *server.MCPServer
	catalog   *catalog.Catalog
	config    config.Config
}

// NewCatalogServer creates a new catalog server. No engine process is
// started until Start.
func NewCatalogServer(cfg config.Config) *CatalogServer {
	mcpServer := server.NewMCPServer(
		project.Name,
		project.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	cat := catalog.NewCatalog(engine.NewGoplsEngine(cfg.GoplsPath))

	s := &CatalogServer{
		mcpServer: mcpServer,
		catalog:   cat,
		config:    cfg,
	}
	s.registerTools()

	return s
}

// Start loads the workspace and serves MCP requests on stdio until the
// client disconnects. A failed initial load aborts startup; the server
// never reaches a ready state over a half-initialized session.
func (s *CatalogServer) Start(ctx context.Context) error {
	slog.Info("Starting catalog server",
		"name", project.Name,
		"version", project.Version,
		"workspace_root", s.config.WorkspaceRoot,
		"gopls_path", s.config.GoplsPath)

	if err := s.catalog.LoadProject(ctx, s.config.WorkspaceRoot); err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	s.warmup(ctx)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}

	return nil
}

// warmup primes the engine caches with one search so the first real query
// does not pay the cold-start cost. Failures are logged, never fatal.
func (s *CatalogServer) warmup(ctx context.Context) {
	opts := catalog.SearchOptions{
		Mode:           catalog.SearchModeExact,
		IncludeLibrary: true,
		Filter:         catalog.FilterTypes,
	}

	results, err := s.catalog.FindSymbol(ctx, s.config.WarmupQuery, opts)
	if err != nil {
		slog.Warn("Warmup query failed", "query", s.config.WarmupQuery, "error", err)
		return
	}
	slog.Debug("Warmup query complete", "query", s.config.WarmupQuery, "results", len(results))
}

func (s *CatalogServer) registerTools() {
	findTool := tools.NewFindSymbolTool(s.catalog)
	s.mcpServer.AddTool(findTool.GetTool(), findTool.Handle)

	enumTool := tools.NewEnumerateFileTool(s.catalog)
	s.mcpServer.AddTool(enumTool.GetTool(), enumTool.Handle)
}

// Shutdown gracefully shuts down the server and the engine behind it
func (s *CatalogServer) Shutdown(ctx context.Context) error {
	if err := s.catalog.Close(ctx); err != nil {
		return fmt.Errorf("failed to shutdown catalog: %w", err)
	}

	return nil
}
