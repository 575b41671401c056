// Package tools defines the MCP tool surface of the catalog server. The
// surface is closed: exactly two tools, registered once at startup.
package tools

import (
	"context"

	"github.com/averycrespi/cartographer-mcp/internal/catalog"
)

// Tool names
const (
	ToolFindSymbol    = "find_symbol"
	ToolEnumerateFile = "enumerate_file"
)

// Catalog is the facade surface the tools require
type Catalog interface {
	FindSymbol(ctx context.Context, name string, opts catalog.SearchOptions) ([]catalog.SymbolInfo, error)
	EnumerateFile(ctx context.Context, filePath string) ([]catalog.SymbolInfo, error)
}
