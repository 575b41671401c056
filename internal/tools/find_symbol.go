package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/averycrespi/cartographer-mcp/internal/catalog"

	"github.com/mark3labs/mcp-go/mcp"
)

// FindSymbolTool handles workspace-wide symbol search requests
type FindSymbolTool struct {
	catalog Catalog
}

// NewFindSymbolTool creates a new symbol search tool
func NewFindSymbolTool(cat Catalog) *FindSymbolTool {
	return &FindSymbolTool{catalog: cat}
}

// GetTool returns the MCP tool definition
func (t *FindSymbolTool) GetTool() mcp.Tool {
	tool := mcp.NewTool(ToolFindSymbol,
		mcp.WithDescription("Search for symbols by name across the loaded Go workspace"),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name of the symbol to search for")),
		mcp.WithString("mode", mcp.Description(`Search mode: "exact", "fuzzy", or "prefix" (default: "fuzzy")`)),
		mcp.WithBoolean("include_library", mcp.Description("Whether to include library symbols in the search (default: false)")),
		mcp.WithString("filter", mcp.Description(`Filter by symbol kind: "types", "implementations", "functions", or "all" (default: "all")`)),
	)
	return tool
}

// Handle processes the tool request. Parameter validation happens first,
// before any session access.
func (t *FindSymbolTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := mcp.ParseString(req, "name", "")
	if name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	opts, err := catalog.ParseSearchOptions(
		mcp.ParseString(req, "mode", ""),
		req.GetBool("include_library", false),
		mcp.ParseString(req, "filter", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	symbols, err := t.catalog.FindSymbol(ctx, name, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := fmt.Sprintf("Found %d symbol(s) matching '%s' (mode: %s, library: %t, filter: %s)",
		len(symbols), name, opts.Mode, opts.IncludeLibrary, opts.Filter)

	jsonBytes, err := json.MarshalIndent(symbols, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal JSON: %v", err)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(summary),
			mcp.NewTextContent(string(jsonBytes)),
		},
	}, nil
}
