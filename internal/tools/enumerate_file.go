package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/averycrespi/cartographer-mcp/internal/catalog"

	"github.com/mark3labs/mcp-go/mcp"
)

// EnumerateFileTool handles file declaration listing requests
type EnumerateFileTool struct {
	catalog Catalog
}

// NewEnumerateFileTool creates a new file enumeration tool
func NewEnumerateFileTool(cat Catalog) *EnumerateFileTool {
	return &EnumerateFileTool{catalog: cat}
}

// GetTool returns the MCP tool definition
func (t *EnumerateFileTool) GetTool() mcp.Tool {
	tool := mcp.NewTool(ToolEnumerateFile,
		mcp.WithDescription("List the top-level declarations of a Go file in source order"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("The absolute path to the file to enumerate")),
	)
	return tool
}

// fileSymbol is one enumerated declaration. Path and documentation are
// omitted; the former is implied by the request, the latter unavailable at
// this granularity.
type fileSymbol struct {
	Name      string             `json:"name"`
	Kind      catalog.SymbolKind `json:"kind"`
	StartLine int                `json:"start_line"`
	EndLine   int                `json:"end_line"`
}

// Handle processes the tool request. Parameter validation happens first,
// before any session access.
func (t *EnumerateFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := mcp.ParseString(req, "file_path", "")
	if filePath == "" {
		return mcp.NewToolResultError("file_path parameter is required"), nil
	}
	if !filepath.IsAbs(filePath) {
		return mcp.NewToolResultError(fmt.Sprintf("file_path must be absolute, got '%s'", filePath)), nil
	}

	symbols, err := t.catalog.EnumerateFile(ctx, filePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries := make([]fileSymbol, 0, len(symbols))
	for _, sym := range symbols {
		entries = append(entries, fileSymbol{
			Name:      sym.Name,
			Kind:      sym.Kind,
			StartLine: sym.StartLine,
			EndLine:   sym.EndLine,
		})
	}

	summary := fmt.Sprintf("Found %d symbol(s) in '%s'", len(entries), filePath)

	jsonBytes, err := json.MarshalIndent(entries, "", "  ")
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
