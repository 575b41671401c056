// Package project holds metadata shared by the CLI, the MCP handshake,
// and the LSP handshake.
package project

const (
	// Name is the project name, reported to both protocol peers
	Name = "cartographer-mcp"

	// Version is the project version
	Version = "0.1.0"

	// Description is a one-line summary of the server
	Description = "MCP server that exposes a queryable symbol catalog for a Go workspace, backed by gopls"
)
