package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/averycrespi/cartographer-mcp/internal/transport"
	"github.com/averycrespi/cartographer-mcp/pkg/project"
	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

const (
	defaultGoplsPath = "gopls"
)

var _ types.Engine = &GoplsEngine{}

// GoplsEngine discovers Go manifests and loads gopls-backed analysis sessions
type GoplsEngine struct {
	goplsPath string
}

// NewGoplsEngine creates a new gopls engine
func NewGoplsEngine(goplsPath string) *GoplsEngine {
	if goplsPath == "" {
		goplsPath = defaultGoplsPath
	}

	slog.Debug("Creating new gopls engine", "gopls_path", goplsPath)

	return &GoplsEngine{goplsPath: goplsPath}
}

// DiscoverManifest walks up from path to the nearest go.work or go.mod
func (e *GoplsEngine) DiscoverManifest(path string) (types.Manifest, error) {
	return discoverManifest(path)
}

// LoadWorkspace spawns gopls and performs the LSP handshake. The initialize
// round trip carries no timeout, so loading may block for the full duration
// of workspace discovery.
func (e *GoplsEngine) LoadWorkspace(ctx context.Context, manifest types.Manifest) (types.Session, error) {
	slog.Debug("Loading workspace", "gopls_path", e.goplsPath, "workspace_root", manifest.Dir, "module", manifest.Module)

	cmd := exec.CommandContext(ctx, e.goplsPath, "serve")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	tr := transport.NewJsonRpcTransport(stdin, stdout)
	tr.SetNotificationHandler(func(method string, params json.RawMessage) {
		slog.Debug("Engine notification", "method", method)
	})

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start gopls command: %w", err)
	}
	slog.Debug("gopls process started successfully", "pid", cmd.Process.Pid)

	group := &errgroup.Group{}
	group.Go(func() error {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			slog.Debug("gopls stderr", "line", scanner.Text())
		}
		return scanner.Err()
	})

	paths := NewPathTable()
	seeded := paths.Seed(manifest.Dir)
	slog.Debug("Seeded path table", "workspace_root", manifest.Dir, "file_count", seeded)

	session := &goplsSession{
		root:      manifest.Dir,
		manifest:  manifest,
		cmd:       cmd,
		transport: tr,
		paths:     paths,
		group:     group,
	}

	if err := tr.Start(); err != nil {
		_ = session.Close(ctx)
		return nil, fmt.Errorf("failed to start transport: %w", err)
	}

	if err := session.initialize(); err != nil {
		_ = session.Close(ctx)
		return nil, fmt.Errorf("failed to initialize gopls session: %w", err)
	}
	slog.Debug("gopls session initialized successfully", "workspace_root", manifest.Dir)

	return session, nil
}

var _ types.Session = &goplsSession{}

// goplsSession is a live gopls workspace. It is not safe for concurrent
// use; the catalog serializes all access.
type goplsSession struct {
	root      string
	manifest  types.Manifest
	cmd       *exec.Cmd
	transport types.Transport
	paths     *PathTable
	group     *errgroup.Group
}

func (s *goplsSession) initialize() error {
	rootURI := fileURIScheme + s.root
	slog.Debug("Initializing gopls session", "root_uri", rootURI)

	params := map[string]any{
		"processId": nil,
		"clientInfo": map[string]any{
			"name":    project.Name,
			"version": project.Version,
		},
		"rootUri":       rootURI,
		"workDoneToken": uuid.NewString(),
		"capabilities": map[string]any{
			"textDocument": map[string]any{
				"documentSymbol": map[string]any{
					"hierarchicalDocumentSymbolSupport": true,
				},
			},
			"workspace": map[string]any{
				"symbol": map[string]any{},
			},
		},
		"initializationOptions": map[string]any{
			"symbolMatcher": "fuzzy",
			"symbolStyle":   "dynamic",
		},
	}

	// No timeout here: workspace discovery can legitimately take minutes
	// on large module graphs.
	if _, err := s.transport.SendRequestTimeout("initialize", params, 0); err != nil {
		return fmt.Errorf("failed to send initialize request: %w", err)
	}

	if err := s.transport.SendNotification("initialized", map[string]any{}); err != nil {
		return fmt.Errorf("failed to send initialized notification: %w", err)
	}

	return nil
}

// QuerySymbols runs workspace/symbol and applies the query's matching,
// kind, scope, and limit restrictions to the raw hits.
func (s *goplsSession) QuerySymbols(ctx context.Context, query types.SymbolQuery) ([]types.RawSymbol, error) {
	slog.Debug("Querying workspace symbols",
		"text", query.Text,
		"exact", query.Exact,
		"prefix", query.Prefix,
		"only_types", query.OnlyTypes,
		"libraries", query.Libraries,
		"limit", query.Limit)

	params := map[string]any{
		"query": query.Text,
	}

	response, err := s.transport.SendRequest("workspace/symbol", params)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspace symbols: %w", err)
	}

	// LSP workspace/symbol response can be null or SymbolInformation[]
	if len(response) == 0 || string(response) == "null" {
		slog.Debug("No symbols found", "text", query.Text)
		return []types.RawSymbol{}, nil
	}

	var infos []types.SymbolInformation
	if err := json.Unmarshal(response, &infos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workspace symbol response: %w", err)
	}

	symbols := filterRawSymbols(infos, query, s.inWorkspace)
	slog.Debug("Found symbols", "count", len(symbols), "text", query.Text)
	return symbols, nil
}

// filterRawSymbols applies a query's restrictions to engine hits, keeping
// the engine's relevance order.
func filterRawSymbols(infos []types.SymbolInformation, query types.SymbolQuery, inWorkspace func(uri string) bool) []types.RawSymbol {
	symbols := make([]types.RawSymbol, 0, len(infos))
	for _, info := range infos {
		if query.Exact && symbolBaseName(info.Name) != query.Text {
			continue
		}
		if query.Prefix && !strings.HasPrefix(symbolBaseName(info.Name), query.Text) {
			continue
		}
		if query.OnlyTypes && !isTypeKind(info.Kind) {
			continue
		}
		if !query.Libraries && !inWorkspace(info.Location.URI) {
			continue
		}

		symbols = append(symbols, types.RawSymbol{
			Name:  info.Name,
			Kind:  info.Kind,
			File:  types.FileID(info.Location.URI),
			Range: info.Location.Range,
		})
		if query.Limit > 0 && len(symbols) >= query.Limit {
			break
		}
	}
	return symbols
}

// symbolBaseName strips receiver and container qualifiers from an engine
// symbol name, e.g. "(*Analyzer).Check" and "Analyzer.Check" both reduce
// to "Check".
func symbolBaseName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// isTypeKind reports whether an LSP kind is a structural type declaration
func isTypeKind(kind int) bool {
	switch kind {
	case types.LSPSymbolKindClass, types.LSPSymbolKindEnum, types.LSPSymbolKindInterface, types.LSPSymbolKindStruct:
		return true
	default:
		return false
	}
}

// inWorkspace reports whether a URI resolves to a path under the workspace
// root. Library sources live in the module cache or GOROOT, never under
// the root.
func (s *goplsSession) inWorkspace(uri string) bool {
	path, err := s.paths.Path(types.FileID(uri))
	if err != nil {
		return false
	}
	return path == s.root || strings.HasPrefix(path, s.root+string(os.PathSeparator))
}

// FileStructure runs textDocument/documentSymbol and returns the file's
// declarations in source order. gopls reports only package-level
// declarations at the top level, so excludeLocals holds by construction.
func (s *goplsSession) FileStructure(ctx context.Context, id types.FileID, excludeLocals bool) ([]types.StructureNode, error) {
	slog.Debug("Getting file structure", "file_id", id, "exclude_locals", excludeLocals)

	params := map[string]any{
		"textDocument": map[string]any{
			"uri": string(id),
		},
	}

	response, err := s.transport.SendRequest("textDocument/documentSymbol", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get file structure: %w", err)
	}

	// LSP documentSymbol response can be null, DocumentSymbol[], or
	// SymbolInformation[]
	if len(response) == 0 || string(response) == "null" {
		slog.Debug("No structure found", "file_id", id)
		return []types.StructureNode{}, nil
	}

	var symbols []types.DocumentSymbol
	if err := json.Unmarshal(response, &symbols); err != nil {
		var infos []types.SymbolInformation
		if err := json.Unmarshal(response, &infos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal file structure response: %w", err)
		}

		symbols = make([]types.DocumentSymbol, len(infos))
		for i, info := range infos {
			symbols[i] = types.DocumentSymbol{
				Name:           info.Name,
				Kind:           info.Kind,
				Range:          info.Location.Range,
				SelectionRange: info.Location.Range,
			}
		}
		slog.Debug("Found file structure (flat format)", "count", len(symbols), "file_id", id)
	} else {
		slog.Debug("Found file structure (hierarchical format)", "count", len(symbols), "file_id", id)
	}

	return convertDocumentSymbols(symbols), nil
}

// convertDocumentSymbols converts DocumentSymbols to StructureNodes recursively
func convertDocumentSymbols(symbols []types.DocumentSymbol) []types.StructureNode {
	nodes := make([]types.StructureNode, 0, len(symbols))
	for _, sym := range symbols {
		node := types.StructureNode{
			Name:           sym.Name,
			Kind:           sym.Kind,
			Range:          sym.Range,
			SelectionRange: sym.SelectionRange,
		}
		if len(sym.Children) > 0 {
			node.Children = convertDocumentSymbols(sym.Children)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// FileText returns the file content through the path table
func (s *goplsSession) FileText(ctx context.Context, id types.FileID) (string, error) {
	path, err := s.paths.Path(id)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path for %s: %w", id, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

// SymbolDocumentation runs textDocument/hover at a position. Missing
// documentation yields an empty string, not an error.
func (s *goplsSession) SymbolDocumentation(ctx context.Context, id types.FileID, pos types.Position) (string, error) {
	params := map[string]any{
		"textDocument": map[string]any{
			"uri": string(id),
		},
		"position": pos,
	}

	response, err := s.transport.SendRequest("textDocument/hover", params)
	if err != nil {
		return "", fmt.Errorf("failed to get hover: %w", err)
	}

	// LSP hover response can be null
	if len(response) == 0 || string(response) == "null" {
		return "", nil
	}

	var hover struct {
		Contents any `json:"contents"`
	}
	if err := json.Unmarshal(response, &hover); err != nil {
		return "", fmt.Errorf("failed to unmarshal hover response: %w", err)
	}

	// Handle different content formats
	switch v := hover.Contents.(type) {
	case string:
		return v, nil
	case map[string]any:
		if value, ok := v["value"]; ok {
			return fmt.Sprintf("%v", value), nil
		}
	}

	return fmt.Sprintf("%v", hover.Contents), nil
}

// ResolvePath maps a file identifier back to an absolute path
func (s *goplsSession) ResolvePath(id types.FileID) (string, error) {
	return s.paths.Path(id)
}

// ResolveFileID maps a path to a file identifier
func (s *goplsSession) ResolveFileID(path string) (types.FileID, error) {
	return s.paths.FileID(path)
}

// Close performs a best-effort LSP teardown, then kills the gopls process
func (s *goplsSession) Close(ctx context.Context) error {
	slog.Debug("Closing gopls session", "workspace_root", s.root)

	if _, err := s.transport.SendRequest("shutdown", nil); err != nil {
		slog.Warn("Failed to send shutdown request", "error", err)
	}
	if err := s.transport.SendNotification("exit", nil); err != nil {
		slog.Warn("Failed to send exit notification", "error", err)
	}
	if err := s.transport.Stop(); err != nil {
		slog.Warn("Failed to stop transport", "error", err)
	}

	if s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill gopls process: %w", err)
		}
		if _, err := s.cmd.Process.Wait(); err != nil {
			return fmt.Errorf("failed to wait for gopls process: %w", err)
		}
	}

	// Reap the stderr drain once the pipes are gone
	if err := s.group.Wait(); err != nil {
		slog.Debug("gopls stderr drain ended", "error", err)
	}

	return nil
}
