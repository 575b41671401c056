// Package catalog is the symbol catalog facade: it owns the analysis
// session, serializes all access to it, and normalizes engine results into
// a small stable schema with a closed kind taxonomy and error taxonomy.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

const (
	// maxSearchResults bounds search latency and response size
	maxSearchResults = 1000
)

// SymbolInfo is one catalog entry, constructed per call and never persisted
type SymbolInfo struct {
	Name          string     `json:"name"`
	Kind          SymbolKind `json:"kind"`
	FilePath      string     `json:"file_path,omitempty"`
	StartLine     int        `json:"start_line"`
	EndLine       int        `json:"end_line"`
	Documentation string     `json:"documentation,omitempty"`
}

// Catalog orchestrates load, search, and enumerate against the analysis
// session. The session is a single shared mutable resource that is not
// proven safe under concurrent mutation and read, so every operation runs
// inside one mutual-exclusion critical section, in arrival order.
type Catalog struct {
	mu      sync.Mutex
	engine  types.Engine
	session types.Session
}

// NewCatalog creates a catalog over an engine. No session exists until
// LoadProject succeeds.
func NewCatalog(engine types.Engine) *Catalog {
	return &Catalog{engine: engine}
}

// LoadProject discovers and loads the workspace at path, atomically
// replacing the active session on success. On failure the previous
// session, if any, stays usable. Loading may block for the full duration
// of workspace discovery; there is no internal timeout.
func (c *Catalog) LoadProject(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	canonical, err := canonicalProjectPath(path)
	if err != nil {
		return newError(CodeManifestNotFound, fmt.Sprintf("%s: %v", path, err), err)
	}

	manifest, err := c.engine.DiscoverManifest(canonical)
	if err != nil {
		return newError(CodeManifestNotFound, err.Error(), err)
	}

	session, err := c.engine.LoadWorkspace(ctx, manifest)
	if err != nil {
		return newError(CodeProjectLoadError, err.Error(), err)
	}

	if c.session != nil {
		if err := c.session.Close(ctx); err != nil {
			slog.Warn("Failed to close previous session", "error", err)
		}
	}
	c.session = session

	slog.Info("Project loaded", "workspace_root", manifest.Dir, "module", manifest.Module)
	return nil
}

// canonicalProjectPath normalizes a project path before manifest discovery
func canonicalProjectPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// FindSymbol searches the loaded workspace for a symbol name. Raw hits are
// normalized into the closed catalog schema; per-entry fallbacks (path,
// lines, documentation) never fail the whole call.
func (c *Catalog) FindSymbol(ctx context.Context, name string, opts SearchOptions) ([]SymbolInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, newError(CodeProjectLoadError, "no project loaded", nil)
	}

	query := types.SymbolQuery{
		Text:      name,
		Exact:     opts.Mode == SearchModeExact,
		Prefix:    opts.Mode == SearchModePrefix,
		OnlyTypes: opts.Filter == FilterTypes,
		Libraries: opts.IncludeLibrary,
		Limit:     maxSearchResults,
	}

	raw, err := c.session.QuerySymbols(ctx, query)
	if err != nil {
		return nil, classifyQueryError(err, "search failed")
	}

	cache := newStructureCache(c.session)

	results := make([]SymbolInfo, 0, len(raw))
	for _, sym := range raw {
		kind, ok := kindFromLSP(sym.Kind)
		if !ok {
			continue
		}
		if !opts.Filter.keeps(kind) {
			continue
		}

		info := SymbolInfo{
			Name:     sym.Name,
			Kind:     kind,
			FilePath: c.resolvePath(sym.File),
		}
		info.StartLine, info.EndLine = symbolLines(ctx, cache, sym)
		info.Documentation = c.symbolDocumentation(ctx, sym)

		results = append(results, info)
	}

	if opts.Mode == SearchModeFuzzy {
		rankByName(name, results)
	}

	return results, nil
}

// EnumerateFile lists the top-level declarations of a file in source
// order. Nodes with no mappable kind are skipped, never erroring the call.
func (c *Catalog) EnumerateFile(ctx context.Context, filePath string) ([]SymbolInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, newError(CodeProjectLoadError, "no project loaded", nil)
	}

	id, err := c.session.ResolveFileID(filePath)
	if err != nil {
		if errors.Is(err, types.ErrFileNotFound) {
			return nil, newError(CodeOther, "file not found", err)
		}
		return nil, newError(CodeIoError, fmt.Sprintf("failed to resolve %s: %v", filePath, err), err)
	}

	nodes, err := c.session.FileStructure(ctx, id, true)
	if err != nil {
		return nil, classifyQueryError(err, fmt.Sprintf("failed to read structure of %s", filePath))
	}

	var ix *LineIndex
	if text, err := c.session.FileText(ctx, id); err == nil {
		ix = NewLineIndex(text)
	} else {
		slog.Debug("Failed to get file text", "file_id", id, "error", err)
	}

	results := make([]SymbolInfo, 0, len(nodes))
	for _, node := range nodes {
		kind, ok := kindFromLSP(node.Kind)
		if !ok {
			continue
		}

		startLine, endLine := 0, 0
		if ix != nil {
			startLine = ix.Clamp(node.Range.Start.Line)
			endLine = ix.Clamp(node.Range.End.Line)
		}

		results = append(results, SymbolInfo{
			Name:      node.Name,
			Kind:      kind,
			StartLine: startLine,
			EndLine:   endLine,
		})
	}

	return results, nil
}

// Close shuts down the active session, if any
func (c *Catalog) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	err := c.session.Close(ctx)
	c.session = nil
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// resolvePath maps a file identifier to a path, falling back to the raw
// identifier string rather than failing the entry
func (c *Catalog) resolvePath(id types.FileID) string {
	path, err := c.session.ResolvePath(id)
	if err != nil {
		slog.Debug("Failed to resolve path", "file_id", id, "error", err)
		return string(id)
	}
	return path
}

// symbolDocumentation attaches hover documentation when available;
// absence is never an error
func (c *Catalog) symbolDocumentation(ctx context.Context, sym types.RawSymbol) string {
	doc, err := c.session.SymbolDocumentation(ctx, sym.File, sym.Range.Start)
	if err != nil {
		slog.Debug("Failed to get documentation", "file_id", sym.File, "symbol", sym.Name, "error", err)
		return ""
	}
	return doc
}

// structureCache memoizes per-file structure and line index lookups for
// the duration of one FindSymbol call
type structureCache struct {
	session    types.Session
	structures map[types.FileID][]types.StructureNode
	lines      map[types.FileID]*LineIndex
}

func newStructureCache(session types.Session) *structureCache {
	return &structureCache{
		session:    session,
		structures: make(map[types.FileID][]types.StructureNode),
		lines:      make(map[types.FileID]*LineIndex),
	}
}

func (sc *structureCache) structure(ctx context.Context, id types.FileID) []types.StructureNode {
	if nodes, ok := sc.structures[id]; ok {
		return nodes
	}

	nodes, err := sc.session.FileStructure(ctx, id, true)
	if err != nil {
		slog.Debug("Failed to get file structure", "file_id", id, "error", err)
		nodes = nil
	}
	sc.structures[id] = nodes
	return nodes
}

func (sc *structureCache) lineIndex(ctx context.Context, id types.FileID) *LineIndex {
	if ix, ok := sc.lines[id]; ok {
		return ix
	}

	text, err := sc.session.FileText(ctx, id)
	if err != nil {
		slog.Debug("Failed to get file text", "file_id", id, "error", err)
		sc.lines[id] = nil
		return nil
	}

	ix := NewLineIndex(text)
	sc.lines[id] = ix
	return ix
}

// symbolLines computes a declaration's 0-based line span. The covering
// declaration range comes from the file structure when available, with the
// raw name range as fallback; text retrieval failure defaults to (0, 0).
func symbolLines(ctx context.Context, cache *structureCache, sym types.RawSymbol) (int, int) {
	ix := cache.lineIndex(ctx, sym.File)
	if ix == nil {
		return 0, 0
	}

	r := sym.Range
	if covering, ok := coveringRange(cache.structure(ctx, sym.File), sym.Range.Start); ok {
		r = covering
	}

	return ix.Clamp(r.Start.Line), ix.Clamp(r.End.Line)
}

// coveringRange finds the deepest declaration whose range contains pos
func coveringRange(nodes []types.StructureNode, pos types.Position) (types.Range, bool) {
	for _, node := range nodes {
		if !containsPosition(node.Range, pos) {
			continue
		}
		if child, ok := coveringRange(node.Children, pos); ok {
			return child, true
		}
		return node.Range, true
	}
	return types.Range{}, false
}

// containsPosition reports whether r includes pos
func containsPosition(r types.Range, pos types.Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}
