package types

import (
	"context"
	"errors"
)

// Sentinel errors shared across the engine boundary.
var (
	// ErrManifestNotFound reports that no go.work or go.mod governs a path
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrFileNotFound reports that a path is not part of the loaded workspace
	ErrFileNotFound = errors.New("file not found")
)

// FileID is an opaque handle for a file known to an analysis session.
// It is distinct from the file's path; use Session.ResolvePath to map back.
type FileID string

// Manifest describes a discovered project descriptor (go.work or go.mod)
type Manifest struct {
	// Path is the absolute path of the manifest file
	Path string `json:"path"`
	// Dir is the directory containing the manifest, used as the workspace root
	Dir string `json:"dir"`
	// Module is the module path declared by a go.mod manifest, if any
	Module string `json:"module,omitempty"`
}

// SymbolQuery describes a workspace-wide symbol search at the engine level.
// The flags are deliberately primitive; option parsing and validation happen
// in the catalog before a query is built.
type SymbolQuery struct {
	// Text is the name or pattern to search for
	Text string
	// Exact requires a full-string, case-sensitive name match
	Exact bool
	// Prefix requires a case-sensitive starts-with name match
	Prefix bool
	// OnlyTypes restricts hits to structural type declarations
	OnlyTypes bool
	// Libraries widens the scope to symbols defined outside the workspace
	Libraries bool
	// Limit caps the number of raw hits returned
	Limit int
}

// RawSymbol is one engine-native search hit, before kind normalization
type RawSymbol struct {
	Name string
	Kind int // LSP SymbolKind numeric space
	File FileID
	// Range is the selection range of the symbol name
	Range Range
}

// StructureNode is one declaration in a file's structure tree
type StructureNode struct {
	Name           string
	Kind           int // LSP SymbolKind numeric space
	Range          Range
	SelectionRange Range
	Children       []StructureNode
}

// Session is a loaded analysis workspace. A session answers symbol and file
// queries until closed. Sessions are not safe for concurrent use; callers
// must serialize access.
type Session interface {
	// QuerySymbols runs a workspace-wide symbol search. Exact, Prefix,
	// OnlyTypes, Libraries, and Limit are applied to the raw hits before
	// they are returned.
	QuerySymbols(ctx context.Context, query SymbolQuery) ([]RawSymbol, error)

	// FileStructure returns the top-level declarations of a file in source
	// order. Children are preserved, not flattened. When excludeLocals is
	// set, block-local declarations are omitted.
	FileStructure(ctx context.Context, id FileID, excludeLocals bool) ([]StructureNode, error)

	// FileText returns the session's view of the file content
	FileText(ctx context.Context, id FileID) (string, error)

	// SymbolDocumentation returns documentation for the symbol at a
	// position, or an empty string when none is available. Best effort.
	SymbolDocumentation(ctx context.Context, id FileID, pos Position) (string, error)

	// ResolvePath maps a file identifier back to an absolute path
	ResolvePath(id FileID) (string, error)

	// ResolveFileID maps an absolute path to a file identifier, returning
	// ErrFileNotFound when the path is outside the session
	ResolveFileID(path string) (FileID, error)

	// Close shuts down the session and releases the engine process
	Close(ctx context.Context) error
}

// Engine discovers project manifests and loads analysis sessions
type Engine interface {
	// DiscoverManifest walks up from path to the nearest go.work or
	// go.mod, returning ErrManifestNotFound when none governs the path
	DiscoverManifest(path string) (Manifest, error)

	// LoadWorkspace starts an analysis session rooted at the manifest
	// directory. Loading may block for the full duration of workspace
	// discovery; it carries no internal timeout.
	LoadWorkspace(ctx context.Context, manifest Manifest) (Session, error)
}
