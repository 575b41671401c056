package types

// Position represents a position in a text document
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range represents a range in a text document
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location represents a location in a text document
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// SymbolInformation represents information about a symbol
type SymbolInformation struct {
	Name          string   `json:"name"`
	Kind          int      `json:"kind"`
	Location      Location `json:"location"`
	ContainerName string   `json:"containerName,omitempty"`
}

// LSP symbol kinds, based on protocol specification
// See: https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#symbolKind
const (
	LSPSymbolKindFile          = 1
	LSPSymbolKindModule        = 2
	LSPSymbolKindNamespace     = 3
	LSPSymbolKindPackage       = 4
	LSPSymbolKindClass         = 5
	LSPSymbolKindMethod        = 6
	LSPSymbolKindProperty      = 7
	LSPSymbolKindField         = 8
	LSPSymbolKindConstructor   = 9
	LSPSymbolKindEnum          = 10
	LSPSymbolKindInterface     = 11
	LSPSymbolKindFunction      = 12
	LSPSymbolKindVariable      = 13
	LSPSymbolKindConstant      = 14
	LSPSymbolKindString        = 15
	LSPSymbolKindNumber        = 16
	LSPSymbolKindBoolean       = 17
	LSPSymbolKindArray         = 18
	LSPSymbolKindObject        = 19
	LSPSymbolKindKey           = 20
	LSPSymbolKindNull          = 21
	LSPSymbolKindEnumMember    = 22
	LSPSymbolKindStruct        = 23
	LSPSymbolKindEvent         = 24
	LSPSymbolKindOperator      = 25
	LSPSymbolKindTypeParameter = 26
)

// DocumentSymbol represents a symbol within a document with hierarchical structure
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}
