package catalog

import (
	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

// SymbolKind is the closed taxonomy every reported kind is drawn from.
// The serialized spellings are part of the wire contract.
type SymbolKind string

const (
	SymbolKindFunction       SymbolKind = "Function"
	SymbolKindStruct         SymbolKind = "Struct"
	SymbolKindEnum           SymbolKind = "Enum"
	SymbolKindTrait          SymbolKind = "Trait"
	SymbolKindModule         SymbolKind = "Module"
	SymbolKindConst          SymbolKind = "Const"
	SymbolKindStatic         SymbolKind = "Static"
	SymbolKindTypeAlias      SymbolKind = "TypeAlias"
	SymbolKindMethod         SymbolKind = "Method"
	SymbolKindField          SymbolKind = "Field"
	SymbolKindImplementation SymbolKind = "Implementation"
)

// Engine-native kinds map onto the closed taxonomy. Kinds outside the map
// (literals, region markers, type parameters) are dropped rather than
// guessed, so the taxonomy carries no catch-all member.
// See: https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#symbolKind
var lspKindMap = map[int]SymbolKind{
	types.LSPSymbolKindModule:    SymbolKindModule,
	types.LSPSymbolKindNamespace: SymbolKindModule,
	types.LSPSymbolKindPackage:   SymbolKindModule,
	// gopls reports non-struct named types (type Celsius float64) as Class
	types.LSPSymbolKindClass:       SymbolKindTypeAlias,
	types.LSPSymbolKindMethod:      SymbolKindMethod,
	types.LSPSymbolKindProperty:    SymbolKindField,
	types.LSPSymbolKindField:       SymbolKindField,
	types.LSPSymbolKindConstructor: SymbolKindFunction,
	types.LSPSymbolKindEnum:        SymbolKindEnum,
	types.LSPSymbolKindInterface:   SymbolKindTrait,
	types.LSPSymbolKindFunction:    SymbolKindFunction,
	types.LSPSymbolKindVariable:    SymbolKindStatic,
	types.LSPSymbolKindConstant:    SymbolKindConst,
	// Some engines lower implementation blocks to Object
	types.LSPSymbolKindObject:     SymbolKindImplementation,
	types.LSPSymbolKindEnumMember: SymbolKindConst,
	types.LSPSymbolKindStruct:     SymbolKindStruct,
}

// kindFromLSP maps an engine-native kind to the closed taxonomy. The same
// mapping serves both the search path and the enumerate path; ok reports
// whether the kind is representable at all.
func kindFromLSP(kind int) (SymbolKind, bool) {
	mapped, ok := lspKindMap[kind]
	return mapped, ok
}
