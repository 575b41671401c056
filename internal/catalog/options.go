package catalog

import "fmt"

// SearchMode controls how a symbol name query is matched
type SearchMode string

const (
	// SearchModeExact requires a full, case-sensitive name match
	SearchModeExact SearchMode = "exact"
	// SearchModeFuzzy tolerates typos and subsequence matches
	SearchModeFuzzy SearchMode = "fuzzy"
	// SearchModePrefix matches names starting with the query
	SearchModePrefix SearchMode = "prefix"
)

// ParseSearchMode parses a wire-level mode string. The empty string selects
// the default fuzzy mode; anything outside the closed set is rejected.
func ParseSearchMode(s string) (SearchMode, error) {
	switch s {
	case "":
		return SearchModeFuzzy, nil
	case "exact":
		return SearchModeExact, nil
	case "fuzzy":
		return SearchModeFuzzy, nil
	case "prefix":
		return SearchModePrefix, nil
	default:
		return "", fmt.Errorf("invalid search mode: '%s', valid values are 'exact', 'fuzzy', 'prefix'", s)
	}
}

// SymbolFilter restricts which symbol kinds a search returns
type SymbolFilter string

const (
	// FilterTypes keeps only structural type declarations; enforced at the
	// engine-query level, before kind normalization
	FilterTypes SymbolFilter = "types"
	// FilterImplementations keeps only implementation blocks
	FilterImplementations SymbolFilter = "implementations"
	// FilterFunctions keeps only functions and methods
	FilterFunctions SymbolFilter = "functions"
	// FilterAll applies no kind restriction
	FilterAll SymbolFilter = "all"
)

// ParseSymbolFilter parses a wire-level filter string. The empty string
// selects the default all filter; anything outside the closed set is
// rejected.
func ParseSymbolFilter(s string) (SymbolFilter, error) {
	switch s {
	case "":
		return FilterAll, nil
	case "types":
		return FilterTypes, nil
	case "implementations":
		return FilterImplementations, nil
	case "functions":
		return FilterFunctions, nil
	case "all":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("invalid symbol filter: '%s', valid values are 'types', 'implementations', 'functions', 'all'", s)
	}
}

// keeps reports whether a normalized kind passes the post-hoc filter.
// Types is enforced at the engine-query level and needs no re-check here.
func (f SymbolFilter) keeps(kind SymbolKind) bool {
	switch f {
	case FilterImplementations:
		return kind == SymbolKindImplementation
	case FilterFunctions:
		return kind == SymbolKindFunction || kind == SymbolKindMethod
	default:
		return true
	}
}

// SearchOptions describes how a find_symbol query is matched, scoped, and
// filtered. Immutable per call.
type SearchOptions struct {
	Mode           SearchMode
	IncludeLibrary bool
	Filter         SymbolFilter
}

// DefaultSearchOptions returns the documented defaults: fuzzy matching,
// workspace scope only, no kind filter
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Mode:           SearchModeFuzzy,
		IncludeLibrary: false,
		Filter:         FilterAll,
	}
}

// ParseSearchOptions builds SearchOptions from wire-level values, rejecting
// unknown strings before any session access
func ParseSearchOptions(mode string, includeLibrary bool, filter string) (SearchOptions, error) {
	parsedMode, err := ParseSearchMode(mode)
	if err != nil {
		return SearchOptions{}, err
	}

	parsedFilter, err := ParseSymbolFilter(filter)
	if err != nil {
		return SearchOptions{}, err
	}

	return SearchOptions{
		Mode:           parsedMode,
		IncludeLibrary: includeLibrary,
		Filter:         parsedFilter,
	}, nil
}
