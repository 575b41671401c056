package catalog

import (
	"log/slog"
	"sort"

	"github.com/hbollon/go-edlib"
)

// rankByName orders fuzzy results by Jaro-Winkler similarity between the
// query and each symbol name, best first. The sort is stable so engine
// relevance breaks ties.
func rankByName(query string, results []SymbolInfo) {
	type scored struct {
		result SymbolInfo
		score  float32
	}

	scoredResults := make([]scored, len(results))
	for i, result := range results {
		score, err := edlib.StringsSimilarity(query, result.Name, edlib.JaroWinkler)
		if err != nil {
			slog.Debug("Failed to score symbol name", "query", query, "name", result.Name, "error", err)
		}
		scoredResults[i] = scored{result: result, score: score}
	}

	sort.SliceStable(scoredResults, func(i, j int) bool {
		return scoredResults[i].score > scoredResults[j].score
	})

	for i, sr := range scoredResults {
		results[i] = sr.result
	}
}
