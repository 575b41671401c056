package catalog

import "strings"

// LineIndex counts the lines of a file so reported ranges can be clamped
// to positions that exist in the text
type LineIndex struct {
	lineCount int
}

// NewLineIndex builds an index over text. Empty text has one (empty) line.
func NewLineIndex(text string) *LineIndex {
	return &LineIndex{lineCount: strings.Count(text, "\n") + 1}
}

// LineCount returns the number of lines in the text
func (ix *LineIndex) LineCount() int {
	return ix.lineCount
}

// Clamp bounds a 0-based line number to the text
func (ix *LineIndex) Clamp(line int) int {
	if line < 0 {
		return 0
	}
	if line >= ix.lineCount {
		return ix.lineCount - 1
	}
	return line
}
