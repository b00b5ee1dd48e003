package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// patternWhy renders the explanation line for a pattern hit: every
// non-overlapping match with its 1-based character positions, joined with
// commas under a single field prefix.
func patternWhy(fieldLabel, text string, spans [][]int) string {
	parts := make([]string, 0, len(spans))
	for _, span := range spans {
		start := utf8.RuneCountInString(text[:span[0]])
		end := utf8.RuneCountInString(text[:span[1]])
		parts = append(parts, fmt.Sprintf("Position %d-%d: %s", start+1, end+1, text[span[0]:span[1]]))
	}
	return fieldLabel + " - " + strings.Join(parts, ", ")
}
