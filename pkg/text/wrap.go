// Package text provides greedy word wrapping against a measured pixel width.
package text

import "strings"

// Measurer reports the rendered size of a string.
// *gg.Context satisfies it once a font face is set.
type Measurer interface {
	MeasureString(s string) (w, h float64)
}

// Wrap splits s into lines no wider than width as measured by m.
//
// Words are appended to the current line while the joined line still fits;
// otherwise the line is flushed and the word starts a new one. A single word
// wider than width is placed on its own line unmodified. Runs of whitespace
// collapse to single spaces. Empty input yields no lines.
func Wrap(m Measurer, s string, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if w, _ := m.MeasureString(candidate); w <= width {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
