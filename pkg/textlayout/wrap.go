// Package textlayout wraps text into display lines for a renderer that can
// measure strings.
package textlayout

import "strings"

// MeasureFunc reports the display width of text in renderer units
// (pixels, terminal cells, ...).
type MeasureFunc func(text string) int

// Wrap splits text at single-space word boundaries into lines whose measured
// width does not exceed maxWidth. A word wider than maxWidth on its own is
// never split and occupies a line by itself. Empty input yields no lines.
func Wrap(text string, measure MeasureFunc, maxWidth int) []string {
	lines := make([]string, 0, 4)
	current := ""
	for _, word := range strings.Split(text, " ") {
		candidate := strings.TrimSpace(current + " " + word)
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// WrapLines treats every newline as a hard break and wraps each paragraph
// independently.
func WrapLines(text string, measure MeasureFunc, maxWidth int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, Wrap(paragraph, measure, maxWidth)...)
	}
	return lines
}
