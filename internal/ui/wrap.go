package ui

import (
	"strings"

	internalstrings "github.com/amonks/remindme/internal/strings"
	"github.com/muesli/reflow/wordwrap"
)

// Wrap wraps each paragraph of value to width and indents every line.
// Paragraphs are separated by blank lines; line breaks inside a paragraph
// are folded into spaces.
func Wrap(value string, width, indent int) string {
	value = internalstrings.NormalizeNewlines(value)
	if internalstrings.IsBlank(value) {
		return ""
	}
	wrapWidth := max(width-indent, 1)

	var paragraphs []string
	for _, paragraph := range strings.Split(value, "\n\n") {
		normalized := internalstrings.NormalizeWhitespace(paragraph)
		if normalized == "" {
			continue
		}
		paragraphs = append(paragraphs, wordwrap.String(normalized, wrapWidth))
	}

	prefix := strings.Repeat(" ", max(indent, 0))
	lines := strings.Split(strings.Join(paragraphs, "\n\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
