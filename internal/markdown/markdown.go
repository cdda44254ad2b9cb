// Package markdown renders release notes and other markdown text for the
// terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/remindme/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown for terminal output, wrapped to width and indented
// by indent spaces. It returns the trimmed source text when rendering fails
// and nil when there is nothing to show.
func Render(width, indent int, input string) string {
	value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(input))
	if internalstrings.IsBlank(value) {
		return ""
	}
	indent = max(indent, 0)
	renderWidth := max(width-indent, 1)

	rendered := safeRender(lookupRenderer(renderWidth), value)
	rendered = trimBlankLines(rendered)
	if rendered == "" {
		return ""
	}
	return indentBlock(rendered, indent)
}

func safeRender(r renderer, value string) (out string) {
	if r == nil {
		return value
	}
	defer func() {
		if recover() != nil {
			out = value
		}
	}()
	formatted, err := r.Render(value)
	if err != nil {
		return value
	}
	return formatted
}

func lookupRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

// trimBlankLines drops leading and trailing blank lines and the trailing
// padding glamour adds to each line.
func trimBlankLines(value string) string {
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func indentBlock(value string, spaces int) string {
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
