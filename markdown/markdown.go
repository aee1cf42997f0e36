// Package markdown renders agent responses to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
package markdown

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/agentwire"
)

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width; code blocks are
// rendered verbatim behind a gutter.
func Render(source string, width int, theme agentwire.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
