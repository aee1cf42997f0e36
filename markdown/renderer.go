package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/agentwire"
	"github.com/rivo/uniseg"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type renderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newRenderer(theme agentwire.Theme) *renderer {
	return &renderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func (r *renderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var b strings.Builder
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(&b, c, source, width)
	}
	return strings.TrimRight(b.String(), "\n")
}

// block renders one top-level or nested block node followed by a blank
// separator line when a sibling follows it.
func (r *renderer) block(b *strings.Builder, node ast.Node, source []byte, width int) {
	switch n := node.(type) {
	case *ast.Paragraph:
		b.WriteString(wrap(r.inline(n, source), width))
		b.WriteString("\n")

	case *ast.Heading:
		b.WriteString(wrap(r.heading.Render(r.inline(n, source)), width))
		b.WriteString("\n")

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			b.WriteString(r.muted.Render(lang))
			b.WriteString("\n")
		}
		r.codeLines(b, n.Lines(), source)

	case *ast.CodeBlock:
		r.codeLines(b, n.Lines(), source)

	case *ast.List:
		r.list(b, n, source, width, 0)

	case *ast.ThematicBreak:
		b.WriteString(r.muted.Render(strings.Repeat("─", min(width, 40))))
		b.WriteString("\n")

	default:
		// Blockquotes and anything unrecognized: render the children plain.
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(b, c, source, width)
		}
		return
	}

	if node.NextSibling() != nil {
		b.WriteString("\n")
	}
}

// codeLines writes source lines behind a muted gutter, never reflowed.
func (r *renderer) codeLines(b *strings.Builder, lines *text.Segments, source []byte) {
	gutter := r.muted.Render("│") + " "
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.WriteString(gutter)
		b.WriteString(strings.TrimRight(string(seg.Value(source)), "\n"))
		b.WriteString("\n")
	}
}

func (r *renderer) list(b *strings.Builder, node *ast.List, source []byte, width, depth int) {
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}

		marker := "- "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		prefix := strings.Repeat("  ", depth) + marker

		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.List:
				r.list(b, in, source, width, depth+1)
			default:
				r.listItem(b, r.inline(in, source), prefix, width)
				// Continuation blocks of the same item align under the text.
				prefix = strings.Repeat(" ", uniseg.StringWidth(prefix))
			}
		}
	}
}

// listItem writes one wrapped list item with continuation lines indented to
// the marker width. uniseg measures the prefix so wide markers (e.g. "10. ")
// indent correctly.
func (r *renderer) listItem(b *strings.Builder, content, prefix string, width int) {
	itemWidth := max(width-uniseg.StringWidth(prefix), 10)
	continuation := strings.Repeat(" ", uniseg.StringWidth(prefix))
	for i, line := range strings.Split(wrap(content, itemWidth), "\n") {
		if i == 0 {
			b.WriteString(prefix)
		} else {
			b.WriteString(continuation)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// inline collects the styled inline text under node.
func (r *renderer) inline(node ast.Node, source []byte) string {
	var b strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.inlineNode(&b, c, source)
	}
	return b.String()
}

func (r *renderer) inlineNode(b *strings.Builder, node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			b.WriteByte(' ')
		}
		if n.HardLineBreak() {
			b.WriteByte('\n')
		}

	case *ast.String:
		b.Write(n.Value)

	case *ast.Emphasis:
		inner := r.inline(n, source)
		if n.Level == 1 {
			b.WriteString(r.italic.Render(inner))
		} else {
			b.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		b.WriteString(r.bold.Render(r.inline(n, source)))

	case *ast.Link:
		b.WriteString(r.underline.Render(r.inline(n, source)))
		b.WriteString(r.muted.Render(" (" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		b.WriteString(r.underline.Render(string(n.URL(source))))

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.inlineNode(b, c, source)
		}
	}
}

// wrap word-wraps text to width via lipgloss, which is ANSI-aware.
func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}
