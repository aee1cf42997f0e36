package bubbletea

import (
	"strings"

	"github.com/fwojciec/agentwire"
	"github.com/fwojciec/agentwire/markdown"
)

var _ MessageBlock = (*AgentBlock)(nil)

// AgentBlock renders one agent's streamed response under a name header.
// Response fragments accumulate as they arrive; the markdown rendering is
// cached per width and invalidated on append.
type AgentBlock struct {
	agent   string
	content strings.Builder
	theme   agentwire.Theme
	styles  Styles

	renderedByWidth map[int]string
}

// NewAgentBlock creates a block for the named agent's output.
func NewAgentBlock(agent string, theme agentwire.Theme, styles Styles) *AgentBlock {
	return &AgentBlock{
		agent:           agent,
		theme:           theme,
		styles:          styles,
		renderedByWidth: make(map[int]string),
	}
}

// Agent returns the name of the agent this block belongs to.
func (b *AgentBlock) Agent() string { return b.agent }

// Append adds a streamed response fragment.
func (b *AgentBlock) Append(text string) {
	b.content.WriteString(text)
	clear(b.renderedByWidth)
}

func (b *AgentBlock) View(width int) string {
	if cached, ok := b.renderedByWidth[width]; ok {
		return cached
	}
	header := b.styles.Agent.Render(b.agent)
	body := markdown.Render(b.content.String(), width, b.theme)
	rendered := header + "\n" + body
	b.renderedByWidth[width] = rendered
	return rendered
}
