// Package bubbletea provides a Bubble Tea TUI for querying an agent backend.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/agentwire"
)

// QueryFunc streams one query. The onEvent callback is called for each
// StreamEvent. The function blocks until the stream completes, fails, or
// the context is cancelled.
type QueryFunc func(ctx context.Context, prompt string, onEvent func(agentwire.StreamEvent)) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown; when cancelled,
// the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event agentwire.StreamEvent
}

// QueryDoneMsg signals that the streaming query has completed.
type QueryDoneMsg struct {
	Err error
}
