package bubbletea

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/agentwire"
	rw "github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the agentwire TUI.
type Model struct {
	// Input is the prompt input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	run    QueryFunc
	theme  agentwire.Theme
	styles Styles

	blocks []MessageBlock

	running bool
	cancel  context.CancelFunc
	eventCh chan agentwire.StreamEvent
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a new TUI Model with the given query function and theme.
func New(run QueryFunc, theme agentwire.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the agents..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:  ti,
		run:    run,
		theme:  theme,
		styles: NewStyles(theme),
	}
}

// Running returns whether a query is currently streaming.
func (m Model) Running() bool { return m.running }

// Err returns the last stream error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case QueryDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) && !errors.Is(msg.Err, agentwire.ErrStreamClosed) {
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
			m.Viewport.SetContent(m.renderContent())
			m.Viewport.GotoBottom()
		}
		return m, m.Input.Focus()
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives them for scrolling; the input only when idle.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	const chromeHeight = 3 // status line, input line, separators
	vpHeight := max(msg.Height-chromeHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			// First Ctrl+C cancels the stream, not the program.
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitPrompt(text)
	}

	if !m.running {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		// Only forward non-character keys to the viewport to avoid
		// conflicts with typing (e.g. 'j'/'k' scroll keys).
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m Model) submitPrompt(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan agentwire.StreamEvent, 256)
	m.doneCh = make(chan error, 1)
	m.running = true
	m.Input.Blur()

	return m, tea.Batch(
		startQuery(ctx, m.run, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// processEvent routes a streaming event to its agent's block. Consecutive
// events from the same agent share a block; an agent switch starts a new one.
func (m Model) processEvent(evt agentwire.StreamEvent) Model {
	if n := len(m.blocks); n > 0 {
		if b, ok := m.blocks[n-1].(*AgentBlock); ok && b.Agent() == evt.Agent {
			b.Append(evt.Response)
			return m
		}
	}
	b := NewAgentBlock(evt.Agent, m.theme, m.styles)
	b.Append(evt.Response)
	m.blocks = append(m.blocks, b)
	return m
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	var text string
	var style = m.styles.Muted
	switch {
	case m.err != nil:
		text = "Error: " + m.err.Error()
		style = m.styles.Error
	case m.running:
		text = "Streaming... (Ctrl+C to cancel)"
	default:
		text = "Enter to send, Ctrl+C to quit"
	}
	// Truncate before styling so the ellipsis never lands inside an
	// escape sequence.
	if m.Viewport.Width > 0 {
		text = rw.Truncate(text, m.Viewport.Width, "…")
	}
	return style.Render(text)
}

// startQuery runs the streaming query in a goroutine and signals completion.
func startQuery(ctx context.Context, run QueryFunc, prompt string, eventCh chan<- agentwire.StreamEvent, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, prompt, func(evt agentwire.StreamEvent) {
			select {
			case eventCh <- evt:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes, it reads the error from doneCh and returns QueryDoneMsg.
func listenForEvent(ch <-chan agentwire.StreamEvent, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return QueryDoneMsg{Err: <-doneCh}
		}
		return StreamEventMsg{Event: evt}
	}
}
