package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/duskren/convo/cli/chat/styles"
	"github.com/duskren/convo/internal/conversation"
	"github.com/duskren/convo/internal/history"
	"github.com/duskren/convo/internal/markdown"
)

// Model represents the Bubble Tea model for the chat screen.
type Model struct {
	// Core dependencies
	ctx     context.Context
	manager *conversation.Manager

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer

	// UI state
	width    int
	height   int
	ready    bool
	sending  bool
	quitting bool

	// Input history
	history           *history.History
	historyNavigating bool
}

// sendDoneMsg signals that a send exchange has concluded, successfully or not.
type sendDoneMsg struct{}

// New creates a new chat screen model. historyPath is the file backing the
// composer's input history.
func New(ctx context.Context, manager *conversation.Manager, historyPath string) (*Model, error) {
	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Type your message... (Ctrl+J to send, Ctrl+T for a new conversation, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(styles.DefaultTextareaWidth)
	ta.SetHeight(styles.MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	// Create spinner
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	renderer, err := markdown.NewRenderer(styles.DefaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	return &Model{
		ctx:      ctx,
		manager:  manager,
		textarea: ta,
		spinner:  sp,
		renderer: renderer,
		history:  history.New(historyPath),
	}, nil
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}
