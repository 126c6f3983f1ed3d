package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/duskren/convo/cli/chat/styles"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Alt && !m.sending {
			switch msg.String() {
			case "alt+p":
				if entry, ok := m.history.Previous(m.textarea.Value()); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					return m, nil
				}
			case "alt+n":
				if entry, ok := m.history.Next(); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					return m, nil
				}
			case "alt+up":
				m.cycleConversation(-1)
				return m, nil
			case "alt+down":
				m.cycleConversation(1)
				return m, nil
			}
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyCtrlJ:
			// Compose is disabled while a reply is pending.
			if !m.sending && strings.TrimSpace(m.textarea.Value()) != "" {
				return m, m.sendMessage()
			}

		case tea.KeyCtrlT:
			if !m.sending {
				m.newConversation()
				return m, nil
			}

		case tea.KeyCtrlX:
			if !m.sending {
				m.clearActiveConversation()
				return m, nil
			}

		case tea.KeyEnter:
			if m.historyNavigating {
				m.history.Reset()
				m.historyNavigating = false
			}
		}

		if !m.sending && m.historyNavigating {
			switch msg.Type {
			case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
				m.history.Reset()
				m.historyNavigating = false
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()

	case sendDoneMsg:
		m.sending = false
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.sending {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// recalculateLayout resizes the components after a window size change.
func (m *Model) recalculateLayout() {
	contentWidth := m.width - styles.SidebarWidth - styles.SidebarStyle.GetHorizontalFrameSize()
	if contentWidth < 20 {
		contentWidth = 20
	}

	textareaHeight := styles.MinTextareaHeight
	viewportHeight := m.height - styles.HeaderHeight - textareaHeight - styles.TextAreaStyle.GetVerticalFrameSize()
	if viewportHeight < styles.MinViewportHeight {
		viewportHeight = styles.MinViewportHeight
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}

	m.textarea.SetWidth(m.width - styles.TextAreaStyle.GetHorizontalFrameSize())
	_ = m.renderer.SetWidth(contentWidth - styles.AIMessageStyle.GetHorizontalFrameSize())

	m.refreshViewport()
	m.viewport.GotoBottom()
}

// refreshViewport re-renders the active conversation into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}
