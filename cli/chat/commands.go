package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) sendMessage() tea.Cmd {
	userInput := strings.TrimSpace(m.textarea.Value())
	if userInput == "" {
		return nil
	}

	m.history.Add(userInput)
	m.historyNavigating = false
	m.textarea.Reset()

	m.sending = true
	m.refreshViewport()
	m.viewport.GotoBottom()

	ctx := m.ctx
	manager := m.manager
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			// Blocks until the exchange concludes; the manager owns the
			// loading flag and error state for the duration.
			manager.SendMessage(ctx, userInput)
			return sendDoneMsg{}
		},
	)
}

func (m *Model) newConversation() {
	id := m.manager.CreateConversation()
	m.manager.SetActiveConversation(id)
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *Model) clearActiveConversation() {
	m.manager.ClearConversation(m.manager.ActiveConversationID())
	m.refreshViewport()
}

// cycleConversation moves the active pointer by delta through the ordered
// conversation list, wrapping around at both ends.
func (m *Model) cycleConversation(delta int) {
	conversations := m.manager.Conversations()
	if len(conversations) == 0 {
		return
	}
	activeID := m.manager.ActiveConversationID()
	index := 0
	for i, c := range conversations {
		if c.ID == activeID {
			index = i
			break
		}
	}
	index = (index + delta + len(conversations)) % len(conversations)
	m.manager.SetActiveConversation(conversations[index].ID)
	m.refreshViewport()
	m.viewport.GotoBottom()
}
