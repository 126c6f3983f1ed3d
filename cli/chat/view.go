package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/duskren/convo/cli/chat/styles"
	"github.com/duskren/convo/internal/conversation"
	"github.com/duskren/convo/internal/timefmt"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		styles.SidebarStyle.Render(m.renderSidebar()),
		styles.ViewportStyle.Render(m.viewport.View()),
	)
	b.WriteString(body)
	b.WriteString("\n")

	if m.sending {
		b.WriteString(fmt.Sprintf("%s Generating...\n", m.spinner.View()))
	} else {
		b.WriteString(styles.TextAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if err := m.manager.Err(); err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
	}

	return b.String()
}

func (m *Model) renderTitle() string {
	title := " 💬 convo "
	for _, c := range m.manager.Conversations() {
		if c.ID == m.manager.ActiveConversationID() {
			title = fmt.Sprintf(" 💬 %s ", c.Title)
			break
		}
	}
	return styles.TitleStyle.Width(m.width).Render(title)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	activeID := m.manager.ActiveConversationID()
	for i, c := range m.manager.Conversations() {
		if i > 0 {
			b.WriteString("\n")
		}
		line := truncate(c.Title, styles.SidebarWidth-4)
		if c.ID == activeID {
			b.WriteString(styles.SidebarActiveItemStyle.Render("> " + line))
		} else {
			b.WriteString(styles.SidebarItemStyle.Render("  " + line))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Alt+↑/↓ switch\nCtrl+T new\nCtrl+X clear"))
	return b.String()
}

func (m *Model) renderMessages() string {
	var b strings.Builder
	contentWidth := m.viewport.Width

	items := conversation.GroupMessages(m.manager.ActiveMessages())
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}

		if item.Kind == conversation.RenderItemDivider {
			b.WriteString(styles.Divider(contentWidth, item.Label))
			continue
		}

		msg := item.Message
		clock := timefmt.FormatClockTime(msg.Timestamp)
		switch msg.Role {
		case conversation.RoleUser:
			b.WriteString(styles.UserMessageStyle.Render(msg.Content))
		case conversation.RoleAssistant:
			b.WriteString(styles.AIMessageStyle.Render(m.renderer.Render(msg.Content)))
		}
		if clock != "" {
			b.WriteString("\n")
			b.WriteString(styles.TimestampStyle.Render(clock))
		}
	}

	if m.sending {
		b.WriteString("\n\n")
		b.WriteString(styles.SpinnerStyle.Render("▋"))
	}

	return b.String()
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen || maxLen <= 3 {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
