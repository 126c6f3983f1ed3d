package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	// Textarea
	MinTextareaHeight    = 3
	MaxTextareaHeight    = 10
	DefaultTextareaWidth = 80
	TextAreaPaddingLeft  = 1

	// Viewport
	MinViewportHeight = 1

	// Layout
	HeaderHeight       = 2
	SidebarWidth       = 26
	MessagePaddingLeft = 2

	// Help
	HelpMarginTop = 1
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	SecondaryColor = lipgloss.Color("#06B6D4") // Cyan
	AccentColor    = lipgloss.Color("#F59E0B") // Amber
	SuccessColor   = lipgloss.Color("#10B981") // Green
	ErrorColor     = lipgloss.Color("#EF4444") // Red
	MutedColor     = lipgloss.Color("#6B7280") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light gray
	DimTextColor   = lipgloss.Color("#9CA3AF") // Dim gray
	BorderColor    = lipgloss.Color("#4B5563")
	DividerColor   = lipgloss.Color("#374151")
)

// Title bar
var (
	TitleStyle = lipgloss.NewStyle().
		Background(PrimaryColor).
		Foreground(TextColor).
		Bold(true)
)

// Sidebar
var (
	SidebarStyle = lipgloss.NewStyle().
			Width(SidebarWidth).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(BorderColor).
			PaddingRight(1)

	SidebarActiveItemStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(DimTextColor)
)

// Messages.
var (
	messageStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	UserMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(PrimaryColor).
				MarginLeft(10)

	AIMessageStyle = lipgloss.NewStyle().
			Inherit(messageStyle).
			BorderForeground(SecondaryColor).
			MarginRight(10)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// Error
var (
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
)

// Input area
var (
	TextAreaStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		PaddingLeft(TextAreaPaddingLeft)
)

// Spinner
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor)
)

// Help text
var (
	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true).
		MarginTop(HelpMarginTop)
)

// Viewport
var (
	ViewportStyle = lipgloss.NewStyle().Margin(0).Padding(0)
)

// Divider
var (
	DividerStyle = lipgloss.NewStyle().
			Foreground(DividerColor)

	DividerLabelStyle = lipgloss.NewStyle().
				Foreground(DimTextColor).
				Bold(true)
)

// Divider creates a horizontal date divider with a centered label.
func Divider(width int, label string) string {
	if label == "" {
		return DividerStyle.Render(strings.Repeat("─", max(width, 0)))
	}
	text := " " + label + " "
	remaining := width - lipgloss.Width(text)
	if remaining < 2 {
		return DividerLabelStyle.Render(text)
	}
	left := remaining / 2
	right := remaining - left
	return DividerStyle.Render(strings.Repeat("─", left)) +
		DividerLabelStyle.Render(text) +
		DividerStyle.Render(strings.Repeat("─", right))
}
