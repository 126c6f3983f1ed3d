package cli

import (
	"fmt"
	"strings"

	"github.com/buger/goterm"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	titleColor     = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor = color.New(color.FgHiBlack)             // Dark grey for separators
	activeColor    = color.New(color.FgGreen)               // Green for the active conversation
	infoColor      = color.New(color.FgCyan)                // Cyan for conversation info
	mutedColor     = color.New(color.FgHiBlack)             // Dark grey for empty conversations

	width = goterm.Width()
)

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width)
	separatorColor.Println(separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// ActiveItem printed to cli.
func ActiveItem(text string, args ...any) {
	activeColor.Printf(text, args...)
}

// Item printed to cli.
func Item(text string, args ...any) {
	infoColor.Printf(text, args...)
}

// MutedItem printed to cli.
func MutedItem(text string, args ...any) {
	mutedColor.Printf(text, args...)
}
