package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette uses the basic ANSI colors so the menu looks the same in every
// terminal, matching the escape codes the shell installers always printed.
const (
	ColorSuccess lipgloss.Color = "2" // green
	ColorError   lipgloss.Color = "1" // red
	ColorWarning lipgloss.Color = "3" // yellow
	ColorInfo    lipgloss.Color = "4" // blue
	ColorAccent  lipgloss.Color = "6" // cyan
	ColorMuted   lipgloss.Color = "8" // gray
)

// SuccessStyle renders green text.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// ErrorStyle renders red text.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// WarningStyle renders bold yellow text.
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
}

// InfoStyle renders blue text.
func InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorInfo)
}

// AccentStyle renders cyan text, used for key hints.
func AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorAccent)
}

// MutedStyle renders gray text.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// BoldStyle renders bold text in the default color.
func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

// DisableColors switches lipgloss to plain ASCII output (--no-color, NO_COLOR).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PrintWarning writes a warning line to stderr.
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle().Render(SymbolWarning), msg)
}
