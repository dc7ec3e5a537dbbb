package ui

import "github.com/rileyhilliard/ansetup/internal/selection"

// MenuStyle colors the role menu with the package palette. It honors
// DisableColors because lipgloss drops escapes under the Ascii profile.
type MenuStyle struct{}

var _ selection.Style = MenuStyle{}

func (MenuStyle) Title(s string) string   { return BoldStyle().Foreground(ColorInfo).Render(s) }
func (MenuStyle) Hint(s string) string    { return AccentStyle().Render(s) }
func (MenuStyle) Checked(s string) string { return SuccessStyle().Render(s) }
func (MenuStyle) Cursor(s string) string  { return WarningStyle().Render(s) }
func (MenuStyle) Muted(s string) string   { return MutedStyle().Render(s) }
