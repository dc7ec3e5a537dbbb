package selection

import (
	"fmt"
	"strings"
)

// Layout picks one of the two menu presentations.
type Layout int

const (
	// Checklist is the arrow-key menu: a cursor marker, no numbers.
	Checklist Layout = iota
	// Numbered prefixes each row with its 1-based number for typed input.
	Numbered
)

// Style decorates rendered fragments. The zero value of PlainStyle
// leaves text untouched; internal/ui supplies a lipgloss-backed one.
type Style interface {
	Title(s string) string
	Hint(s string) string
	Checked(s string) string
	Cursor(s string) string
	Muted(s string) string
}

// PlainStyle renders without escape sequences.
type PlainStyle struct{}

func (PlainStyle) Title(s string) string   { return s }
func (PlainStyle) Hint(s string) string    { return s }
func (PlainStyle) Checked(s string) string { return s }
func (PlainStyle) Cursor(s string) string  { return s }
func (PlainStyle) Muted(s string) string   { return s }

// RenderOptions controls the static parts of the menu.
type RenderOptions struct {
	Title  string
	Layout Layout
	Style  Style
	// Width of the divider lines; 0 means 80.
	Width int
	// Shortcuts are listed in the numbered layout's hint.
	Shortcuts []Shortcut
}

const (
	cursorMarker = "❯"
	checkedBox   = "[✔]"
	uncheckedBox = "[ ]"
)

// Render draws the full menu for a snapshot. It has no side effects and
// the same input always yields the same text.
func Render(snap Snapshot, opts RenderOptions) string {
	style := opts.Style
	if style == nil {
		style = PlainStyle{}
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	divider := style.Muted(strings.Repeat("-", width))

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(style.Title(opts.Title))
		b.WriteString("\n")
	}
	b.WriteString(hint(opts, style))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")

	for _, e := range snap.Entries {
		b.WriteString(renderEntry(e, opts.Layout, style))
		b.WriteString("\n")
	}

	b.WriteString(divider)
	b.WriteString("\n")
	return b.String()
}

func hint(opts RenderOptions, style Style) string {
	if opts.Layout == Numbered {
		var b strings.Builder
		b.WriteString("Enter numbers to toggle (comma-separated), ")
		for _, sc := range opts.Shortcuts {
			fmt.Fprintf(&b, "'%s' for %s, ", sc.Key, sc.Meta)
		}
		b.WriteString("Enter to confirm, 'q' to quit.")
		return b.String()
	}
	return fmt.Sprintf("Use %s arrows to navigate, %s to select/deselect, %s to confirm, %s to quit.",
		style.Hint("UP/DOWN"), style.Hint("SPACE"), style.Hint("Enter"), style.Hint("Q"))
}

func renderEntry(e Entry, layout Layout, style Style) string {
	box := uncheckedBox
	if e.Checked {
		box = style.Checked(checkedBox)
	}

	label := e.Label
	if e.Meta && e.Description != "" {
		label = fmt.Sprintf("%s %s", e.Label, style.Muted("("+e.Description+")"))
	}

	if layout == Numbered {
		return fmt.Sprintf("%2d. %s %s", e.Number, box, label)
	}

	marker := " "
	if e.Current {
		marker = style.Cursor(cursorMarker)
	}
	return fmt.Sprintf("%s %s %s", marker, box, label)
}
