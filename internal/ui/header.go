package ui

import (
	"fmt"
	"io"
	"strings"
)

// HeaderInfo is shown once at the top of a deploy run.
type HeaderInfo struct {
	Version     string // e.g. "v0.3.0"
	Mode        string // "local", "remote" or "cloud-init"
	PlaybookDir string
}

// HeaderWidth is the width of the divider under the header.
const HeaderWidth = 50

// RenderHeader renders the run header:
//
//	ansetup v0.3.0 · remote
//	/home/me/dotfiles
//	━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
func RenderHeader(info HeaderInfo) string {
	var b strings.Builder

	b.WriteString(BoldStyle().Foreground(ColorInfo).Render("ansetup"))
	if info.Version != "" {
		b.WriteString(" ")
		b.WriteString(AccentStyle().Render(info.Version))
	}
	if info.Mode != "" {
		b.WriteString(MutedStyle().Render(" · " + info.Mode))
	}
	b.WriteString("\n")

	if info.PlaybookDir != "" {
		b.WriteString(MutedStyle().Render(info.PlaybookDir))
		b.WriteString("\n")
	}

	b.WriteString(MutedStyle().Render(strings.Repeat("━", HeaderWidth)))
	b.WriteString("\n")
	return b.String()
}

// PrintHeader writes the header to w.
func PrintHeader(w io.Writer, info HeaderInfo) {
	fmt.Fprint(w, RenderHeader(info))
}
