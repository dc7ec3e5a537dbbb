package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rileyhilliard/ansetup/internal/catalog"
)

// RenderRoleTable writes the catalog as a table: every role with its menu
// number, then each meta-selection with the roles it expands to. Colors
// are only applied when color is true.
func RenderRoleTable(w io.Writer, cat *catalog.Catalog, color bool) {
	paint := func(c text.Color, s string) string {
		if !color {
			return s
		}
		return c.Sprint(s)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if !color {
		t.SetStyle(table.StyleLight)
	}

	t.AppendHeader(table.Row{
		paint(text.FgHiCyan, "#"),
		paint(text.FgHiCyan, "NAME"),
		paint(text.FgHiCyan, "KIND"),
		paint(text.FgHiCyan, "ROLES"),
	})

	for i, r := range cat.Roles() {
		t.AppendRow(table.Row{i + 1, string(r), "role", ""})
	}
	t.AppendSeparator()
	for j, m := range cat.Metas() {
		t.AppendRow(table.Row{
			cat.Len() + j + 1,
			paint(text.FgYellow, m.Name),
			"meta",
			describeMeta(cat, m),
		})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d roles", cat.Len()), "", ""})
	t.Render()
}

func describeMeta(cat *catalog.Catalog, m catalog.Meta) string {
	roles := m.Roles()
	switch {
	case len(roles) == cat.Len():
		return "all roles"
	case len(roles) > cat.Len()/2:
		missing := make([]string, 0, cat.Len()-len(roles))
		in := make(map[catalog.Role]bool, len(roles))
		for _, r := range roles {
			in[r] = true
		}
		for _, r := range cat.Roles() {
			if !in[r] {
				missing = append(missing, string(r))
			}
		}
		return "all except " + strings.Join(missing, ", ")
	default:
		return strings.Join(catalog.Strings(roles), ", ")
	}
}
