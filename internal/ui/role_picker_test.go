package ui

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	DisableColors()
	os.Exit(m.Run())
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func smallCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]string{"base", "shell", "cloud-init"}, []catalog.MetaSpec{
		{Name: "all", Description: "all except cloud-init", Except: []string{"cloud-init"}},
		{Name: "full", Description: "everything"},
	})
	require.NoError(t, err)
	return c
}

func press(t *testing.T, m RolePickerModel, keys ...tea.KeyMsg) (RolePickerModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		var ok bool
		m, ok = next.(RolePickerModel)
		require.True(t, ok)
	}
	return m, cmd
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want selection.EventKind
		ok   bool
	}{
		{keyUp, selection.EventUp, true},
		{runes("k"), selection.EventUp, true},
		{keyDown, selection.EventDown, true},
		{runes("j"), selection.EventDown, true},
		{keySpace, selection.EventToggle, true},
		{runes("x"), selection.EventToggle, true},
		{keyEnter, selection.EventConfirm, true},
		{runes("q"), selection.EventQuit, true},
		{runes("Q"), selection.EventQuit, true},
		{keyCtrlC, selection.EventQuit, true},
		{tea.KeyMsg{Type: tea.KeyEsc}, selection.EventQuit, true},
		{runes("z"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			ev, ok := keyEvent(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, ev.Kind)
			}
		})
	}
}

func TestRolePickerSelectAndConfirm(t *testing.T) {
	m := NewRolePickerModel(smallCatalog(t), selection.RenderOptions{Title: "Roles"})

	m, cmd := press(t, m, keyDown, keySpace, keyEnter)
	require.NotNil(t, cmd, "confirm quits the program")

	out := m.Outcome()
	assert.Equal(t, selection.Confirmed, out.State)
	assert.Equal(t, []catalog.Role{"shell"}, out.Roles)
	assert.Empty(t, m.View(), "view is cleared once the session ends")
}

func TestRolePickerEmptyConfirmWarns(t *testing.T) {
	m := NewRolePickerModel(smallCatalog(t), selection.RenderOptions{})

	m, cmd := press(t, m, keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, selection.EmptySelectionWarning, m.Warning())
	assert.Contains(t, m.View(), selection.EmptySelectionWarning)

	m, _ = press(t, m, keySpace)
	assert.Empty(t, m.Warning(), "next key clears the warning")
}

func TestRolePickerMetaEntry(t *testing.T) {
	m := NewRolePickerModel(smallCatalog(t), selection.RenderOptions{})

	// cursor to "all" (index 3)
	m, _ = press(t, m, keyUp, keyUp, keySpace)
	view := m.View()
	assert.Contains(t, view, "[✔] base")
	assert.Contains(t, view, "[✔] shell")
	assert.Contains(t, view, "[ ] cloud-init")
	assert.Contains(t, view, "[✔] all")

	m, _ = press(t, m, keyEnter)
	out := m.Outcome()
	assert.Equal(t, []catalog.Role{"base", "shell"}, out.Roles)
	assert.Equal(t, "all", out.Meta)
}

func TestRolePickerQuit(t *testing.T) {
	m := NewRolePickerModel(smallCatalog(t), selection.RenderOptions{})

	m, cmd := press(t, m, keySpace, keyCtrlC)
	require.NotNil(t, cmd)
	assert.True(t, m.Outcome().Cancelled())
	assert.Nil(t, m.Outcome().Roles)
}

func TestRolePickerIgnoresUnboundKeys(t *testing.T) {
	m := NewRolePickerModel(smallCatalog(t), selection.RenderOptions{})
	before := m.View()

	m, cmd := press(t, m, runes("z"))
	assert.Nil(t, cmd)
	assert.Equal(t, before, m.View())
}

func TestRolePickerViewLayout(t *testing.T) {
	m := NewRolePickerModel(smallCatalog(t), selection.RenderOptions{Title: "Select roles"})
	view := m.View()

	assert.Contains(t, view, "Select roles")
	assert.Contains(t, view, "❯ [ ] base")
	assert.Contains(t, view, "all (all except cloud-init)")
	assert.NotContains(t, view, " 1. ", "checklist has no numbers")
}

func TestRolePickerWindowSize(t *testing.T) {
	m := NewRolePickerModel(smallCatalog(t), selection.RenderOptions{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m = next.(RolePickerModel)
	assert.Contains(t, m.View(), "\n----------------------------------------\n")
}
