package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/selection"
)

// RolePickerModel is the arrow-key checklist. All selection rules live in
// the wrapped selection.Session; the model only maps keys to events and
// draws snapshots. Bubble Tea owns raw mode and restores the terminal on
// every exit path, including ctrl+c.
type RolePickerModel struct {
	session *selection.Session
	opts    selection.RenderOptions
	warning string
}

type rolePickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var rolePickerKeys = rolePickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "select/deselect"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "Q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewRolePickerModel starts a fresh session over cat.
func NewRolePickerModel(cat *catalog.Catalog, opts selection.RenderOptions) RolePickerModel {
	opts.Layout = selection.Checklist
	if opts.Style == nil {
		opts.Style = MenuStyle{}
	}
	return RolePickerModel{
		session: selection.NewSession(cat),
		opts:    opts,
	}
}

// Init implements tea.Model.
func (m RolePickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m RolePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		ev, ok := keyEvent(msg)
		if !ok {
			return m, nil
		}
		m.warning = ""
		if err := m.session.Apply(ev); err != nil {
			m.warning = selection.Warning(err)
		}
		if m.session.State() != selection.Running {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Width < 80 {
			m.opts.Width = msg.Width
		}
	}
	return m, nil
}

func keyEvent(msg tea.KeyMsg) (selection.Event, bool) {
	switch {
	case key.Matches(msg, rolePickerKeys.Up):
		return selection.Up(), true
	case key.Matches(msg, rolePickerKeys.Down):
		return selection.Down(), true
	case key.Matches(msg, rolePickerKeys.Toggle):
		return selection.Toggle(), true
	case key.Matches(msg, rolePickerKeys.Confirm):
		return selection.Confirm(), true
	case key.Matches(msg, rolePickerKeys.Quit):
		return selection.Quit(), true
	}
	return selection.Event{}, false
}

// View implements tea.Model.
func (m RolePickerModel) View() string {
	if m.session.State() != selection.Running {
		return ""
	}
	view := selection.Render(m.session.Snapshot(), m.opts)
	if m.warning != "" {
		view += WarningStyle().Render(m.warning) + "\n"
	}
	return view
}

// Outcome reports how the session ended. Before the program exits it
// reports a Running outcome with no roles.
func (m RolePickerModel) Outcome() selection.Outcome {
	return m.session.Result()
}

// Warning returns the message shown under the menu, if any.
func (m RolePickerModel) Warning() string {
	return m.warning
}

// PickRoles shows the checklist on the terminal.
func PickRoles(cat *catalog.Catalog, opts selection.RenderOptions) (selection.Outcome, error) {
	return PickRolesWithOutput(cat, opts, os.Stdout, os.Stdin)
}

// PickRolesWithOutput shows the checklist using custom I/O. A cancelled
// session is returned as an Outcome, not an error.
func PickRolesWithOutput(cat *catalog.Catalog, opts selection.RenderOptions, output io.Writer, input io.Reader) (selection.Outcome, error) {
	model := NewRolePickerModel(cat, opts)

	p := tea.NewProgram(
		model,
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return selection.Outcome{}, errors.WrapWithCode(err, errors.ErrInput,
			"Role menu failed",
			"Use --menu numbered or pass --roles to skip the interactive menu.")
	}

	if m, ok := finalModel.(RolePickerModel); ok {
		out := m.Outcome()
		if out.State == selection.Running {
			// Program ended without a terminal event, e.g. input closed.
			out.State = selection.Cancelled
		}
		return out, nil
	}
	return selection.Outcome{State: selection.Cancelled}, nil
}
