package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/ansetup/internal/errors"
)

// HostChoice is one Host block from ~/.ssh/config offered as a remote target.
type HostChoice struct {
	Alias    string
	Hostname string
	User     string
	Port     string
	KeyFile  string
}

type hostItem struct {
	host HostChoice
}

func (i hostItem) Title() string { return i.host.Alias }

func (i hostItem) Description() string {
	target := i.host.Hostname
	if target == "" {
		target = i.host.Alias
	}
	if i.host.User != "" {
		target = i.host.User + "@" + target
	}
	if i.host.Port != "" && i.host.Port != "22" {
		target += ":" + i.host.Port
	}
	if i.host.KeyFile != "" {
		target += "  " + i.host.KeyFile
	}
	return target
}

func (i hostItem) FilterValue() string {
	return strings.Join([]string{i.host.Alias, i.host.Hostname, i.host.User}, " ")
}

// HostPickerModel lets the user pick a configured SSH alias or fall back
// to typing the connection details.
type HostPickerModel struct {
	list     list.Model
	selected *HostChoice
	manual   bool
	quitting bool
}

type hostPickerKeyMap struct {
	Enter  key.Binding
	Manual key.Binding
	Quit   key.Binding
}

var hostPickerKeys = hostPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Manual: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "enter manually"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewHostPickerModel builds the picker list.
func NewHostPickerModel(hosts []HostChoice) HostPickerModel {
	items := make([]list.Item, len(hosts))
	for i, h := range hosts {
		items[i] = hostItem{host: h}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorInfo).
		BorderForeground(ColorAccent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted)

	l := list.New(items, delegate, 80, 15)
	l.Title = "Select the remote server"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorInfo).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = MutedStyle()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{hostPickerKeys.Manual}
	}

	return HostPickerModel{list: l}
}

// Init implements tea.Model.
func (m HostPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HostPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, hostPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(hostItem); ok {
				m.selected = &item.host
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, hostPickerKeys.Manual):
			m.manual = true
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, hostPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m HostPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the chosen host, or nil.
func (m HostPickerModel) Selected() *HostChoice {
	return m.selected
}

// Manual reports whether the user asked to type the details instead.
func (m HostPickerModel) Manual() bool {
	return m.manual
}

// PickHost shows the picker on the terminal. It returns the chosen host,
// or nil with manual=true when the user wants to type details, or nil
// with manual=false when they cancelled. With no hosts it goes straight
// to manual entry.
func PickHost(hosts []HostChoice) (*HostChoice, bool, error) {
	return PickHostWithOutput(hosts, os.Stdout, os.Stdin)
}

// PickHostWithOutput is PickHost with custom I/O.
func PickHostWithOutput(hosts []HostChoice, output io.Writer, input io.Reader) (*HostChoice, bool, error) {
	if len(hosts) == 0 {
		return nil, true, nil
	}

	p := tea.NewProgram(
		NewHostPickerModel(hosts),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, false, errors.WrapWithCode(err, errors.ErrInput,
			"Host picker failed",
			"Pass --host or --ssh-alias to skip the picker.")
	}

	m, ok := finalModel.(HostPickerModel)
	if !ok {
		return nil, false, nil
	}
	if m.Manual() {
		return nil, true, nil
	}
	return m.Selected(), false, nil
}

func (h HostChoice) String() string {
	return fmt.Sprintf("%s (%s)", h.Alias, hostItem{host: h}.Description())
}
