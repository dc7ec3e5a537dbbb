package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/cloudinit"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/remote"
	"github.com/rileyhilliard/ansetup/internal/ui"
)

// Prompter asks the questions that have no flag answer. Aborting a
// prompt returns errCancelled.
type Prompter interface {
	// Target fills in the connection details, starting from t.
	Target(t *ansible.Target) error
	Confirm(title string) (bool, error)
	PickHost(hosts []ui.HostChoice) (*ui.HostChoice, bool, error)
	// Variant returns a variant name or "custom".
	Variant(variants []cloudinit.Variant) (string, error)
	Custom() (cloudinit.Custom, error)
}

// huhPrompter asks on the terminal with huh forms.
type huhPrompter struct{}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return errCancelled
		}
		return errors.WrapWithCode(err, errors.ErrInput,
			"Failed to get user input",
			"Check terminal compatibility or pass the values as flags.")
	}
	return nil
}

func (huhPrompter) Target(t *ansible.Target) error {
	host, user, key := t.Host, t.User, t.KeyPath
	port := ""
	if t.Port != 0 {
		port = strconv.Itoa(t.Port)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server IP address or hostname").
				Placeholder("192.168.1.10").
				Value(&host).
				Validate(remote.ValidateHost),
			huh.NewInput().
				Title("SSH username").
				Placeholder("ubuntu").
				Value(&user).
				Validate(remote.ValidateUser),
			huh.NewInput().
				Title("SSH port").
				Placeholder("22").
				Value(&port).
				Validate(func(s string) error {
					_, err := remote.ParsePort(s)
					return err
				}),
			huh.NewInput().
				Title("Path to SSH private key").
				Description("Leave empty to log in with a password").
				Placeholder("~/.ssh/id_ed25519").
				Value(&key),
		),
	)
	if err := runForm(form); err != nil {
		return err
	}

	p, err := remote.ParsePort(port)
	if err != nil {
		return err
	}
	t.Host = strings.TrimSpace(host)
	t.User = strings.TrimSpace(user)
	t.Port = p
	t.KeyPath = strings.TrimSpace(key)
	return nil
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(&ok)))
	if err := runForm(form); err != nil {
		return false, err
	}
	return ok, nil
}

func (huhPrompter) PickHost(hosts []ui.HostChoice) (*ui.HostChoice, bool, error) {
	return ui.PickHost(hosts)
}

func (huhPrompter) Variant(variants []cloudinit.Variant) (string, error) {
	options := make([]huh.Option[string], 0, len(variants)+1)
	for _, v := range variants {
		label := v.Name
		if v.Description != "" {
			label = fmt.Sprintf("%s: %s", v.Name, v.Description)
		}
		options = append(options, huh.NewOption(label, v.Name))
	}
	options = append(options, huh.NewOption("custom: Custom selection", cloudinit.CustomVariant))

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a cloud-init variant").
				Options(options...).
				Value(&choice),
		),
	)
	if err := runForm(form); err != nil {
		return "", err
	}
	return choice, nil
}

func (huhPrompter) Custom() (cloudinit.Custom, error) {
	var c cloudinit.Custom
	var devEnvs string
	level := cloudinit.HardenStandard

	levels := make([]huh.Option[string], 0, len(cloudinit.HardenLevels))
	for _, l := range cloudinit.HardenLevels {
		levels = append(levels, huh.NewOption(l, l))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable GUI apps (VSCode, etc.)?").
				Value(&c.EnableGUI),
			huh.NewConfirm().
				Title("Enable Nix GUI apps?").
				Value(&c.EnableNixGUI),
			huh.NewInput().
				Title("Dev environments").
				Description("Comma-separated: " + strings.Join(cloudinit.AllDevEnvs, ",") + " or 'all'").
				Value(&devEnvs),
			huh.NewSelect[string]().
				Title("Harden level").
				Options(levels...).
				Value(&level),
		),
	)
	if err := runForm(form); err != nil {
		return c, err
	}
	c.DevEnvs = cloudinit.ParseDevEnvs(devEnvs)
	c.HardenLevel = level
	return c, nil
}
