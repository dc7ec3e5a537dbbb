package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLocalWithRolesFlag(t *testing.T) {
	ta := newTestApp(t)

	err := runLocal(context.Background(), ta.App, DeployFlags{Roles: "all"})
	require.NoError(t, err)

	dir := ta.Config.PlaybookDir
	inventory := filepath.Join(dir, "inventory", ansible.LocalInventoryFile)
	data, err := os.ReadFile(inventory)
	require.NoError(t, err)
	assert.Equal(t, ansible.LocalInventory(), string(data))

	all, err := catalog.Default().Resolve("all")
	require.NoError(t, err)

	require.Equal(t, []string{ansible.PlaybookBinary}, ta.runner.names(), "no requirements.yml, ansible present")
	cmd := ta.runner.last()
	assert.Equal(t, dir, cmd.Dir)
	assert.Equal(t, []string{
		"-i", inventory, "local_setup.yml",
		"--tags", ansible.TagsArg(all),
		"--ask-become-pass",
	}, cmd.Args)
	assert.NotContains(t, cmd.Args, "--ask-pass")
	assert.Empty(t, ta.menus, "--roles skips the menu")

	out := ta.out.String()
	assert.Contains(t, out, "ansetup dev · local")
	assert.Contains(t, out, "[SUCCESS] Ansible is already installed.")
	assert.Contains(t, out, "[WARNING] requirements.yml not found. Skipping collection installation.")
	assert.Contains(t, out, "[INFO] Selected roles: os-detection, prerequisites")
	assert.Contains(t, out, "[SUCCESS] Ansible playbook executed successfully.")
	assert.Contains(t, out, "log out and log back in")
	assert.Empty(t, ta.errOut.String())
}

func TestRunLocalInstallsCollections(t *testing.T) {
	ta := newTestApp(t)
	req := filepath.Join(ta.Config.PlaybookDir, "requirements.yml")
	require.NoError(t, os.WriteFile(req, []byte("collections: []\n"), 0o644))

	require.NoError(t, runLocal(context.Background(), ta.App, DeployFlags{Roles: "fonts"}))

	assert.Equal(t, []string{"ansible-galaxy", ansible.PlaybookBinary}, ta.runner.names())
	assert.Equal(t, []string{"collection", "install", "-r", req}, ta.runner.commands[0].Args)
	assert.Contains(t, ta.out.String(), "[SUCCESS] Ansible collections processed.")
}

func TestRunLocalInstallsAnsible(t *testing.T) {
	ta := newTestApp(t)
	ta.LookPath = pathWith("dnf")

	require.NoError(t, runLocal(context.Background(), ta.App, DeployFlags{Roles: "fonts"}))

	require.Len(t, ta.runner.commands, 2)
	assert.Equal(t, "sudo dnf install -y ansible", ta.runner.commands[0].String())
	assert.Contains(t, ta.out.String(), "[INFO] Installing Ansible using dnf...")
}

func TestRunLocalNoInstall(t *testing.T) {
	ta := newTestApp(t)
	ta.LookPath = pathWith("apt-get")

	err := runLocal(context.Background(), ta.App, DeployFlags{Roles: "fonts", NoInstall: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAnsible))
	assert.Empty(t, ta.runner.commands)
}

func TestRunLocalNoPackageManager(t *testing.T) {
	ta := newTestApp(t)
	ta.LookPath = pathWith()

	err := runLocal(context.Background(), ta.App, DeployFlags{Roles: "fonts"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported package manager")
}

func TestRunLocalPlaybookFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.runner.codes[ansible.PlaybookBinary] = 2

	err := runLocal(context.Background(), ta.App, DeployFlags{Roles: "fonts"})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, ta.errOut.String(), "[ERROR] Ansible playbook execution failed. Please check the output above for errors.")
	assert.NotContains(t, ta.out.String(), "executed successfully")
}

func TestRunLocalMenuCancelled(t *testing.T) {
	ta := newTestApp(t)
	ta.outcome = selection.Outcome{State: selection.Cancelled}

	err := runLocal(context.Background(), ta.App, DeployFlags{})
	require.NoError(t, err)

	assert.Equal(t, []string{"numbered"}, ta.menus, "no terminal means the numbered menu")
	assert.Contains(t, ta.out.String(), "Exiting without changes.")
	assert.Empty(t, ta.runner.commands)
	_, statErr := os.Stat(filepath.Join(ta.Config.PlaybookDir, "inventory"))
	assert.True(t, os.IsNotExist(statErr), "nothing written")
}

func TestRunLocalChecklistOnTerminal(t *testing.T) {
	ta := newTestApp(t)
	ta.Interactive = true
	ta.outcome = selection.Outcome{State: selection.Confirmed, Roles: []catalog.Role{"base-installs", "fonts"}}

	require.NoError(t, runLocal(context.Background(), ta.App, DeployFlags{}))

	assert.Equal(t, []string{"checklist"}, ta.menus)
	assert.Contains(t, ta.runner.last().Args, "base-installs,fonts")
}

func TestRunLocalMenuFlagOverridesTerminal(t *testing.T) {
	ta := newTestApp(t)
	ta.Interactive = true
	ta.outcome = selection.Outcome{State: selection.Confirmed, Roles: []catalog.Role{"fonts"}}

	require.NoError(t, runLocal(context.Background(), ta.App, DeployFlags{Menu: "numbered"}))
	assert.Equal(t, []string{"numbered"}, ta.menus)
}

func TestRunLocalUnknownRole(t *testing.T) {
	ta := newTestApp(t)

	err := runLocal(context.Background(), ta.App, DeployFlags{Roles: "fonts,emacs"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
	assert.Contains(t, err.Error(), "emacs")
	assert.NotContains(t, ta.runner.names(), ansible.PlaybookBinary)
}

func TestRunLocalDryRun(t *testing.T) {
	ta := newTestApp(t)
	ta.DryRun = true

	require.NoError(t, runLocal(context.Background(), ta.App, DeployFlags{Roles: "fonts"}))

	inventory := filepath.Join(ta.Config.PlaybookDir, "inventory", ansible.LocalInventoryFile)
	assert.Contains(t, ta.out.String(), "would write "+inventory)
	_, err := os.Stat(inventory)
	assert.True(t, os.IsNotExist(err))
}

func TestSelectRolesBlankFlag(t *testing.T) {
	ta := newTestApp(t)
	_, err := ta.selectRoles(" , ", "", "title")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
	assert.Contains(t, err.Error(), "No roles selected")
	assert.Empty(t, ta.menus)
}

func TestResolveMenu(t *testing.T) {
	tests := []struct {
		mode        string
		interactive bool
		want        string
	}{
		{"auto", true, "checklist"},
		{"auto", false, "numbered"},
		{"", true, "checklist"},
		{"checklist", false, "checklist"},
		{"numbered", true, "numbered"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveMenu(tt.mode, tt.interactive), "%s/%v", tt.mode, tt.interactive)
	}
}
