package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/remote"
	"github.com/rileyhilliard/ansetup/internal/selection"
	"github.com/rileyhilliard/ansetup/internal/ui"
	"golang.org/x/term"
)

// errCancelled ends a command without changes and without an error exit.
var errCancelled = stderrors.New("cancelled")

// rolePicker runs one of the interactive menus.
type rolePicker func(cat *catalog.Catalog, opts selection.RenderOptions) (selection.Outcome, error)

// probeFunc checks a target before deploying.
type probeFunc func(ctx context.Context, t ansible.Target, opts remote.ProbeOptions) (remote.ProbeResult, error)

// App carries the loaded config and the collaborators a command needs.
// Tests build one directly with fakes.
type App struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Status  *ui.Status
	Out     io.Writer

	Runner   ansible.Runner
	LookPath ansible.LookPathFunc
	Prompter Prompter
	Probe    probeFunc

	PickChecklist rolePicker
	PickNumbered  rolePicker

	// Interactive is true when stdin is a terminal. Prompts and menus are
	// only shown when it is set.
	Interactive bool
	DryRun      bool
}

// loadApp loads and validates the config and wires the real collaborators.
func loadApp(dryRun bool) (*App, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:        cfg,
		Catalog:       cat,
		Status:        ui.NewStatus(),
		Out:           os.Stdout,
		Runner:        ansible.NewLocalRunner(),
		LookPath:      exec.LookPath,
		Prompter:      huhPrompter{},
		Probe:         remote.Probe,
		PickChecklist: ui.PickRoles,
		PickNumbered:  ui.PickRolesNumbered,
		Interactive:   term.IsTerminal(int(os.Stdin.Fd())),
		DryRun:        dryRun,
	}
	if dryRun {
		app.Runner = ansible.DryRunner{W: os.Stdout}
	}
	return app, nil
}

// finish turns a cancellation into a clean exit.
func (a *App) finish(err error) error {
	if stderrors.Is(err, errCancelled) {
		a.Status.Info("Exiting without changes.")
		return nil
	}
	return err
}

func (a *App) header(mode string) {
	ui.PrintHeader(a.Out, ui.HeaderInfo{
		Version:     formatVersion(version),
		Mode:        mode,
		PlaybookDir: a.Config.PlaybookDir,
	})
	a.Status.Info("Playbook directory: %s", a.Config.PlaybookDir)
}

// ensureAnsible installs Ansible with the system package manager when
// ansible-playbook is missing.
func (a *App) ensureAnsible(ctx context.Context, noInstall bool) error {
	if ansible.Detect(a.LookPath) {
		a.Status.Success("Ansible is already installed.")
		return nil
	}
	if noInstall {
		return errors.New(errors.ErrAnsible,
			"Ansible is not installed",
			"Drop --no-install to let ansetup install it, or install it with your package manager.")
	}

	pm, err := ansible.FindPackageManager(a.LookPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAnsible,
			"Unsupported package manager",
			"Install Ansible manually (apt-get, dnf, pacman or brew) and re-run.")
	}
	a.Status.Info("Installing Ansible using %s...", pm.Name)
	if _, err := ansible.Install(ctx, a.Runner, a.LookPath); err != nil {
		return err
	}
	a.Status.Success("Ansible installed.")
	return nil
}

// installCollections runs ansible-galaxy for requirements.yml if present.
func (a *App) installCollections(ctx context.Context) error {
	req := a.Config.Requirements
	ran, err := ansible.Galaxy(ctx, a.Runner, a.Config.PlaybookDir, req)
	if err != nil {
		return err
	}
	if !ran {
		a.Status.Warn("%s not found. Skipping collection installation.", req)
		return nil
	}
	a.Status.Success("Ansible collections processed.")
	return nil
}

// inventoryDir resolves inventory_dir against the playbook directory.
func (a *App) inventoryDir() string {
	dir := config.ExpandPath(a.Config.InventoryDir)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(a.Config.PlaybookDir, dir)
}

// writeInventory writes the inventory file, or prints it on a dry run.
func (a *App) writeInventory(file, content string) (string, error) {
	dir := a.inventoryDir()
	if a.DryRun {
		path := filepath.Join(dir, file)
		fmt.Fprintf(a.Out, "would write %s:\n%s", path, content)
		return path, nil
	}
	path, err := ansible.WriteInventory(dir, file, content)
	if err != nil {
		return "", err
	}
	a.Status.Info("Created inventory file: %s", path)
	return path, nil
}

// selectRoles resolves --roles or runs the menu. Quitting the menu
// returns errCancelled.
func (a *App) selectRoles(rolesFlag, menuFlag, title string) ([]catalog.Role, error) {
	if strings.TrimSpace(rolesFlag) != "" {
		roles, err := a.Catalog.Expand(splitList(rolesFlag))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrInput,
				"Unknown role in --roles",
				"Run 'ansetup roles' to list roles and meta-selections.")
		}
		if len(roles) == 0 {
			return nil, errors.New(errors.ErrInput,
				"No roles selected",
				"Pass role names or 'all' to --roles.")
		}
		return roles, nil
	}

	mode := menuFlag
	if mode == "" {
		mode = a.Config.Menu
	}
	pick := a.PickNumbered
	if resolveMenu(mode, a.Interactive) == config.MenuChecklist {
		pick = a.PickChecklist
	}

	out, err := pick(a.Catalog, selection.RenderOptions{Title: title})
	if err != nil {
		return nil, err
	}
	if out.State != selection.Confirmed {
		return nil, errCancelled
	}
	return out.Roles, nil
}

// resolveMenu picks the checklist on a terminal and the numbered menu
// otherwise.
func resolveMenu(mode string, interactive bool) string {
	switch mode {
	case config.MenuChecklist, config.MenuNumbered:
		return mode
	}
	if interactive {
		return config.MenuChecklist
	}
	return config.MenuNumbered
}

// runPlaybook runs p and reports the outcome. where is empty for local runs.
func (a *App) runPlaybook(ctx context.Context, p ansible.Playbook, where string) error {
	err := p.Run(ctx, a.Runner)
	if err != nil {
		if _, ok := errors.GetExitCode(err); ok {
			if where != "" {
				a.Status.Error("Ansible playbook execution failed on %s. Please check the output above for errors.", where)
			} else {
				a.Status.Error("Ansible playbook execution failed. Please check the output above for errors.")
			}
		}
		return err
	}
	if where != "" {
		a.Status.Success("Ansible playbook executed successfully on %s.", where)
	} else {
		a.Status.Success("Ansible playbook executed successfully.")
	}
	return nil
}
