package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var initForce bool

// initCmd writes a starter .ansetup.yaml
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .ansetup.yaml configuration",
	Long: `Write a starter .ansetup.yaml into the current directory, which should
be the root of your playbook repository. It spells out the default roles,
meta-selections and playbook names so you can edit them.

Examples:
  ansetup init
  ansetup init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "Couldn't determine the current directory")
		}
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		return runInit(dir, initForce, interactive, huhPrompter{}, ui.NewStatusWithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

func runInit(dir string, force, interactive bool, p Prompter, status *ui.Status) error {
	path := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !force && interactive {
		ok, err := p.Confirm("Config file '" + config.ConfigFileName + "' already exists. Overwrite?")
		if err != nil && !stderrors.Is(err, errCancelled) {
			return err
		}
		if !ok {
			status.Info("Cancelled.")
			return nil
		}
		force = true
	}

	written, err := config.WriteStarter(dir, config.Starter("."), force)
	if err != nil {
		return err
	}
	status.Success("Created %s", written)
	return nil
}
