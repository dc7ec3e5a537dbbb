package cli

import (
	"context"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/spf13/cobra"
)

var localFlags DeployFlags

// localCmd configures this machine
var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Apply selected roles to this machine",
	Long: `Install Ansible if needed, pick roles and run the local playbook
against this machine. ansible-playbook asks for your sudo password.

Examples:
  ansetup local
  ansetup local --roles all
  ansetup local --roles shell-customize,nvim-setup --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(localFlags.DryRun)
		if err != nil {
			return err
		}
		return runLocal(cmd.Context(), app, localFlags)
	},
}

func init() {
	addDeployFlags(localCmd, &localFlags)
	rootCmd.AddCommand(localCmd)
}

// runLocal is the local deploy workflow.
func runLocal(ctx context.Context, app *App, flags DeployFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app.header("local")

	if err := app.ensureAnsible(ctx, flags.NoInstall); err != nil {
		return err
	}
	if err := app.installCollections(ctx); err != nil {
		return err
	}

	roles, err := app.selectRoles(flags.Roles, flags.Menu, "Select roles to apply to this machine")
	if err != nil {
		return app.finish(err)
	}
	app.Status.Info("Selected roles: %s", strings.Join(catalog.Strings(roles), ", "))

	inventory, err := app.writeInventory(ansible.LocalInventoryFile, ansible.LocalInventory())
	if err != nil {
		return err
	}

	app.Status.Info("Running Ansible playbook with selected roles...")
	pb := ansible.LocalPlaybook(app.Config.PlaybookDir, inventory, app.Config.Playbooks.Local, roles)
	if err := app.runPlaybook(ctx, pb, ""); err != nil {
		return err
	}
	app.Status.Info("Your local machine should now be configured with the selected features.")
	app.Status.Info("You might need to log out and log back in for all changes (e.g., shell changes) to take full effect.")
	return nil
}
