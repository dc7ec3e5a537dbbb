package cli

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/ansetup/internal/cloudinit"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/ui"
	"github.com/spf13/cobra"
)

// CloudInitFlags holds the cloud-init command's flags. The custom variant
// is answered from flags when any of them is set.
type CloudInitFlags struct {
	Variant     string
	GUI         bool
	NixGUI      bool
	DevEnvs     string
	HardenLevel string
	DryRun      bool

	customFromFlags bool
}

var cloudInitFlags CloudInitFlags

// cloudInitCmd renders a cloud-config
var cloudInitCmd = &cobra.Command{
	Use:   "cloud-init",
	Short: "Generate a cloud-init config from the playbook's cloud-init role",
	Long: `Render files/cloud-init/cloud-config-<variant>.yaml by running the
cloud-init tag of site.yml on this machine. Ansible must already be installed.

Variants: minimal, dev, full (or the ones in .ansetup.yaml) and custom.

Examples:
  ansetup cloud-init
  ansetup cloud-init --variant dev
  ansetup cloud-init --variant custom --dev-envs python,go --harden-level full`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cloudInitFlags.DryRun)
		if err != nil {
			return err
		}
		flags := cloudInitFlags
		for _, name := range []string{"gui", "nix-gui", "dev-envs", "harden-level"} {
			if cmd.Flags().Changed(name) {
				flags.customFromFlags = true
			}
		}
		return runCloudInit(cmd.Context(), app, flags)
	},
}

func init() {
	cloudInitCmd.Flags().StringVar(&cloudInitFlags.Variant, "variant", "", "variant to generate (minimal, dev, full, custom)")
	cloudInitCmd.Flags().BoolVar(&cloudInitFlags.GUI, "gui", false, "custom: enable GUI apps")
	cloudInitCmd.Flags().BoolVar(&cloudInitFlags.NixGUI, "nix-gui", false, "custom: enable Nix GUI apps")
	cloudInitCmd.Flags().StringVar(&cloudInitFlags.DevEnvs, "dev-envs", "", "custom: comma-separated dev environments or 'all'")
	cloudInitCmd.Flags().StringVar(&cloudInitFlags.HardenLevel, "harden-level", "", "custom: basic, standard or full (default standard)")
	cloudInitCmd.Flags().BoolVar(&cloudInitFlags.DryRun, "dry-run", false, "print the ansible-playbook command instead of running it")
	_ = cloudInitCmd.RegisterFlagCompletionFunc("variant", completeVariantFlag)
	_ = cloudInitCmd.RegisterFlagCompletionFunc("harden-level", completeHardenLevelFlag)
	rootCmd.AddCommand(cloudInitCmd)
}

// runCloudInit is the cloud-config generation workflow.
func runCloudInit(ctx context.Context, app *App, flags CloudInitFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app.header("cloud-init")

	gen := cloudinit.NewGenerator(app.Config, app.Runner)
	gen.LookPath = app.LookPath
	gen.DryRun = app.DryRun
	gen.Out = app.Out
	if err := gen.RequireAnsible(); err != nil {
		return err
	}

	choice := flags.Variant
	if choice == "" {
		if !app.Interactive {
			return errors.New(errors.ErrInput,
				"No cloud-init variant given",
				"Pass --variant (one of the names from 'ansetup cloud-init --help').")
		}
		var err error
		if choice, err = app.Prompter.Variant(gen.Variants); err != nil {
			return app.finish(err)
		}
	}

	name, ok := gen.Choose(choice)
	if !ok {
		app.Status.Warn("Invalid choice %q. Defaulting to %s.", choice, name)
	}

	var custom cloudinit.Custom
	if name == cloudinit.CustomVariant {
		var err error
		if custom, err = app.customAnswers(flags); err != nil {
			return app.finish(err)
		}
	}

	spinner := ui.NewSpinner(app.Out, fmt.Sprintf("Generating %s config", name))
	spinner.Start()

	var res cloudinit.Result
	var err error
	if name == cloudinit.CustomVariant {
		res, err = gen.GenerateCustom(ctx, custom)
	} else {
		res, err = gen.Generate(ctx, name)
	}
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	app.Status.Success("Cloud-init config ready at %s. Use for VM/cloud provisioning.", res.Output)
	return nil
}

func (a *App) customAnswers(flags CloudInitFlags) (cloudinit.Custom, error) {
	if flags.customFromFlags || !a.Interactive {
		c := cloudinit.Custom{
			EnableGUI:    flags.GUI,
			EnableNixGUI: flags.NixGUI,
			DevEnvs:      cloudinit.ParseDevEnvs(flags.DevEnvs),
			HardenLevel:  flags.HardenLevel,
		}
		return c.Normalize()
	}
	return a.Prompter.Custom()
}
