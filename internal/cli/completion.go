package cli

import (
	"strings"

	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/cloudinit"
	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/remote"
	"github.com/spf13/cobra"
)

// completionCmd writes shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for ansetup. Besides commands and
flags, --roles completes role and meta-selection names from .ansetup.yaml and
--ssh-alias completes hosts from ~/.ssh/config.

Examples:
  ansetup completion bash > /etc/bash_completion.d/ansetup
  ansetup completion zsh > "${fpath[1]}/_ansetup"
  ansetup completion fish > ~/.config/fish/completions/ansetup.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrInput,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completionConfig loads the config the command would use. Completion
// must never fail, so any problem falls back to the defaults.
var completionConfig = func() *config.Config {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil || config.Validate(cfg) != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// completeRolesFlag completes the last entry of a comma list such as
// "base-installs,sh" with role and meta names not already listed.
func completeRolesFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, err := completionConfig().Catalog()
	if err != nil {
		cat = catalog.Default()
	}

	done, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, partial = toComplete[:i+1], toComplete[i+1:]
	}
	listed := make(map[string]bool)
	for _, name := range splitList(done) {
		listed[name] = true
	}

	names := catalog.Strings(cat.Roles())
	for _, m := range cat.Metas() {
		names = append(names, m.Name)
	}
	var out []string
	for _, name := range names {
		if !listed[name] && strings.HasPrefix(name, partial) {
			out = append(out, done+name)
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}

func completeMenuFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{config.MenuAuto, config.MenuChecklist, config.MenuNumbered}, cobra.ShellCompDirectiveNoFileComp
}

func completeVariantFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, v := range cloudinit.VariantsFrom(completionConfig().CloudInit.Variants) {
		names = append(names, v.Name)
	}
	return append(names, cloudinit.CustomVariant), cobra.ShellCompDirectiveNoFileComp
}

func completeHardenLevelFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return cloudinit.HardenLevels, cobra.ShellCompDirectiveNoFileComp
}

// completeSSHAliasFlag lists the concrete Host entries of the SSH config
// named by --ssh-config, or ~/.ssh/config.
func completeSSHAliasFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	path, _ := cmd.Flags().GetString("ssh-config")
	if path == "" {
		path = remote.DefaultSSHConfigPath()
	}
	sc, err := remote.LoadSSHConfig(config.ExpandTilde(path))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sc.Aliases(), cobra.ShellCompDirectiveNoFileComp
}
