package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/spf13/cobra"
)

// DeployFlags holds the flags shared by local and remote.
type DeployFlags struct {
	Roles     string
	Menu      string
	NoInstall bool
	DryRun    bool
}

// addDeployFlags registers --roles, --menu, --no-install and --dry-run.
func addDeployFlags(cmd *cobra.Command, flags *DeployFlags) {
	cmd.Flags().StringVar(&flags.Roles, "roles", "", "comma-separated roles or meta-selections (skips the menu)")
	cmd.Flags().StringVar(&flags.Menu, "menu", "", "menu style: auto, checklist or numbered")
	cmd.Flags().BoolVar(&flags.NoInstall, "no-install", false, "fail instead of installing Ansible when it's missing")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "print the commands and inventory instead of running them")

	_ = cmd.RegisterFlagCompletionFunc("roles", completeRolesFlag)
	_ = cmd.RegisterFlagCompletionFunc("menu", completeMenuFlag)
}

// ParseProbeTimeout parses a probe timeout string into a duration.
// Returns zero duration if the flag is empty.
func ParseProbeTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return duration, nil
}

// splitList splits a comma list and drops blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
