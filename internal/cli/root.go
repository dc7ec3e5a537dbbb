package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/logger"
	"github.com/rileyhilliard/ansetup/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd is the ansetup entry point.
var rootCmd = &cobra.Command{
	Use:   "ansetup",
	Short: "Pick Ansible roles and apply them to this machine or a server",
	Long: `ansetup is an interactive front-end for an Ansible playbook repository.

It makes sure Ansible and its collections are installed, lets you pick roles
from a menu (or --roles), writes the inventory and runs ansible-playbook with
the matching --tags. It can also render cloud-init configs from the same roles.

Examples:
  ansetup local
  ansetup remote --host 10.0.0.5 --user ubuntu
  ansetup remote --ssh-alias lab --roles all
  ansetup cloud-init --variant dev`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyGlobalFlags()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .ansetup.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func applyGlobalFlags() {
	if noColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColors()
	}
	logger.SetVerbose(verbose)
}

// Execute runs the command tree and exits. A failed ansible-playbook run
// exits with the playbook's own code.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error from a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	return 1
}

// reportError prints err unless the child process already reported it.
func reportError(w io.Writer, err error) {
	if _, ok := errors.GetExitCode(err); ok {
		return
	}
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}
