package cli

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/spf13/cobra"
)

// Set from main via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionShort bool

// ansibleVersion describes the installed Ansible for the version output.
var ansibleVersion = func(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	v, ok := ansible.Version(ctx, ansible.NewLocalRunner(), exec.LookPath)
	if !ok {
		return "not installed"
	}
	return v
}

// versionCmd prints build info and the Ansible it would drive
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the ansetup version, commit and build date, plus the
ansible-playbook found on PATH.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, version)
			return
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		fmt.Fprintf(out, "ansetup %s (%s, built %s)\n", formatVersion(version), commit, date)
		fmt.Fprintf(out, "  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "  ansible: %s\n", ansibleVersion(ctx))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}

// formatVersion adds a "v" to release versions; "dev" stays as is.
func formatVersion(v string) string {
	if v == "" || v == "dev" || v[0] == 'v' {
		return v
	}
	return "v" + v
}

// SetVersionInfo records the build info. Called from main.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}
