package cli

import (
	"io"
	"os"

	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/rileyhilliard/ansetup/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// rolesCmd lists the catalog
var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List roles and meta-selections",
	Long: `Print every role in menu order, followed by the meta-selections and the
roles each one expands to. The numbers are the ones the numbered menu accepts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(cfgFile)
		if err != nil {
			return err
		}
		cat, err := cfg.Catalog()
		if err != nil {
			return err
		}
		printRoles(cmd.OutOrStdout(), cat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}

func printRoles(w io.Writer, cat *catalog.Catalog) {
	color := !noColor && os.Getenv("NO_COLOR") == ""
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		color = false
	}
	ui.RenderRoleTable(w, cat, color)
}
