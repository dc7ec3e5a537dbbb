package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/ansible"
	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/rileyhilliard/ansetup/internal/remote"
	"github.com/rileyhilliard/ansetup/internal/ui"
	"github.com/spf13/cobra"
)

// RemoteFlags holds the remote command's flags.
type RemoteFlags struct {
	DeployFlags
	Host         string
	User         string
	Port         int
	Key          string
	SSHAlias     string
	SSHConfig    string
	SkipProbe    bool
	ProbeTimeout string
}

var remoteFlags RemoteFlags

// remoteCmd configures a server over SSH
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Apply selected roles to a server over SSH",
	Long: `Install Ansible locally if needed, pick a server and roles, write a
single-host inventory and run the remote playbook against it.

The server comes from --host/--user/--port/--key, an alias in ~/.ssh/config
(--ssh-alias or the host picker), or prompts. Before deploying, ansetup checks
that SSH answers; a failed key login only warns since ansible-playbook asks
for the SSH password.

Examples:
  ansetup remote
  ansetup remote --host 10.0.0.5 --user ubuntu --key ~/.ssh/id_ed25519
  ansetup remote --ssh-alias lab --roles all --skip-probe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(remoteFlags.DryRun)
		if err != nil {
			return err
		}
		return runRemote(cmd.Context(), app, remoteFlags)
	},
}

func init() {
	addDeployFlags(remoteCmd, &remoteFlags.DeployFlags)
	remoteCmd.Flags().StringVar(&remoteFlags.Host, "host", "", "server IP address or hostname")
	remoteCmd.Flags().StringVar(&remoteFlags.User, "user", "", "SSH username")
	remoteCmd.Flags().IntVar(&remoteFlags.Port, "port", 0, "SSH port (default 22)")
	remoteCmd.Flags().StringVar(&remoteFlags.Key, "key", "", "path to the SSH private key")
	remoteCmd.Flags().StringVar(&remoteFlags.SSHAlias, "ssh-alias", "", "take host, user, port and key from this ~/.ssh/config entry")
	remoteCmd.Flags().StringVar(&remoteFlags.SSHConfig, "ssh-config", "", "SSH config file (default ~/.ssh/config)")
	remoteCmd.Flags().BoolVar(&remoteFlags.SkipProbe, "skip-probe", false, "don't check the SSH connection first")
	remoteCmd.Flags().StringVar(&remoteFlags.ProbeTimeout, "probe-timeout", "", "SSH probe timeout (e.g., 5s, 2m)")
	_ = remoteCmd.RegisterFlagCompletionFunc("ssh-alias", completeSSHAliasFlag)
	rootCmd.AddCommand(remoteCmd)
}

// runRemote is the remote deploy workflow.
func runRemote(ctx context.Context, app *App, flags RemoteFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app.header("remote")

	if err := app.ensureAnsible(ctx, flags.NoInstall); err != nil {
		return err
	}
	if err := app.installCollections(ctx); err != nil {
		return err
	}

	target, err := app.resolveTarget(flags)
	if err != nil {
		return app.finish(err)
	}

	if !flags.SkipProbe {
		if err := app.probe(ctx, target, flags.ProbeTimeout); err != nil {
			return err
		}
	}

	roles, err := app.selectRoles(flags.Roles, flags.Menu, "Select roles to apply to "+target.Host)
	if err != nil {
		return app.finish(err)
	}
	app.Status.Info("Selected roles: %s", strings.Join(catalog.Strings(roles), ", "))

	content, err := ansible.RemoteInventory(target)
	if err != nil {
		return err
	}
	inventory, err := app.writeInventory(ansible.RemoteInventoryFile, content)
	if err != nil {
		return err
	}

	app.Status.Info("Running Ansible playbook with selected roles against %s...", target.Host)
	pb := ansible.RemotePlaybook(app.Config.PlaybookDir, inventory, app.Config.Playbooks.Remote, roles)
	if err := app.runPlaybook(ctx, pb, target.Host); err != nil {
		return err
	}
	app.Status.Info("The remote server should now be configured with the selected features.")
	return nil
}

// resolveTarget builds the target from the SSH config, flags and prompts,
// in that order of precedence from lowest to highest.
func (a *App) resolveTarget(flags RemoteFlags) (ansible.Target, error) {
	sshConfig := flags.SSHConfig
	if sshConfig == "" {
		sshConfig = remote.DefaultSSHConfigPath()
	}

	var t ansible.Target
	switch {
	case flags.SSHAlias != "":
		var err error
		if t, err = remote.FromSSHConfig(sshConfig, flags.SSHAlias); err != nil {
			return t, err
		}
	case flags.Host == "" && a.Interactive:
		picked, err := a.pickFromSSHConfig(sshConfig)
		if err != nil {
			return t, err
		}
		t = picked
	}
	overlayFlags(&t, flags)

	if t.Host == "" || t.User == "" {
		if !a.Interactive {
			return t, errors.New(errors.ErrInput,
				"Server details are incomplete",
				"Pass --host and --user (or --ssh-alias) when stdin isn't a terminal.")
		}
		if err := a.Prompter.Target(&t); err != nil {
			return t, err
		}
	}

	key, err := remote.CheckKey(t.KeyPath)
	switch {
	case err == nil:
		t.KeyPath = key
	case stderrors.Is(err, remote.ErrKeyNotFound) && a.Interactive:
		a.Status.Warn("SSH key file not found at '%s'.", key)
		ok, perr := a.Prompter.Confirm("Continue without SSH key and use password prompt?")
		if perr != nil {
			return t, perr
		}
		if !ok {
			return t, errCancelled
		}
		t.KeyPath = ""
	default:
		return t, err
	}

	if err := remote.ValidateTarget(t); err != nil {
		return t, err
	}
	return t, nil
}

// pickFromSSHConfig offers the concrete hosts of the SSH config. Choosing
// manual entry or having no hosts yields an empty target.
func (a *App) pickFromSSHConfig(path string) (ansible.Target, error) {
	sc, err := remote.LoadSSHConfig(path)
	if err != nil {
		a.Status.Warn("Couldn't read %s, asking for the server instead.", path)
		return ansible.Target{}, nil
	}
	if len(sc.Hosts) == 0 {
		return ansible.Target{}, nil
	}

	choices := make([]ui.HostChoice, len(sc.Hosts))
	for i, h := range sc.Hosts {
		choices[i] = ui.HostChoice{
			Alias:    h.Alias,
			Hostname: h.Hostname,
			User:     h.User,
			Port:     h.Port,
			KeyFile:  h.IdentityFile,
		}
	}

	choice, manual, err := a.Prompter.PickHost(choices)
	if err != nil {
		return ansible.Target{}, err
	}
	if choice == nil {
		if manual {
			return ansible.Target{}, nil
		}
		return ansible.Target{}, errCancelled
	}
	a.Status.Info("Using %s from %s", choice, path)
	entry, _ := sc.Lookup(choice.Alias)
	return entry.Target(), nil
}

func overlayFlags(t *ansible.Target, flags RemoteFlags) {
	if flags.Host != "" {
		t.Host = strings.TrimSpace(flags.Host)
	}
	if flags.User != "" {
		t.User = strings.TrimSpace(flags.User)
	}
	if flags.Port != 0 {
		t.Port = flags.Port
	}
	if flags.Key != "" {
		t.KeyPath = flags.Key
	}
}

// probe checks SSH before the playbook run. A refused or unreachable host
// stops the deploy; a failed login only warns.
func (a *App) probe(ctx context.Context, t ansible.Target, timeoutFlag string) error {
	timeout, err := ParseProbeTimeout(timeoutFlag)
	if err != nil {
		return err
	}
	if timeout == 0 {
		timeout = a.Config.ProbeTimeout
	}

	port := t.Port
	if port == 0 {
		port = ansible.DefaultSSHPort
	}
	spinner := ui.NewSpinner(a.Out, fmt.Sprintf("Checking SSH on %s:%s", t.Host, strconv.Itoa(port)))
	spinner.Start()

	res, err := a.Probe(ctx, t, remote.ProbeOptions{Timeout: timeout})
	if err != nil {
		if remote.IsAuthFailure(err) {
			spinner.Skip()
			a.Status.Warn("SSH login to %s failed; Ansible will ask for the SSH password.", t.Host)
			return nil
		}
		spinner.Fail()
		var pe *remote.ProbeError
		if stderrors.As(err, &pe) {
			return errors.WrapWithCode(err, errors.ErrSSH,
				fmt.Sprintf("Can't reach %s (%s)", pe.Address, pe.Reason),
				pe.Suggestion())
		}
		return errors.WrapWithCode(err, errors.ErrSSH,
			"SSH check failed for "+t.Host,
			"Use --skip-probe to deploy anyway.")
	}
	spinner.Success()

	for _, k := range res.EncryptedKeys {
		a.Status.Warn("%s needs a passphrase, so only the port was checked.", k)
	}
	return nil
}
