package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rileyhilliard/ansetup/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRootCmd creates a fresh root command for testing.
func resetRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ansetup",
		Short: "Pick Ansible roles and apply them to this machine or a server",
	}
}

func TestCompletionBashGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	require.NoError(t, cmd.GenBashCompletion(&buf))
	output := buf.String()

	assert.Contains(t, output, "# bash completion for ansetup")
	assert.Contains(t, output, "__ansetup_debug")
	assert.Contains(t, output, "complete -o default -F __start_ansetup ansetup")
}

func TestCompletionZshGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	require.NoError(t, cmd.GenZshCompletion(&buf))
	output := buf.String()

	assert.Contains(t, output, "#compdef ansetup")
	assert.Contains(t, output, "_ansetup()")
}

func TestCompletionFishGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	require.NoError(t, cmd.GenFishCompletion(&buf, true))
	output := buf.String()

	assert.Contains(t, output, "fish completion for ansetup")
	assert.Contains(t, output, "complete -c ansetup")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	cmd := resetRootCmd()

	var buf bytes.Buffer
	require.NoError(t, cmd.GenPowerShellCompletion(&buf))
	output := buf.String()

	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionIncludesBuiltinCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, rootCmd.GenBashCompletion(&buf))
	output := buf.String()

	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "__start_ansetup", "should have start function")
	assert.Contains(t, output, "_ansetup_root_command", "should have root command function")

	// Commands with local flags get their own functions.
	assert.Contains(t, output, "_ansetup_local()")
	assert.Contains(t, output, "_ansetup_remote()")
	assert.Contains(t, output, "_ansetup_cloud-init()")
	assert.Contains(t, output, "_ansetup_completion()")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}

func TestCompletionCommandWritesToCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	defer completionCmd.SetOut(nil)

	require.NoError(t, completionCmd.RunE(completionCmd, []string{"fish"}))
	assert.Contains(t, buf.String(), "complete -c ansetup")
}

func stubCompletionConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	orig := completionConfig
	completionConfig = func() *config.Config { return cfg }
	t.Cleanup(func() { completionConfig = orig })
}

func TestCompleteRolesFlag(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Roles = []string{"base", "shell", "cloud-init"}
	stubCompletionConfig(t, cfg)

	got, directive := completeRolesFlag(localCmd, nil, "")
	assert.Equal(t, []string{"base", "shell", "cloud-init", "all", "full"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoSpace|cobra.ShellCompDirectiveNoFileComp, directive)

	got, _ = completeRolesFlag(localCmd, nil, "sh")
	assert.Equal(t, []string{"shell"}, got)

	got, _ = completeRolesFlag(localCmd, nil, "base,")
	assert.Equal(t, []string{"base,shell", "base,cloud-init", "base,all", "base,full"}, got,
		"already listed names are left out")

	got, _ = completeRolesFlag(localCmd, nil, "base,c")
	assert.Equal(t, []string{"base,cloud-init"}, got)
}

func TestCompleteVariantFlag(t *testing.T) {
	stubCompletionConfig(t, config.DefaultConfig())
	got, _ := completeVariantFlag(cloudInitCmd, nil, "")
	assert.Equal(t, []string{"minimal", "dev", "full", "custom"}, got)

	cfg := config.DefaultConfig()
	cfg.CloudInit.Variants = []config.VariantConfig{{Name: "tiny"}}
	stubCompletionConfig(t, cfg)
	got, _ = completeVariantFlag(cloudInitCmd, nil, "")
	assert.Equal(t, []string{"tiny", "custom"}, got)
}

func TestCompleteFixedFlags(t *testing.T) {
	menus, _ := completeMenuFlag(localCmd, nil, "")
	assert.Equal(t, []string{"auto", "checklist", "numbered"}, menus)

	levels, _ := completeHardenLevelFlag(cloudInitCmd, nil, "")
	assert.Equal(t, []string{"basic", "standard", "full"}, levels)
}

func TestCompleteSSHAliasFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ssh_config")
	require.NoError(t, os.WriteFile(path, []byte("Host lab\n  HostName 10.0.0.5\n\nHost web-*\n  User www\n"), 0o600))

	cmd := &cobra.Command{Use: "remote"}
	cmd.Flags().String("ssh-config", "", "")
	require.NoError(t, cmd.Flags().Set("ssh-config", path))

	got, directive := completeSSHAliasFlag(cmd, nil, "")
	assert.Equal(t, []string{"lab"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestDeployCommandsRegisterCompletions(t *testing.T) {
	for _, c := range []*cobra.Command{localCmd, remoteCmd} {
		_, ok := c.GetFlagCompletionFunc("roles")
		assert.True(t, ok, c.Name())
	}
	_, ok := remoteCmd.GetFlagCompletionFunc("ssh-alias")
	assert.True(t, ok)
	_, ok = cloudInitCmd.GetFlagCompletionFunc("variant")
	assert.True(t, ok)
}
