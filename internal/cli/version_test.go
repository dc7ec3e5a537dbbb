package cli

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// runVersion runs the real version command with fixed build info and a
// stubbed Ansible lookup.
func runVersion(t *testing.T, v string, short bool, ansibleOut string) string {
	t.Helper()
	origVersion, origCommit, origDate := version, commit, date
	origShort, origAnsible := versionShort, ansibleVersion
	t.Cleanup(func() {
		version, commit, date = origVersion, origCommit, origDate
		versionShort, ansibleVersion = origShort, origAnsible
	})

	SetVersionInfo(v, "abc1234", "2026-01-08")
	versionShort = short
	ansibleVersion = func(context.Context) string { return ansibleOut }

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })
	versionCmd.Run(versionCmd, nil)
	return buf.String()
}

func TestVersionOutput(t *testing.T) {
	out := runVersion(t, "1.2.3", false, "ansible-playbook [core 2.16.3]")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, []string{
		"ansetup v1.2.3 (abc1234, built 2026-01-08)",
		"  " + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH,
		"  ansible: ansible-playbook [core 2.16.3]",
	}, lines)
}

func TestVersionOutputWithoutAnsible(t *testing.T) {
	out := runVersion(t, "dev", false, "not installed")
	assert.Contains(t, out, "ansetup dev (")
	assert.Contains(t, out, "ansible: not installed")
}

func TestVersionShort(t *testing.T) {
	out := runVersion(t, "1.2.3", true, "never asked")
	assert.Equal(t, "1.2.3\n", out)
}

func TestFormatVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"dev", "dev"},
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
		{"1.2.3-rc.1", "v1.2.3-rc.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in), tt.in)
	}
}
