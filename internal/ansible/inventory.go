package ansible

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/rileyhilliard/ansetup/internal/errors"
)

// Inventory file names inside the inventory directory.
const (
	LocalInventoryFile  = "hosts.ini"
	RemoteInventoryFile = "remote_hosts.ini"
)

// DefaultSSHPort is used when a Target has no port.
const DefaultSSHPort = 22

// Target is the remote machine a playbook is pointed at.
type Target struct {
	Host    string
	User    string
	Port    int
	KeyPath string
}

// InventoryHostname derives the inventory alias for a host:
// "10.0.0.5" becomes "remote-server-10-0-0-5". IPv6 colons are replaced too.
func InventoryHostname(host string) string {
	return "remote-server-" + strings.NewReplacer(".", "-", ":", "-").Replace(host)
}

const localTemplate = `[localhost]
localhost ansible_connection=local
`

const remoteTemplate = `[remote_servers]
{{ inventoryHostname .Host }} ansible_host={{ .Host }} ansible_user={{ .User }} ansible_port={{ .Port | default 22 }}
{{- with .KeyPath }} ansible_ssh_private_key_file={{ squote . }}{{ end }}
`

var inventoryTemplates = template.Must(
	template.New("inventory").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{"inventoryHostname": InventoryHostname}).
		Parse(`{{ define "local" }}` + localTemplate + `{{ end }}` +
			`{{ define "remote" }}` + remoteTemplate + `{{ end }}`),
)

// LocalInventory renders the inventory for running against this machine.
func LocalInventory() string {
	var buf bytes.Buffer
	// The local template takes no data and cannot fail.
	_ = inventoryTemplates.ExecuteTemplate(&buf, "local", nil)
	return buf.String()
}

// RemoteInventory renders the single-host inventory for t.
func RemoteInventory(t Target) (string, error) {
	if strings.TrimSpace(t.Host) == "" {
		return "", errors.New(errors.ErrInput,
			"Remote host is empty",
			"Pass --host or pick a host from ~/.ssh/config.")
	}
	if strings.TrimSpace(t.User) == "" {
		return "", errors.New(errors.ErrInput,
			"SSH username is empty",
			"Pass --user or set User in ~/.ssh/config.")
	}

	var buf bytes.Buffer
	if err := inventoryTemplates.ExecuteTemplate(&buf, "remote", t); err != nil {
		return "", fmt.Errorf("render inventory: %w", err)
	}
	return buf.String(), nil
}

// WriteInventory writes content to dir/file, creating dir as needed, and
// returns the file path.
func WriteInventory(dir, file, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't create inventory directory "+dir,
			"Check directory permissions.")
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't write inventory file "+path,
			"Check directory permissions.")
	}
	return path, nil
}
