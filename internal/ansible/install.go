package ansible

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/errors"
)

// PlaybookBinary is the program whose presence means Ansible is installed.
const PlaybookBinary = "ansible-playbook"

// ErrNoPackageManager means none of the supported package managers is on PATH.
var ErrNoPackageManager = stderrors.New("no supported package manager found")

// PackageManager installs Ansible with a fixed command sequence.
type PackageManager struct {
	Name  string
	Steps []Command
}

// PackageManagers are tried in order; the first whose binary is on PATH wins.
var PackageManagers = []PackageManager{
	{
		Name: "apt-get",
		Steps: []Command{
			Cmd("sudo", "apt-get", "update"),
			Cmd("sudo", "apt-get", "install", "-y", "ansible"),
		},
	},
	{
		Name:  "dnf",
		Steps: []Command{Cmd("sudo", "dnf", "install", "-y", "ansible")},
	},
	{
		Name:  "pacman",
		Steps: []Command{Cmd("sudo", "pacman", "-Sy", "--noconfirm", "ansible")},
	},
	{
		Name:  "brew",
		Steps: []Command{Cmd("brew", "install", "ansible")},
	},
}

// Detect reports whether ansible-playbook is on PATH.
func Detect(lookPath LookPathFunc) bool {
	return lookPath.Has(PlaybookBinary)
}

// Version returns the first line of "ansible-playbook --version", e.g.
// "ansible-playbook [core 2.16.3]". ok is false when Ansible isn't on PATH.
func Version(ctx context.Context, r Runner, lookPath LookPathFunc) (version string, ok bool) {
	if !Detect(lookPath) {
		return "", false
	}
	out, err := r.Output(ctx, Cmd(PlaybookBinary, "--version"))
	if err != nil {
		return "unknown", true
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if line == "" {
		return "unknown", true
	}
	return line, true
}

// FindPackageManager returns the first supported package manager on PATH.
func FindPackageManager(lookPath LookPathFunc) (PackageManager, error) {
	for _, pm := range PackageManagers {
		if lookPath.Has(pm.Name) {
			return pm, nil
		}
	}
	return PackageManager{}, ErrNoPackageManager
}

// Install installs Ansible with the first available package manager. The
// steps stop at the first failure.
func Install(ctx context.Context, r Runner, lookPath LookPathFunc) (PackageManager, error) {
	pm, err := FindPackageManager(lookPath)
	if err != nil {
		return pm, errors.WrapWithCode(err, errors.ErrAnsible,
			"Unsupported package manager",
			"Install Ansible manually (apt-get, dnf, pacman or brew) and re-run.")
	}

	for _, step := range pm.Steps {
		code, err := r.Run(ctx, step)
		if err != nil {
			return pm, errors.WrapWithCode(err, errors.ErrAnsible,
				"Failed to install Ansible with "+pm.Name,
				"Install Ansible manually and re-run.")
		}
		if code != 0 {
			return pm, errors.New(errors.ErrAnsible,
				fmt.Sprintf("%s exited with code %d", step, code),
				"Install Ansible manually and re-run.")
		}
	}
	return pm, nil
}
