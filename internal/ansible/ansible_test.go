package ansible

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	assert.Equal(t, "ansible-galaxy collection install -r requirements.yml",
		Cmd("ansible-galaxy", "collection", "install", "-r", "requirements.yml").String())
	assert.Equal(t, `ansible-playbook --extra-vars "a=1 @v.yml" ""`,
		Cmd("ansible-playbook", "--extra-vars", "a=1 @v.yml", "").String())
	assert.Equal(t, "/srv", Cmd("x").In("/srv").Dir)
}

func TestDetect(t *testing.T) {
	assert.True(t, Detect(pathWith("ansible-playbook")))
	assert.False(t, Detect(pathWith("ansible")))
}

func TestVersion(t *testing.T) {
	ctx := context.Background()

	_, ok := Version(ctx, &fakeRunner{}, pathWith("dnf"))
	assert.False(t, ok)

	r := &fakeRunner{stdout: map[string]string{
		PlaybookBinary: "ansible-playbook [core 2.16.3]\n  config file = None\n",
	}}
	v, ok := Version(ctx, r, pathWith(PlaybookBinary))
	assert.True(t, ok)
	assert.Equal(t, "ansible-playbook [core 2.16.3]", v)
	assert.Equal(t, []string{"ansible-playbook --version"}, r.strings())

	v, ok = Version(ctx, &fakeRunner{fail: map[string]error{PlaybookBinary: errBoom}}, pathWith(PlaybookBinary))
	assert.True(t, ok)
	assert.Equal(t, "unknown", v)
}

func TestFindPackageManagerPriority(t *testing.T) {
	tests := []struct {
		name string
		path LookPathFunc
		want string
	}{
		{"apt wins over brew", pathWith("brew", "apt-get"), "apt-get"},
		{"dnf before pacman", pathWith("pacman", "dnf"), "dnf"},
		{"pacman", pathWith("pacman"), "pacman"},
		{"brew", pathWith("brew"), "brew"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := FindPackageManager(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pm.Name)
		})
	}

	_, err := FindPackageManager(pathWith("zypper"))
	assert.ErrorIs(t, err, ErrNoPackageManager)
}

func TestInstall(t *testing.T) {
	t.Run("apt-get runs update then install", func(t *testing.T) {
		r := &fakeRunner{}
		pm, err := Install(context.Background(), r, pathWith("apt-get"))
		require.NoError(t, err)
		assert.Equal(t, "apt-get", pm.Name)
		assert.Equal(t, []string{
			"sudo apt-get update",
			"sudo apt-get install -y ansible",
		}, r.strings())
	})

	t.Run("pacman", func(t *testing.T) {
		r := &fakeRunner{}
		_, err := Install(context.Background(), r, pathWith("pacman"))
		require.NoError(t, err)
		assert.Equal(t, []string{"sudo pacman -Sy --noconfirm ansible"}, r.strings())
	})

	t.Run("no package manager", func(t *testing.T) {
		r := &fakeRunner{}
		_, err := Install(context.Background(), r, pathWith())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoPackageManager)
		assert.True(t, errors.IsCode(err, errors.ErrAnsible))
		assert.Empty(t, r.commands)
	})

	t.Run("stops at failing step", func(t *testing.T) {
		r := &fakeRunner{codes: map[string]int{"sudo apt-get update": 100}}
		_, err := Install(context.Background(), r, pathWith("apt-get"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exited with code 100")
		assert.Len(t, r.commands, 1)
	})

	t.Run("start failure", func(t *testing.T) {
		r := &fakeRunner{fail: map[string]error{"brew": errBoom}}
		_, err := Install(context.Background(), r, pathWith("brew"))
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestGalaxy(t *testing.T) {
	dir := t.TempDir()

	r := &fakeRunner{}
	ran, err := Galaxy(context.Background(), r, dir, "requirements.yml")
	require.NoError(t, err)
	assert.False(t, ran, "missing file is skipped")
	assert.Empty(t, r.commands)

	req := filepath.Join(dir, "requirements.yml")
	require.NoError(t, os.WriteFile(req, []byte("collections: []\n"), 0o644))

	ran, err = Galaxy(context.Background(), r, dir, "requirements.yml")
	require.NoError(t, err)
	assert.True(t, ran)
	require.Len(t, r.commands, 1)
	assert.Equal(t, "ansible-galaxy collection install -r "+req, r.commands[0].String())
	assert.Equal(t, dir, r.commands[0].Dir)

	r = &fakeRunner{codes: map[string]int{"ansible-galaxy collection install -r " + req: 2}}
	ran, err = Galaxy(context.Background(), r, dir, req)
	assert.True(t, ran)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAnsible))
}

func TestTagsArg(t *testing.T) {
	assert.Equal(t, "base-installs,fonts", TagsArg([]catalog.Role{"base-installs", "fonts"}))
	assert.Equal(t, "", TagsArg(nil))
}

func TestLocalPlaybookArgs(t *testing.T) {
	p := LocalPlaybook("/srv/pb", "/srv/pb/inventory/hosts.ini", "local_setup.yml",
		[]catalog.Role{"base-installs", "fonts"})

	assert.Equal(t, []string{
		"-i", "/srv/pb/inventory/hosts.ini", "local_setup.yml",
		"--tags", "base-installs,fonts",
		"--ask-become-pass",
	}, p.Args())
	assert.Equal(t, "/srv/pb", p.Command().Dir)
	assert.Equal(t, PlaybookBinary, p.Command().Name)
}

func TestRemotePlaybookArgs(t *testing.T) {
	p := RemotePlaybook("/pb", "inv.ini", "remote_setup.yml", []catalog.Role{"fonts"})
	assert.Equal(t, []string{
		"-i", "inv.ini", "remote_setup.yml",
		"--tags", "fonts",
		"--ask-become-pass", "--ask-pass",
	}, p.Args())
}

func TestCloudInitPlaybookArgs(t *testing.T) {
	p := CloudInitPlaybook("/pb", "site.yml", "files/cloud-init/cloud-config-dev.yaml", "files/cloud-init/dev.yml")
	assert.Equal(t, []string{
		"-i", "localhost,", "site.yml",
		"--tags", "cloud-init",
		"--connection", "local",
		"--batch",
		"--extra-vars", "cloud_init_path=files/cloud-init/cloud-config-dev.yaml @files/cloud-init/dev.yml",
	}, p.Args())
}

func TestPlaybookRun(t *testing.T) {
	p := LocalPlaybook("/pb", "inv", "local_setup.yml", []catalog.Role{"fonts"})

	require.NoError(t, p.Run(context.Background(), &fakeRunner{}))

	r := &fakeRunner{codes: map[string]int{p.Command().String(): 4}}
	err := p.Run(context.Background(), r)
	code, ok := errors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 4, code)

	err = p.Run(context.Background(), &fakeRunner{fail: map[string]error{PlaybookBinary: errBoom}})
	assert.True(t, errors.IsCode(err, errors.ErrAnsible))
}

func TestInventoryHostname(t *testing.T) {
	assert.Equal(t, "remote-server-192-168-1-10", InventoryHostname("192.168.1.10"))
	assert.Equal(t, "remote-server-fe80--1", InventoryHostname("fe80::1"))
	assert.Equal(t, "remote-server-box-example-com", InventoryHostname("box.example.com"))
}

func TestLocalInventory(t *testing.T) {
	assert.Equal(t, "[localhost]\nlocalhost ansible_connection=local\n", LocalInventory())
}

func TestRemoteInventory(t *testing.T) {
	got, err := RemoteInventory(Target{Host: "10.0.0.5", User: "ubuntu", Port: 2222, KeyPath: "/home/me/.ssh/id_ed25519"})
	require.NoError(t, err)
	assert.Equal(t, "[remote_servers]\n"+
		"remote-server-10-0-0-5 ansible_host=10.0.0.5 ansible_user=ubuntu ansible_port=2222"+
		" ansible_ssh_private_key_file='/home/me/.ssh/id_ed25519'\n", got)

	got, err = RemoteInventory(Target{Host: "box", User: "root"})
	require.NoError(t, err)
	assert.Equal(t, "[remote_servers]\nremote-server-box ansible_host=box ansible_user=root ansible_port=22\n", got)

	_, err = RemoteInventory(Target{User: "root"})
	assert.True(t, errors.IsCode(err, errors.ErrInput))
	_, err = RemoteInventory(Target{Host: "box"})
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}

func TestWriteInventory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inventory")
	path, err := WriteInventory(dir, LocalInventoryFile, LocalInventory())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hosts.ini"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, LocalInventory(), string(data))
}

func TestDryRunner(t *testing.T) {
	var buf bytes.Buffer
	r := DryRunner{W: &buf}

	code, err := r.Run(context.Background(), Cmd("sudo", "apt-get", "update"))
	require.NoError(t, err)
	assert.Zero(t, code)
	_, err = r.Output(context.Background(), Cmd("ansible-galaxy", "--version").In("/pb"))
	require.NoError(t, err)

	assert.Equal(t, "would run: sudo apt-get update\nwould run (in /pb): ansible-galaxy --version\n", buf.String())
}

func TestLocalRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	var out bytes.Buffer
	r := &LocalRunner{Stdout: &out, Stderr: &out}

	code, err := r.Run(context.Background(), Cmd("sh", "-c", "echo hi; exit 3"))
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "hi\n", out.String())

	dir := t.TempDir()
	got, err := r.Output(context.Background(), Cmd("pwd").In(dir))
	require.NoError(t, err)
	assert.Contains(t, string(got), filepath.Base(dir))

	_, err = r.Output(context.Background(), Cmd("sh", "-c", "echo bad >&2; exit 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	_, err = r.Run(context.Background(), Cmd("definitely-not-a-real-binary-xyz"))
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}
