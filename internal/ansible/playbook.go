package ansible

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/errors"
)

// Playbook describes one ansible-playbook invocation.
type Playbook struct {
	Dir       string
	Inventory string
	File      string
	Tags      []string

	AskBecomePass bool
	AskPass       bool

	// Connection overrides the inventory's connection plugin, e.g. "local".
	Connection string
	// Batch adds --batch, which site.yml uses to skip interactive prompts.
	Batch     bool
	ExtraVars []string
}

// TagsArg joins role names for --tags.
func TagsArg(roles []catalog.Role) string {
	return strings.Join(catalog.Strings(roles), ",")
}

// Args returns the ansible-playbook arguments.
func (p Playbook) Args() []string {
	args := []string{"-i", p.Inventory, p.File}
	if len(p.Tags) > 0 {
		args = append(args, "--tags", strings.Join(p.Tags, ","))
	}
	if p.Connection != "" {
		args = append(args, "--connection", p.Connection)
	}
	if p.Batch {
		args = append(args, "--batch")
	}
	if len(p.ExtraVars) > 0 {
		args = append(args, "--extra-vars", strings.Join(p.ExtraVars, " "))
	}
	if p.AskBecomePass {
		args = append(args, "--ask-become-pass")
	}
	if p.AskPass {
		args = append(args, "--ask-pass")
	}
	return args
}

// Command returns the full invocation.
func (p Playbook) Command() Command {
	return Cmd(PlaybookBinary, p.Args()...).In(p.Dir)
}

// Run executes the playbook. A non-zero exit is returned as an
// errors.ExitError carrying the playbook's code.
func (p Playbook) Run(ctx context.Context, r Runner) error {
	code, err := r.Run(ctx, p.Command())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAnsible,
			"Couldn't start ansible-playbook",
			"Check that Ansible is installed correctly.")
	}
	if code != 0 {
		return errors.NewExitError(code)
	}
	return nil
}

// LocalPlaybook runs the local setup playbook against the localhost inventory.
func LocalPlaybook(dir, inventory, file string, roles []catalog.Role) Playbook {
	return Playbook{
		Dir:           dir,
		Inventory:     inventory,
		File:          file,
		Tags:          catalog.Strings(roles),
		AskBecomePass: true,
	}
}

// RemotePlaybook runs the remote playbook; SSH may need a password too.
func RemotePlaybook(dir, inventory, file string, roles []catalog.Role) Playbook {
	p := LocalPlaybook(dir, inventory, file, roles)
	p.AskPass = true
	return p
}

// CloudInitPlaybook renders a cloud-config through the cloud-init role of
// site.yml on the control machine.
func CloudInitPlaybook(dir, site, outputPath, varsFile string) Playbook {
	return Playbook{
		Dir:        dir,
		Inventory:  "localhost,",
		File:       site,
		Tags:       []string{"cloud-init"},
		Connection: "local",
		Batch:      true,
		ExtraVars: []string{
			fmt.Sprintf("cloud_init_path=%s", outputPath),
			"@" + varsFile,
		},
	}
}
