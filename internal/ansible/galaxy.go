package ansible

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/ansetup/internal/errors"
)

// GalaxyCommand installs the collections listed in requirements.
func GalaxyCommand(playbookDir, requirements string) Command {
	return Cmd("ansible-galaxy", "collection", "install", "-r", requirements).In(playbookDir)
}

// Galaxy installs collections from the requirements file when it exists.
// It reports false without error when there is no file to process.
func Galaxy(ctx context.Context, r Runner, playbookDir, requirements string) (bool, error) {
	path := requirements
	if !filepath.IsAbs(path) {
		path = filepath.Join(playbookDir, requirements)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrAnsible,
			"Cannot read "+path,
			"Check file permissions.")
	}

	cmd := GalaxyCommand(playbookDir, path)
	code, err := r.Run(ctx, cmd)
	if err != nil {
		return true, errors.WrapWithCode(err, errors.ErrAnsible,
			"Couldn't run ansible-galaxy",
			"Check that Ansible is installed correctly.")
	}
	if code != 0 {
		return true, errors.New(errors.ErrAnsible,
			fmt.Sprintf("ansible-galaxy exited with code %d", code),
			"Check "+path+" and your network connection.")
	}
	return true, nil
}
