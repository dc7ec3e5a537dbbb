package ansible

import (
	"context"
	"errors"
	"os/exec"
)

type fakeRunner struct {
	commands []Command
	codes    map[string]int
	fail     map[string]error
	stdout   map[string]string
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (int, error) {
	f.commands = append(f.commands, cmd)
	if err := f.fail[cmd.Name]; err != nil {
		return -1, err
	}
	return f.codes[cmd.String()], nil
}

func (f *fakeRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	_, err := f.Run(ctx, cmd)
	if out, ok := f.stdout[cmd.Name]; ok {
		return []byte(out), err
	}
	return nil, err
}

func (f *fakeRunner) strings() []string {
	out := make([]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = c.String()
	}
	return out
}

func pathWith(bins ...string) LookPathFunc {
	set := make(map[string]bool, len(bins))
	for _, b := range bins {
		set[b] = true
	}
	return func(file string) (string, error) {
		if set[file] {
			return "/usr/bin/" + file, nil
		}
		return "", exec.ErrNotFound
	}
}

var errBoom = errors.New("boom")
