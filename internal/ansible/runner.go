package ansible

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/errors"
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Cmd builds a Command from a program name and its arguments.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// In returns a copy of c that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n\"'") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// Runner executes commands. Run streams output and returns the exit code;
// a non-zero exit is not an error. The error return means the command
// could not be started at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (exitCode int, err error)
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// LocalRunner runs commands on this machine, attached to the given
// streams so ansible-playbook can prompt for become and SSH passwords.
type LocalRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewLocalRunner attaches to the process's own stdio.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements Runner.
func (r *LocalRunner) Run(ctx context.Context, cmd Command) (int, error) {
	command := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	command.Dir = cmd.Dir
	command.Stdin = r.Stdin
	command.Stdout = r.Stdout
	command.Stderr = r.Stderr

	runErr := command.Run()
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run "+cmd.Name,
			"Make sure the command exists and is executable.")
	}
	return 0, nil
}

// Output implements Runner. Stderr is folded into the error on failure.
func (r *LocalRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	command := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	command.Dir = cmd.Dir

	var stderr bytes.Buffer
	command.Stderr = &stderr

	out, err := command.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return out, errors.WrapWithCode(fmt.Errorf("%s", msg), errors.ErrExec,
			"Command failed: "+cmd.String(),
			"Check that the command exists and is executable.")
	}
	return out, nil
}

// DryRunner prints commands instead of running them.
type DryRunner struct {
	W io.Writer
}

// Run implements Runner.
func (r DryRunner) Run(_ context.Context, cmd Command) (int, error) {
	r.print(cmd)
	return 0, nil
}

// Output implements Runner.
func (r DryRunner) Output(_ context.Context, cmd Command) ([]byte, error) {
	r.print(cmd)
	return nil, nil
}

func (r DryRunner) print(cmd Command) {
	if cmd.Dir != "" {
		fmt.Fprintf(r.W, "would run (in %s): %s\n", cmd.Dir, cmd)
		return
	}
	fmt.Fprintf(r.W, "would run: %s\n", cmd)
}

// LookPathFunc reports where a program lives on PATH. exec.LookPath
// satisfies it; tests pass a fake.
type LookPathFunc func(file string) (string, error)

// Has reports whether name resolves on PATH.
func (f LookPathFunc) Has(name string) bool {
	if f == nil {
		f = exec.LookPath
	}
	_, err := f(name)
	return err == nil
}
