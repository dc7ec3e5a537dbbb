package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Status prints the tagged progress lines the deploy workflows use:
//
//	[INFO] Playbook directory: /home/me/dotfiles
//	[SUCCESS] Ansible is already installed.
//	[WARNING] requirements.yml not found. Skipping collection installation.
//	[ERROR] Ansible playbook execution failed.
//
// Errors go to the error writer, everything else to the output writer.
type Status struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewStatus writes to stdout and stderr.
func NewStatus() *Status {
	return NewStatusWithOutput(os.Stdout, os.Stderr)
}

// NewStatusWithOutput writes to the given writers.
func NewStatusWithOutput(out, err io.Writer) *Status {
	return &Status{out: out, err: err}
}

// Out returns the writer used for non-error lines.
func (s *Status) Out() io.Writer {
	return s.out
}

func (s *Status) line(w io.Writer, tag string, style lipgloss.Style, format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(w, "%s %s\n", style.Render("["+tag+"]"), fmt.Sprintf(format, args...))
}

// Info prints an [INFO] line.
func (s *Status) Info(format string, args ...interface{}) {
	s.line(s.out, "INFO", InfoStyle(), format, args...)
}

// Success prints a [SUCCESS] line.
func (s *Status) Success(format string, args ...interface{}) {
	s.line(s.out, "SUCCESS", SuccessStyle(), format, args...)
}

// Warn prints a [WARNING] line.
func (s *Status) Warn(format string, args ...interface{}) {
	s.line(s.out, "WARNING", WarningStyle(), format, args...)
}

// Error prints an [ERROR] line to the error writer.
func (s *Status) Error(format string, args ...interface{}) {
	s.line(s.err, "ERROR", ErrorStyle(), format, args...)
}
