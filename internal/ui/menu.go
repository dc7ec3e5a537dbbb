package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/rileyhilliard/ansetup/internal/selection"
)

const clearScreen = "\033[H\033[2J"

// NumberedSink prints frames of the numbered menu. With Clear set it
// redraws from the top of the screen and holds warnings until after the
// next frame so they are not wiped.
type NumberedSink struct {
	out     io.Writer
	clear   bool
	pending []string
}

// NewNumberedSink writes frames to out.
func NewNumberedSink(out io.Writer, clear bool) *NumberedSink {
	return &NumberedSink{out: out, clear: clear}
}

// Render implements selection.Sink.
func (s *NumberedSink) Render(frame string) error {
	if s.clear {
		if _, err := io.WriteString(s.out, clearScreen); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(s.out, frame); err != nil {
		return err
	}
	for _, msg := range s.pending {
		if err := s.printWarning(msg); err != nil {
			return err
		}
	}
	s.pending = s.pending[:0]
	return nil
}

// Warn implements selection.Sink.
func (s *NumberedSink) Warn(msg string) error {
	if s.clear {
		s.pending = append(s.pending, msg)
		return nil
	}
	return s.printWarning(msg)
}

func (s *NumberedSink) printWarning(msg string) error {
	_, err := fmt.Fprintln(s.out, WarningStyle().Render(msg))
	return err
}

// MenuReader reads menu lines through readline. Ctrl+C and Ctrl+D read
// as "q" so an interrupted menu ends as a cancellation.
type MenuReader struct {
	rl *readline.Instance
}

// NewMenuReader opens a readline prompt on the given streams.
func NewMenuReader(in io.ReadCloser, out io.Writer) (*MenuReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Selection: ",
		Stdin:           in,
		Stdout:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "q",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	return &MenuReader{rl: rl}, nil
}

// Readline implements selection.LineReader.
func (r *MenuReader) Readline() (string, error) {
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return "q", nil
	}
	return line, err
}

// Close restores the terminal.
func (r *MenuReader) Close() error {
	return r.rl.Close()
}

// PickRolesNumbered runs the numbered menu on the terminal.
func PickRolesNumbered(cat *catalog.Catalog, opts selection.RenderOptions) (selection.Outcome, error) {
	reader, err := NewMenuReader(os.Stdin, os.Stdout)
	if err != nil {
		return selection.Outcome{}, err
	}
	defer reader.Close()
	return RunNumbered(cat, opts, reader, NewNumberedSink(os.Stdout, true))
}

// RunNumbered drives a session with typed lines from r.
func RunNumbered(cat *catalog.Catalog, opts selection.RenderOptions, r selection.LineReader, sink selection.Sink) (selection.Outcome, error) {
	opts.Layout = selection.Numbered
	if opts.Style == nil {
		opts.Style = MenuStyle{}
	}
	src := selection.NewLineSource(r, cat)
	opts.Shortcuts = src.Shortcuts()
	return selection.Run(selection.NewSession(cat), src, sink, opts)
}
