package selection

import (
	"errors"
	"fmt"
)

// EventSource yields the next batch of input events. A batch usually
// holds one event; typed input like "1,3,5" yields several. Next blocks
// until input is available.
type EventSource interface {
	Next() ([]Event, error)
}

// Sink receives rendered frames and recoverable warnings.
type Sink interface {
	Render(frame string) error
	Warn(msg string) error
}

// Run drives a session to completion: render, read, apply, repeat.
// A cancelled session is reported through Outcome, not as an error; the
// error return is reserved for I/O failures of the source or sink.
func Run(s *Session, src EventSource, sink Sink, opts RenderOptions) (Outcome, error) {
	for s.State() == Running {
		if err := sink.Render(Render(s.Snapshot(), opts)); err != nil {
			return Outcome{}, fmt.Errorf("render menu: %w", err)
		}

		events, err := src.Next()
		if err != nil {
			return Outcome{}, fmt.Errorf("read menu input: %w", err)
		}

		for _, ev := range events {
			if err := s.Apply(ev); err != nil {
				if errors.Is(err, ErrSessionDone) {
					break
				}
				if werr := sink.Warn(Warning(err)); werr != nil {
					return Outcome{}, fmt.Errorf("render warning: %w", werr)
				}
			}
			if s.State() != Running {
				break
			}
		}
	}
	return s.Result(), nil
}

// Warning turns a rejected event into the line shown under the menu.
func Warning(err error) string {
	switch {
	case errors.Is(err, ErrEmptySelection):
		return EmptySelectionWarning
	case errors.Is(err, ErrIndexOutOfRange):
		return "Ignoring " + err.Error()
	case errors.Is(err, ErrInvalidInput):
		return "Invalid input, please try again: " + err.Error()
	default:
		return err.Error()
	}
}
