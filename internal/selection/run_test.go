package selection

import (
	"errors"
	"io"
	"testing"

	"github.com/rileyhilliard/ansetup/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	batches [][]Event
	err     error
}

func (s *scriptedSource) Next() ([]Event, error) {
	if len(s.batches) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

type recordingSink struct {
	frames   []string
	warnings []string
	failOn   int
}

func (r *recordingSink) Render(frame string) error {
	r.frames = append(r.frames, frame)
	if r.failOn > 0 && len(r.frames) == r.failOn {
		return errors.New("terminal gone")
	}
	return nil
}

func (r *recordingSink) Warn(msg string) error {
	r.warnings = append(r.warnings, msg)
	return nil
}

func TestRunConfirm(t *testing.T) {
	s := NewSession(abcCatalog(t))
	src := &scriptedSource{batches: [][]Event{
		{Toggle()},
		{Down()},
		{Toggle()},
		{Confirm()},
	}}
	sink := &recordingSink{}

	out, err := Run(s, src, sink, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, Confirmed, out.State)
	assert.Equal(t, []catalog.Role{"a", "b"}, out.Roles)
	assert.Len(t, sink.frames, 4, "one frame per input step")
	assert.Empty(t, sink.warnings)
}

func TestRunEmptyConfirmWarnsAndContinues(t *testing.T) {
	s := NewSession(abcCatalog(t))
	src := &scriptedSource{batches: [][]Event{
		{Confirm()},
		{ToggleIndex(entryC), Confirm()},
	}}
	sink := &recordingSink{}

	out, err := Run(s, src, sink, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, []catalog.Role{"c"}, out.Roles)
	assert.Equal(t, []string{EmptySelectionWarning}, sink.warnings)
}

func TestRunQuitIsNotAnError(t *testing.T) {
	s := NewSession(abcCatalog(t))
	src := &scriptedSource{batches: [][]Event{{ToggleIndex(entryFull)}, {Quit()}}}

	out, err := Run(s, src, &recordingSink{}, RenderOptions{})
	require.NoError(t, err)
	assert.True(t, out.Cancelled())
	assert.Nil(t, out.Roles)
}

func TestRunStopsAtTerminalEventInBatch(t *testing.T) {
	s := NewSession(abcCatalog(t))
	src := &scriptedSource{batches: [][]Event{{ToggleIndex(entryA), Quit(), ToggleIndex(entryB)}}}

	out, err := Run(s, src, &recordingSink{}, RenderOptions{})
	require.NoError(t, err)
	assert.True(t, out.Cancelled())
	assert.Equal(t, []catalog.Role{"a"}, s.Selected(), "events after quit are dropped")
}

func TestRunSourceError(t *testing.T) {
	s := NewSession(abcCatalog(t))
	src := &scriptedSource{}

	_, err := Run(s, src, &recordingSink{}, RenderOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRunSinkError(t *testing.T) {
	s := NewSession(abcCatalog(t))
	src := &scriptedSource{batches: [][]Event{{Down()}}}

	_, err := Run(s, src, &recordingSink{failOn: 2}, RenderOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal gone")
}

func TestRunWarnsOnBadInput(t *testing.T) {
	s := NewSession(abcCatalog(t))
	src := &scriptedSource{batches: [][]Event{
		{ToggleIndex(42), Invalid("zz"), ToggleIndex(entryB)},
		{Confirm()},
	}}
	sink := &recordingSink{}

	out, err := Run(s, src, sink, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, []catalog.Role{"b"}, out.Roles)
	require.Len(t, sink.warnings, 2)
	assert.Contains(t, sink.warnings[0], "43")
	assert.Contains(t, sink.warnings[1], "zz")
}
