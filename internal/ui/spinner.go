package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// SpinnerState is how a spinner step ended.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerRunning
	SpinnerSuccess
	SpinnerFailed
	SpinnerSkipped
)

// eraseLine returns the cursor to column 0 and clears the row.
const eraseLine = "\r\x1b[K"

// Spinner animates a label while a step runs and then leaves one line:
//
//	✓ Checking SSH on 10.0.0.5:22 0.42s
//
// Animation only happens on a terminal. Other writers get the final line.
type Spinner struct {
	// Animate is set by NewSpinner when w is a terminal.
	Animate bool

	w     io.Writer
	label string
	kind  spinner.Spinner

	mu      sync.Mutex
	state   SpinnerState
	frame   int
	started time.Time
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner prepares a spinner writing to w. Nothing is printed until Start.
func NewSpinner(w io.Writer, label string) *Spinner {
	animate := false
	if f, ok := w.(*os.File); ok {
		animate = term.IsTerminal(int(f.Fd()))
	}
	return &Spinner{
		Animate: animate,
		w:       w,
		label:   label,
		kind:    spinner.MiniDot,
	}
}

// Start begins the step. Calling it twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SpinnerPending {
		return
	}
	s.state = SpinnerRunning
	s.started = time.Now()
	if !s.Animate {
		return
	}

	s.stop = make(chan struct{})
	s.drawLocked()
	s.wg.Add(1)
	go s.tick()
}

func (s *Spinner) tick() {
	defer s.wg.Done()
	t := time.NewTicker(s.kind.FPS)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(s.kind.Frames)
			s.drawLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) drawLocked() {
	fmt.Fprintf(s.w, "%s%s %s...", eraseLine, AccentStyle().Render(s.kind.Frames[s.frame]), s.label)
}

// Success ends the step with a check mark.
func (s *Spinner) Success() { s.finish(SpinnerSuccess) }

// Fail ends the step with a cross.
func (s *Spinner) Fail() { s.finish(SpinnerFailed) }

// Skip ends the step as skipped, e.g. when the probe only half worked.
func (s *Spinner) Skip() { s.finish(SpinnerSkipped) }

func (s *Spinner) finish(state SpinnerState) {
	s.mu.Lock()
	if s.state != SpinnerRunning {
		s.mu.Unlock()
		return
	}
	s.state = state
	stop := s.stop
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		s.wg.Wait()
	}

	var symbol string
	var style lipgloss.Style
	switch state {
	case SpinnerSuccess:
		symbol, style = SymbolSuccess, SuccessStyle()
	case SpinnerFailed:
		symbol, style = SymbolFail, ErrorStyle()
	default:
		symbol, style = SymbolSkipped, WarningStyle()
	}

	prefix := ""
	if s.Animate {
		prefix = eraseLine
	}
	fmt.Fprintf(s.w, "%s%s %s %s\n", prefix, style.Render(symbol), s.label,
		MutedStyle().Render(formatDuration(time.Since(s.started))))
}

// State reports where the step is.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// formatDuration renders "0.04s" below a tenth of a second, "1.2s" above.
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
