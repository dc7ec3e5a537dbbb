package selection

import (
	"errors"
	"fmt"

	"github.com/rileyhilliard/ansetup/internal/catalog"
)

// State is the session lifecycle state.
type State int

const (
	Running State = iota
	Confirmed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptySelection is returned by Apply when Confirm arrives with
	// nothing selected. The session keeps running.
	ErrEmptySelection = errors.New("select at least one role")
	// ErrSessionDone is returned by Apply once the session has left Running.
	ErrSessionDone = errors.New("selection session already finished")
	// ErrIndexOutOfRange is returned for an EventToggleIndex past the entry list.
	ErrIndexOutOfRange = errors.New("entry index out of range")
	// ErrInvalidInput is returned for EventInvalid.
	ErrInvalidInput = errors.New("invalid input")
)

// EmptySelectionWarning is what adapters show for ErrEmptySelection.
const EmptySelectionWarning = "Please select at least one role or 'all'/'full'."

// Session is the role picker state machine. It is not safe for concurrent
// use; one input loop owns it for its lifetime.
type Session struct {
	cat      *catalog.Catalog
	metas    []catalog.Meta
	selected []bool // indexed by catalog position
	cursor   int
	state    State
}

// NewSession starts a Running session with the cursor on the first entry
// and nothing selected.
func NewSession(cat *catalog.Catalog) *Session {
	return &Session{
		cat:      cat,
		metas:    cat.Metas(),
		selected: make([]bool, cat.Len()),
	}
}

// Catalog returns the catalog the session was built over.
func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

// Len returns the number of entries: roles followed by meta-selections.
func (s *Session) Len() int {
	return len(s.selected) + len(s.metas)
}

// Cursor returns the highlighted entry index.
func (s *Session) Cursor() int {
	return s.cursor
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Apply feeds one event to the session.
func (s *Session) Apply(ev Event) error {
	if s.state != Running {
		return ErrSessionDone
	}

	n := s.Len()
	switch ev.Kind {
	case EventUp:
		if n > 0 {
			s.cursor = (s.cursor - 1 + n) % n
		}
	case EventDown:
		if n > 0 {
			s.cursor = (s.cursor + 1) % n
		}
	case EventToggle:
		if n > 0 {
			s.toggle(s.cursor)
		}
	case EventToggleIndex:
		if ev.Index < 0 || ev.Index >= n {
			return fmt.Errorf("%w: %d (valid: 1-%d)", ErrIndexOutOfRange, ev.Index+1, n)
		}
		s.toggle(ev.Index)
	case EventConfirm:
		if s.count() == 0 {
			return ErrEmptySelection
		}
		s.state = Confirmed
	case EventQuit:
		s.state = Cancelled
	case EventInvalid:
		return fmt.Errorf("%w: %q", ErrInvalidInput, ev.Input)
	default:
		return fmt.Errorf("%w: unknown event kind %d", ErrInvalidInput, ev.Kind)
	}
	return nil
}

func (s *Session) toggle(entry int) {
	if entry < len(s.selected) {
		s.selected[entry] = !s.selected[entry]
		return
	}

	meta := s.metas[entry-len(s.selected)]
	on := !s.allSelected(meta)
	for _, i := range meta.Indices() {
		s.selected[i] = on
	}
}

func (s *Session) allSelected(m catalog.Meta) bool {
	idx := m.Indices()
	for _, i := range idx {
		if !s.selected[i] {
			return false
		}
	}
	return len(idx) > 0
}

func (s *Session) count() int {
	n := 0
	for _, on := range s.selected {
		if on {
			n++
		}
	}
	return n
}

// IsSelected reports whether the role at catalog index i is selected.
func (s *Session) IsSelected(i int) bool {
	return i >= 0 && i < len(s.selected) && s.selected[i]
}

// MetaChecked reports whether every role of the named meta-selection is
// currently selected. It is derived from the selection each call.
func (s *Session) MetaChecked(name string) bool {
	for _, m := range s.metas {
		if m.Name == name {
			return s.allSelected(m)
		}
	}
	return false
}

// Selected returns the selected roles in catalog order.
func (s *Session) Selected() []catalog.Role {
	var out []catalog.Role
	for i, on := range s.selected {
		if on {
			out = append(out, s.cat.At(i))
		}
	}
	return out
}

// Outcome is the terminal result of a session.
type Outcome struct {
	State State
	Roles []catalog.Role
	// Meta names the largest meta-selection that was fully selected at
	// confirmation, if any. Ties go to the one listed first.
	Meta string
}

// Cancelled reports whether the user quit.
func (o Outcome) Cancelled() bool {
	return o.State == Cancelled
}

// Result returns the outcome. For a Confirmed session the roles come back
// in catalog order; the canonical list of the largest fully selected
// meta-selection is merged in without duplicates. Cancelled and Running sessions
// yield no roles.
func (s *Session) Result() Outcome {
	out := Outcome{State: s.state}
	if s.state != Confirmed {
		return out
	}

	picked := append([]bool(nil), s.selected...)
	best := -1
	for j, m := range s.metas {
		if !s.allSelected(m) {
			continue
		}
		if best < 0 || len(m.Indices()) > len(s.metas[best].Indices()) {
			best = j
		}
	}
	if best >= 0 {
		m := s.metas[best]
		out.Meta = m.Name
		for _, i := range m.Indices() {
			picked[i] = true
		}
	}

	for i, on := range picked {
		if on {
			out.Roles = append(out.Roles, s.cat.At(i))
		}
	}
	return out
}

// Entry is one rendered row.
type Entry struct {
	Number      int // 1-based position in the combined list
	Label       string
	Description string
	Meta        bool
	Checked     bool
	Current     bool
}

// Snapshot is an immutable copy of everything Render needs.
type Snapshot struct {
	Entries []Entry
	Cursor  int
	State   State
}

// Snapshot captures the current entries, checked marks and cursor.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Entries: make([]Entry, 0, s.Len()),
		Cursor:  s.cursor,
		State:   s.state,
	}
	for i, on := range s.selected {
		snap.Entries = append(snap.Entries, Entry{
			Number:  i + 1,
			Label:   string(s.cat.At(i)),
			Checked: on,
			Current: i == s.cursor,
		})
	}
	for j, m := range s.metas {
		i := len(s.selected) + j
		snap.Entries = append(snap.Entries, Entry{
			Number:      i + 1,
			Label:       m.Name,
			Description: m.Description,
			Meta:        true,
			Checked:     s.allSelected(m),
			Current:     i == s.cursor,
		})
	}
	return snap
}
