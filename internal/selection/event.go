package selection

import "fmt"

// EventKind identifies one logical input step.
type EventKind int

const (
	EventUp EventKind = iota
	EventDown
	// EventToggle toggles the entry under the cursor.
	EventToggle
	// EventToggleIndex toggles the entry at Event.Index without moving the cursor.
	EventToggleIndex
	EventConfirm
	EventQuit
	// EventInvalid carries unparseable input so the loop can warn about it.
	EventInvalid
)

func (k EventKind) String() string {
	switch k {
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventToggle:
		return "toggle"
	case EventToggleIndex:
		return "toggle-index"
	case EventConfirm:
		return "confirm"
	case EventQuit:
		return "quit"
	case EventInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Event is a single input step fed to Session.Apply.
type Event struct {
	Kind  EventKind
	Index int    // entry index for EventToggleIndex
	Input string // raw text for EventInvalid
}

func (e Event) String() string {
	switch e.Kind {
	case EventToggleIndex:
		return fmt.Sprintf("toggle-index(%d)", e.Index)
	case EventInvalid:
		return fmt.Sprintf("invalid(%q)", e.Input)
	default:
		return e.Kind.String()
	}
}

// Up moves the cursor to the previous entry.
func Up() Event { return Event{Kind: EventUp} }

// Down moves the cursor to the next entry.
func Down() Event { return Event{Kind: EventDown} }

// Toggle flips the entry under the cursor.
func Toggle() Event { return Event{Kind: EventToggle} }

// ToggleIndex flips entry i (roles first, then meta-selections).
func ToggleIndex(i int) Event { return Event{Kind: EventToggleIndex, Index: i} }

// Confirm finishes the session if anything is selected.
func Confirm() Event { return Event{Kind: EventConfirm} }

// Quit cancels the session.
func Quit() Event { return Event{Kind: EventQuit} }

// Invalid wraps input that could not be mapped to an event.
func Invalid(input string) Event { return Event{Kind: EventInvalid, Input: input} }
