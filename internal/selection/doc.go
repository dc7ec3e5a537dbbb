// Package selection implements the interactive role picker as a small
// state machine decoupled from the terminal.
//
// A Session starts Running with the cursor on entry 0 and nothing
// selected. Entries are the catalog roles followed by the meta-selections.
// Events move the cursor (wrapping at both ends), toggle entries, confirm,
// or quit:
//
//	Running --Confirm (non-empty)--> Confirmed
//	Running --Confirm (empty)------> Running + ErrEmptySelection
//	Running --Quit-----------------> Cancelled
//
// Toggling a meta-selection selects all of its roles unless they are all
// already selected, in which case it deselects them. Whether a meta row is
// drawn checked is recomputed from the selected set on every render.
//
// Input and output are injected. Run drives a session from any
// EventSource into any Sink; LineSource adapts typed "1,3,5" input for the
// numbered menu, and internal/ui adapts bubbletea key presses for the
// checklist menu.
package selection
