package selection

import (
	"strconv"
	"strings"

	"github.com/rileyhilliard/ansetup/internal/catalog"
)

// LineReader reads one line of typed input. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// LineSource maps typed lines onto events for the numbered menu:
//
//	1,3,5        toggle entries 1, 3 and 5
//	a / all      toggle the "all" meta-selection (first letter or full name)
//	<empty> / y  confirm
//	q            quit
type LineSource struct {
	r        LineReader
	metaKeys map[string]int // token -> entry index
	metas    []catalog.Meta
	base     int
}

// Shortcut is the shortest token that toggles a meta-selection.
type Shortcut struct {
	Key  string
	Meta string
}

// NewLineSource builds a LineSource whose meta shortcuts come from cat.
func NewLineSource(r LineReader, cat *catalog.Catalog) *LineSource {
	ls := &LineSource{
		r:        r,
		metaKeys: make(map[string]int),
		metas:    cat.Metas(),
		base:     cat.Len(),
	}
	for j, m := range ls.metas {
		idx := cat.Len() + j
		name := strings.ToLower(m.Name)
		if name == "" {
			continue
		}
		ls.metaKeys[name] = idx
		short := name[:1]
		if _, taken := ls.metaKeys[short]; !taken && !isCommandToken(short) {
			ls.metaKeys[short] = idx
		}
	}
	return ls
}

// Shortcuts lists one token per meta-selection in catalog order: its first
// letter when that letter is free, otherwise its full name.
func (ls *LineSource) Shortcuts() []Shortcut {
	var out []Shortcut
	for j, m := range ls.metas {
		name := strings.ToLower(m.Name)
		if name == "" {
			continue
		}
		key := name
		if idx, ok := ls.metaKeys[name[:1]]; ok && idx == ls.base+j {
			key = name[:1]
		}
		out = append(out, Shortcut{Key: key, Meta: m.Name})
	}
	return out
}

func isCommandToken(tok string) bool {
	switch tok {
	case "q", "y":
		return true
	}
	return false
}

// Next reads one line and translates it.
func (ls *LineSource) Next() ([]Event, error) {
	line, err := ls.r.Readline()
	if err != nil {
		return nil, err
	}
	return ls.Parse(line), nil
}

// Parse translates a single line without reading.
func (ls *LineSource) Parse(line string) []Event {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "", "y", "yes", "done":
		return []Event{Confirm()}
	case "q", "quit", "exit":
		return []Event{Quit()}
	}

	var events []Event
	for _, tok := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' }) {
		switch {
		case tok == "q":
			return append(events, Quit())
		case tok == "y":
			events = append(events, Confirm())
		default:
			if n, err := strconv.Atoi(tok); err == nil {
				events = append(events, ToggleIndex(n-1))
				continue
			}
			if idx, ok := ls.metaKeys[tok]; ok {
				events = append(events, ToggleIndex(idx))
				continue
			}
			events = append(events, Invalid(tok))
		}
	}
	return events
}
