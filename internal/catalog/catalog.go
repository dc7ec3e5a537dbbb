// Package catalog holds the ordered list of provisioning roles and the
// named meta-selections ("all", "full") that expand to subsets of it.
//
// A Catalog is built once from configuration and never mutated. Its order
// is the display order of the picker and the order of the --tags argument.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Role names one provisioning unit. It doubles as the Ansible tag.
type Role string

var (
	// ErrNotFound is matched by every lookup miss, including a
	// meta-selection that references a role outside the catalog.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateRole means the same role was listed twice.
	ErrDuplicateRole = errors.New("duplicate role")
	// ErrEmptyRole means a role identifier was blank.
	ErrEmptyRole = errors.New("empty role name")
	// ErrDuplicateMeta means two meta-selections share a name.
	ErrDuplicateMeta = errors.New("duplicate meta-selection")
)

// NotFoundError reports which name was missing and where it was referenced.
type NotFoundError struct {
	Kind string // "role" or "meta-selection"
	Name string
	// Referrer is the meta-selection that referenced Name, if any.
	Referrer string
}

func (e *NotFoundError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("meta-selection %q references unknown %s %q", e.Referrer, e.Kind, e.Name)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MetaSpec is the configuration form of a meta-selection. Exactly one of
// Roles or Except is normally set; with neither, the meta covers every role.
type MetaSpec struct {
	Name        string
	Description string
	Roles       []string
	Except      []string
}

// Meta is a resolved meta-selection.
type Meta struct {
	Name        string
	Description string
	roles       []Role
	indices     []int
}

// Roles returns the constituent roles in catalog order.
func (m Meta) Roles() []Role {
	return append([]Role(nil), m.roles...)
}

// Indices returns the catalog indices of the constituent roles, ascending.
func (m Meta) Indices() []int {
	return append([]int(nil), m.indices...)
}

// Catalog is an immutable ordered set of roles plus meta-selections.
type Catalog struct {
	roles []Role
	index map[Role]int
	metas []Meta
}

// New validates roles and metas and builds a Catalog.
func New(roles []string, metas []MetaSpec) (*Catalog, error) {
	c := &Catalog{
		roles: make([]Role, 0, len(roles)),
		index: make(map[Role]int, len(roles)),
	}

	for _, name := range roles {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrEmptyRole
		}
		r := Role(name)
		if _, dup := c.index[r]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRole, name)
		}
		c.index[r] = len(c.roles)
		c.roles = append(c.roles, r)
	}

	seen := make(map[string]bool, len(metas))
	for _, spec := range metas {
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMeta, spec.Name)
		}
		seen[spec.Name] = true

		m, err := c.resolveSpec(spec)
		if err != nil {
			return nil, err
		}
		c.metas = append(c.metas, m)
	}

	return c, nil
}

func (c *Catalog) resolveSpec(spec MetaSpec) (Meta, error) {
	m := Meta{Name: spec.Name, Description: spec.Description}
	member := make([]bool, len(c.roles))

	switch {
	case len(spec.Roles) > 0:
		for _, name := range spec.Roles {
			i, ok := c.index[Role(name)]
			if !ok {
				return Meta{}, &NotFoundError{Kind: "role", Name: name, Referrer: spec.Name}
			}
			member[i] = true
		}
	default:
		for i := range member {
			member[i] = true
		}
		for _, name := range spec.Except {
			i, ok := c.index[Role(name)]
			if !ok {
				return Meta{}, &NotFoundError{Kind: "role", Name: name, Referrer: spec.Name}
			}
			member[i] = false
		}
	}

	for i, in := range member {
		if in {
			m.indices = append(m.indices, i)
			m.roles = append(m.roles, c.roles[i])
		}
	}
	return m, nil
}

// Len returns the number of roles.
func (c *Catalog) Len() int {
	return len(c.roles)
}

// At returns the role at index i. It panics if i is out of range.
func (c *Catalog) At(i int) Role {
	return c.roles[i]
}

// Roles returns all roles in catalog order.
func (c *Catalog) Roles() []Role {
	return append([]Role(nil), c.roles...)
}

// Index returns the position of role in the catalog.
func (c *Catalog) Index(role Role) (int, error) {
	i, ok := c.index[role]
	if !ok {
		return -1, &NotFoundError{Kind: "role", Name: string(role)}
	}
	return i, nil
}

// Metas returns the meta-selections in definition order.
func (c *Catalog) Metas() []Meta {
	return append([]Meta(nil), c.metas...)
}

// Meta looks up a meta-selection by name.
func (c *Catalog) Meta(name string) (Meta, error) {
	for _, m := range c.metas {
		if m.Name == name {
			return m, nil
		}
	}
	return Meta{}, &NotFoundError{Kind: "meta-selection", Name: name}
}

// Resolve expands a meta-selection name to its roles in catalog order.
func (c *Catalog) Resolve(name string) ([]Role, error) {
	m, err := c.Meta(name)
	if err != nil {
		return nil, err
	}
	return m.Roles(), nil
}

// Expand resolves a mix of role and meta-selection names (as given to
// --roles) into a de-duplicated role list in catalog order.
func (c *Catalog) Expand(names []string) ([]Role, error) {
	picked := make([]bool, len(c.roles))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if i, ok := c.index[Role(name)]; ok {
			picked[i] = true
			continue
		}
		m, err := c.Meta(name)
		if err != nil {
			return nil, &NotFoundError{Kind: "role or meta-selection", Name: name}
		}
		for _, i := range m.indices {
			picked[i] = true
		}
	}

	var out []Role
	for i, ok := range picked {
		if ok {
			out = append(out, c.roles[i])
		}
	}
	return out, nil
}

// Strings converts roles to plain strings.
func Strings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
