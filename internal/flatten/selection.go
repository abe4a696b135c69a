package flatten

import "sort"

// RootGroup is the group identifier for the root table. Array groups are
// identified by their array field path.
const RootGroup = "root"

// Policy is the set of array field paths the caller has chosen to unnest.
// The core only ever reads it; the caller mutates its own copy between
// generation passes.
type Policy map[string]struct{}

// NewPolicy builds a policy from array field paths.
func NewPolicy(paths ...string) Policy {
	p := make(Policy, len(paths))
	for _, path := range paths {
		p[path] = struct{}{}
	}
	return p
}

// Has reports whether the array at path is selected for unnesting.
func (p Policy) Has(path string) bool {
	_, ok := p[path]
	return ok
}

// Paths returns the selected paths in sorted order. Sorting makes group
// order deterministic and places outer arrays before the arrays nested
// inside them, since a nested path extends its ancestor's.
func (p Policy) Paths() []string {
	out := make([]string, 0, len(p))
	for path := range p {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Binding says which table an array group's foreign key should reference.
type Binding int

const (
	// BindDefault follows the structure: the nearest enclosing unnested
	// array if one exists, the root table otherwise.
	BindDefault Binding = iota
	// BindRoot forces the root table even for a nested array.
	BindRoot
	// BindParent names the default explicitly.
	BindParent
)

// Selection is one caller-held snapshot of the choices driving a generation
// pass. The core treats it as read-only; stale entries (keys or bindings
// that no longer match the structure) degrade to deterministic fallbacks
// rather than failing.
type Selection struct {
	Unnest      Policy
	NaturalKeys map[string]string  // group id -> field path of the chosen key
	Relations   map[string]Binding // array path -> explicit parent binding
}

// Key returns the natural-key field path chosen for a group, or "".
func (s *Selection) Key(group string) string {
	if s == nil || s.NaturalKeys == nil {
		return ""
	}
	return s.NaturalKeys[group]
}

// Binding returns the explicit parent binding for an array path.
func (s *Selection) Binding(path string) Binding {
	if s == nil || s.Relations == nil {
		return BindDefault
	}
	return s.Relations[path]
}
