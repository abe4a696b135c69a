package flatten

// Group is the set of leaves that will become the columns of one table: the
// root group (empty Path) or one group per unnested array.
type Group struct {
	Path   string // array field path; "" for the root group
	Leaves []Leaf
}

// Partitioned is the output of Partition: the root group plus the array
// groups in deterministic (sorted path) order.
type Partitioned struct {
	Root   Group
	Arrays []*Group

	byPath map[string]*Group
}

// Partition buckets walker leaves into the root group plus one group per
// unnested array. A leaf belongs to its most specific unnested array
// ancestor, or to root when it has none. Every policy member gets a group
// even when all of its content has been unnested further, so relationship
// resolution always has a table to attach to.
func Partition(leaves []Leaf, policy Policy) *Partitioned {
	part := &Partitioned{byPath: make(map[string]*Group, len(policy))}
	for _, path := range policy.Paths() {
		g := &Group{Path: path}
		part.byPath[path] = g
		part.Arrays = append(part.Arrays, g)
	}
	for _, leaf := range leaves {
		if g := part.owner(leaf.Path); g != nil {
			g.Leaves = append(g.Leaves, leaf)
		} else {
			part.Root.Leaves = append(part.Root.Leaves, leaf)
		}
	}
	return part
}

// Array returns the group for an unnested array path, or nil.
func (p *Partitioned) Array(path string) *Group {
	return p.byPath[path]
}

// Group returns the group with the given identifier: RootGroup or an array
// path. Nil when no such group exists.
func (p *Partitioned) Group(id string) *Group {
	if id == RootGroup {
		return &p.Root
	}
	return p.byPath[id]
}

// owner finds the most specific unnested array whose items contain the leaf.
func (p *Partitioned) owner(leafPath string) *Group {
	var best *Group
	for _, g := range p.Arrays {
		if Under(leafPath, g.Path) && (best == nil || len(g.Path) > len(best.Path)) {
			best = g
		}
	}
	return best
}
