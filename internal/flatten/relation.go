package flatten

// ParentKind distinguishes which table a child table's foreign key
// references.
type ParentKind int

const (
	ParentRoot ParentKind = iota
	ParentArray
)

// Relation links one array group to its parent table and the parent field
// whose value is duplicated into the child as a foreign key.
type Relation struct {
	Child      string // array path of the child group
	Parent     ParentKind
	ParentPath string // array path of the parent group; "" when Parent is root
	KeyPath    string // the parent's chosen natural-key field path
	KeyLeaf    *Leaf  // nil when the key path no longer matches the parent group
}

// Resolve determines, for every array group, which table it hangs off and
// which parent field becomes its foreign key. A nested array defaults to its
// nearest enclosing unnested array; an explicit BindRoot choice forces root.
// A key selection that no longer matches the parent's leaves leaves KeyLeaf
// nil, which the emitter degrades to a generic string foreign-key column.
// Key choices predate generation and must never make it fail.
func Resolve(part *Partitioned, sel *Selection) []Relation {
	rels := make([]Relation, 0, len(part.Arrays))
	for _, g := range part.Arrays {
		rels = append(rels, resolveOne(g, part, sel))
	}
	return rels
}

func resolveOne(g *Group, part *Partitioned, sel *Selection) Relation {
	if parent := immediateParent(g.Path, part); parent != "" && sel.Binding(g.Path) != BindRoot {
		keyPath := sel.Key(parent)
		return Relation{
			Child:      g.Path,
			Parent:     ParentArray,
			ParentPath: parent,
			KeyPath:    keyPath,
			KeyLeaf:    findKey(part.Array(parent), keyPath),
		}
	}
	keyPath := sel.Key(RootGroup)
	return Relation{
		Child:   g.Path,
		Parent:  ParentRoot,
		KeyPath: keyPath,
		KeyLeaf: findKey(&part.Root, keyPath),
	}
}

// immediateParent returns the longest unnested array that strictly contains
// path, or "" when path hangs directly off the root.
func immediateParent(path string, part *Partitioned) string {
	best := ""
	for _, g := range part.Arrays {
		if Under(path, g.Path) && len(g.Path) > len(best) {
			best = g.Path
		}
	}
	return best
}

// findKey looks the chosen key up among the group's key-eligible leaves by
// exact path match. Arrays and records have no scalar representation and are
// never keys.
func findKey(g *Group, keyPath string) *Leaf {
	if g == nil || keyPath == "" {
		return nil
	}
	for i := range g.Leaves {
		if g.Leaves[i].Path == keyPath && g.Leaves[i].Scalar() {
			return &g.Leaves[i]
		}
	}
	return nil
}

// KeyCandidates lists the leaves of a group that may serve as its natural
// key, in column order.
func KeyCandidates(g *Group) []Leaf {
	var out []Leaf
	for _, l := range g.Leaves {
		if l.Scalar() {
			out = append(out, l)
		}
	}
	return out
}
