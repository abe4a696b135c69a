package table

// Role classifies why a column is part of a table.
type Role int

const (
	RoleData Role = iota
	RoleCommon
	RoleNaturalKey
	RoleForeignKey
)

func (r Role) String() string {
	switch r {
	case RoleCommon:
		return "common"
	case RoleNaturalKey:
		return "natural-key"
	case RoleForeignKey:
		return "foreign-key"
	default:
		return "data"
	}
}

// Column represents one emitted table column.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Comment  string
	Role     Role
}

// Table represents one emitted table.
type Table struct {
	Name       string
	SourcePath string // array field path the table was derived from; "" for root
	Columns    []Column

	// Parent linkage, set on array tables only.
	ParentTable string
	ForeignKey  string // column duplicated from the parent's natural key
	NaturalKey  string // this table's own key column, when one is chosen
}

// Catalog is one full generation result: the root table plus one child table
// per unnested array, in deterministic order. Catalogs are recomputed from
// scratch on every generation pass and carry no state across passes.
type Catalog struct {
	Dialect  Dialect
	Root     Table
	Children []Table
}

// Tables returns every table, root first.
func (c *Catalog) Tables() []Table {
	out := make([]Table, 0, len(c.Children)+1)
	out = append(out, c.Root)
	return append(out, c.Children...)
}

// Child returns the table generated for an array path, or nil.
func (c *Catalog) Child(path string) *Table {
	for i := range c.Children {
		if c.Children[i].SourcePath == path {
			return &c.Children[i]
		}
	}
	return nil
}
