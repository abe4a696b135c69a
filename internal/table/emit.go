package table

import (
	"fmt"

	"github.com/perbu/avroflat/internal/flatten"
)

// CommonField is a caller-supplied column prepended to every table. Name and
// type are passed through unvalidated; escaping is the formatter's problem.
type CommonField struct {
	Name string
	Type string
}

// Emitter turns partitioned field groups and resolved relationships into
// table descriptions.
type Emitter struct {
	RootName string
	Dialect  Dialect
	Common   []CommonField
}

// Catalog emits the root table and one child table per array group, in the
// partition's order.
func (e *Emitter) Catalog(part *flatten.Partitioned, rels []flatten.Relation, sel *flatten.Selection) *Catalog {
	relByChild := make(map[string]flatten.Relation, len(rels))
	for _, r := range rels {
		relByChild[r.Child] = r
	}

	cat := &Catalog{Dialect: e.Dialect, Root: e.rootTable(&part.Root, sel)}
	for _, g := range part.Arrays {
		cat.Children = append(cat.Children, e.arrayTable(g, relByChild[g.Path], sel))
	}
	return cat
}

// rootTable emits the root group. Its natural key keeps its declared column
// position; only the role marks it.
func (e *Emitter) rootTable(g *flatten.Group, sel *flatten.Selection) Table {
	t := Table{Name: e.RootName}
	t.Columns = e.commonColumns()

	keyPath := sel.Key(flatten.RootGroup)
	for _, leaf := range g.Leaves {
		col := e.leafColumn(leaf, leaf.Path)
		if leaf.Path == keyPath && leaf.Scalar() {
			col.Role = RoleNaturalKey
			col.Nullable = false
			t.NaturalKey = col.Name
		}
		t.Columns = append(t.Columns, col)
	}
	t.Columns = dedupe(t.Columns)
	return t
}

// arrayTable emits one array group: common fields, then the parent foreign
// key, then the group's own natural key, then the remaining leaves minus the
// key leaf.
func (e *Emitter) arrayTable(g *flatten.Group, rel flatten.Relation, sel *flatten.Selection) Table {
	t := Table{
		Name:       e.childName(g.Path),
		SourcePath: g.Path,
	}
	t.Columns = e.commonColumns()

	fk := e.foreignKeyColumn(rel)
	t.ParentTable = e.parentName(rel)
	t.ForeignKey = fk.Name
	t.Columns = append(t.Columns, fk)

	keyPath := sel.Key(g.Path)
	if keyLeaf := findScalar(g, keyPath); keyLeaf != nil {
		col := e.leafColumn(*keyLeaf, flatten.RelativePath(keyLeaf.Path, g.Path))
		col.Role = RoleNaturalKey
		col.Nullable = false
		col.Comment = "Natural key for this array"
		t.NaturalKey = col.Name
		t.Columns = append(t.Columns, col)
	} else {
		keyPath = "" // stale or absent selection: emit every leaf as data
	}

	for _, leaf := range g.Leaves {
		if leaf.Path == keyPath {
			continue
		}
		t.Columns = append(t.Columns, e.leafColumn(leaf, flatten.RelativePath(leaf.Path, g.Path)))
	}
	t.Columns = dedupe(t.Columns)
	return t
}

// foreignKeyColumn duplicates the parent's natural key into the child. When
// the key leaf is missing (stale selection) the column degrades to the
// dialect's generic string key type instead of failing the pass.
func (e *Emitter) foreignKeyColumn(rel flatten.Relation) Column {
	parent := e.parentName(rel)
	col := Column{
		Type:     e.Dialect.FallbackKeyType(),
		Nullable: false,
		Comment:  fmt.Sprintf("Foreign key to %s", parent),
		Role:     RoleForeignKey,
	}
	switch {
	case rel.KeyPath == "":
		col.Name = parent + "_key"
	case rel.Parent == flatten.ParentArray:
		col.Name = flatten.ColumnName(flatten.RelativePath(rel.KeyPath, rel.ParentPath))
	default:
		col.Name = flatten.ColumnName(rel.KeyPath)
	}
	if rel.KeyLeaf != nil {
		col.Type = e.Dialect.ColumnType(*rel.KeyLeaf)
	}
	return col
}

func (e *Emitter) parentName(rel flatten.Relation) string {
	if rel.Parent == flatten.ParentArray {
		return e.childName(rel.ParentPath)
	}
	return e.RootName
}

func (e *Emitter) childName(arrayPath string) string {
	return e.RootName + "_" + flatten.ColumnName(arrayPath)
}

func (e *Emitter) commonColumns() []Column {
	cols := make([]Column, 0, len(e.Common))
	for _, cf := range e.Common {
		cols = append(cols, Column{Name: cf.Name, Type: cf.Type, Nullable: true, Role: RoleCommon})
	}
	return cols
}

// leafColumn emits a single leaf. Arrays and records that survived the walk
// are kept as one serialized-text column; everything else maps through the
// dialect type table.
func (e *Emitter) leafColumn(leaf flatten.Leaf, namePath string) Column {
	name := flatten.ColumnName(namePath)
	switch leaf.Kind {
	case flatten.LeafArray:
		return Column{
			Name:     name + "_json",
			Type:     e.Dialect.TextType(),
			Nullable: true,
			Comment:  blobComment("JSON array", leaf.Doc),
			Role:     RoleData,
		}
	case flatten.LeafRecord:
		return Column{
			Name:     name + "_json",
			Type:     e.Dialect.TextType(),
			Nullable: true,
			Comment:  blobComment("JSON object", leaf.Doc),
			Role:     RoleData,
		}
	default:
		return Column{
			Name:     name,
			Type:     e.Dialect.ColumnType(leaf),
			Nullable: leaf.Optional,
			Comment:  leaf.Doc,
			Role:     RoleData,
		}
	}
}

func blobComment(kind, doc string) string {
	if doc == "" {
		return kind
	}
	return kind + ": " + doc
}

func findScalar(g *flatten.Group, keyPath string) *flatten.Leaf {
	if keyPath == "" {
		return nil
	}
	for i := range g.Leaves {
		if g.Leaves[i].Path == keyPath && g.Leaves[i].Scalar() {
			return &g.Leaves[i]
		}
	}
	return nil
}

// dedupe makes column names unique after normalization. Distinct field paths
// can collapse to one identifier; later columns get a numeric suffix so
// neither silently overwrites the other. Suffixed names are registered and
// re-checked, so a rename cannot collide with a column emitted under that
// name itself.
func dedupe(cols []Column) []Column {
	seen := make(map[string]bool, len(cols))
	for i := range cols {
		name := cols[i].Name
		if !seen[name] {
			seen[name] = true
			continue
		}
		n := 2
		for seen[fmt.Sprintf("%s_%d", name, n)] {
			n++
		}
		cols[i].Name = fmt.Sprintf("%s_%d", name, n)
		seen[cols[i].Name] = true
	}
	return cols
}
