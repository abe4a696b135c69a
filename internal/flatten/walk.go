package flatten

import "github.com/perbu/avroflat/internal/avro"

// Walk flattens a record schema into its leaf fields, in declared order,
// depth-first. Record fields are transparent and always recursed into. An
// array field is expanded into its item type only when its path is in the
// unnest policy; otherwise it becomes a single leaf of kind array. A union
// resolves to its first non-null branch and marks the result optional; a
// union with only null branches falls back to its first branch and stays
// non-optional. Branches past the first non-null one are dropped.
//
// Each call returns a freshly built slice; nothing is shared or mutated
// across invocations.
func Walk(rec *avro.Record, policy Policy) []Leaf {
	return walkRecord(rec, "", policy)
}

func walkRecord(rec *avro.Record, prefix string, policy Policy) []Leaf {
	var leaves []Leaf
	for _, f := range rec.Fields {
		leaves = append(leaves, walkType(f.Type, ChildPath(prefix, f.Name), f.Doc, false, policy)...)
	}
	return leaves
}

// walkType handles one field or array-item position. The optional flag is
// threaded in so that unwrapping a union keeps the field's documentation
// attached to whatever leaf the branch produces.
func walkType(node avro.Node, path, doc string, optional bool, policy Policy) []Leaf {
	switch t := node.(type) {
	case *avro.Union:
		branch, opt := unwrapUnion(t)
		return walkType(branch, path, doc, opt, policy)
	case *avro.Record:
		return walkRecord(t, path, policy)
	case *avro.Array:
		if policy.Has(path) {
			return walkType(t.Items, ItemPath(path), doc, false, policy)
		}
		return []Leaf{{Path: path, Kind: LeafArray, Doc: doc, Optional: optional}}
	case *avro.Enum:
		return []Leaf{{Path: path, Kind: LeafEnum, Symbols: t.Symbols, Doc: doc, Optional: optional}}
	case *avro.Primitive:
		return []Leaf{{
			Path:        path,
			Kind:        LeafPrimitive,
			Type:        t.Type,
			LogicalType: t.LogicalType,
			Doc:         doc,
			Optional:    optional,
		}}
	default:
		return nil
	}
}

// unwrapUnion picks the effective type of a union: the first non-null
// branch, marked optional, or the first branch (not optional) when every
// branch is null.
func unwrapUnion(u *avro.Union) (avro.Node, bool) {
	for _, b := range u.Branches {
		if !avro.IsNull(b) {
			return b, true
		}
	}
	return u.Branches[0], false
}
