package avro

// Node is the closed set of schema constructs the flattener understands.
// Adding a construct means adding a variant here and handling it in every
// type switch over Node, which the compiler points out.
type Node interface{ node() }

// Record is a named, ordered collection of fields.
type Record struct {
	Name   string
	Doc    string
	Fields []Field
}

// Field is one named slot of a record.
type Field struct {
	Name string
	Doc  string
	Type Node
}

// Array holds a single item type.
type Array struct {
	Items Node
}

// Union is a choice between branch types. The pipeline reduces it to its
// first non-null branch and an optionality flag.
type Union struct {
	Branches []Node
}

// Enum carries an ordered set of symbol names.
type Enum struct {
	Name    string
	Symbols []string
}

// Primitive carries a base type tag (string, int, long, ...) and an optional
// logical type refinement such as timestamp-millis. Unrecognized tags are
// legal and map to a generic string type when emitted.
type Primitive struct {
	Type        string
	LogicalType string
}

func (*Record) node()    {}
func (*Array) node()     {}
func (*Union) node()     {}
func (*Enum) node()      {}
func (*Primitive) node() {}

// IsNull reports whether the node is the Avro null primitive.
func IsNull(n Node) bool {
	p, ok := n.(*Primitive)
	return ok && p.Type == "null"
}
