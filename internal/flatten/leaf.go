package flatten

// LeafKind classifies what a walker leaf represents.
type LeafKind int

const (
	LeafPrimitive LeafKind = iota
	LeafEnum
	LeafArray
	LeafRecord
)

func (k LeafKind) String() string {
	switch k {
	case LeafPrimitive:
		return "primitive"
	case LeafEnum:
		return "enum"
	case LeafArray:
		return "array"
	case LeafRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Leaf is one terminal decision point of the schema walk: a primitive or
// enum field, or an array left unexpanded. Its Path is the stable identity
// used throughout the pipeline.
type Leaf struct {
	Path        string
	Kind        LeafKind
	Type        string   // primitive base type tag
	LogicalType string   // optional refinement, e.g. timestamp-millis
	Symbols     []string // enum symbols
	Doc         string
	Optional    bool
}

// Scalar reports whether the leaf has a single-value representation and may
// therefore serve as a natural key. Arrays and records may not.
func (l Leaf) Scalar() bool {
	return l.Kind == LeafPrimitive || l.Kind == LeafEnum
}
