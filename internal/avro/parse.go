package avro

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes an Avro schema document (.avsc JSON) into a schema tree.
// The top-level type must be a record. Named records and enums may be
// referenced by name (or namespace-qualified name) after their definition.
// A reference to a record that is still being defined (a recursive schema)
// degrades to an opaque string leaf so the tree stays acyclic.
func Parse(data []byte) (*Record, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}
	p := &parser{
		named:    make(map[string]Node),
		defining: make(map[string]struct{}),
	}
	node, err := p.parse(raw)
	if err != nil {
		return nil, err
	}
	rec, ok := node.(*Record)
	if !ok {
		return nil, fmt.Errorf("top-level schema must be a record")
	}
	return rec, nil
}

// ParseFile reads and parses a schema file.
func ParseFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rec, nil
}

type parser struct {
	named    map[string]Node     // records and enums by name, for later references
	defining map[string]struct{} // names whose definition is still being parsed
}

func (p *parser) parse(raw any) (Node, error) {
	switch v := raw.(type) {
	case string:
		if _, busy := p.defining[v]; busy {
			// A reference into an in-progress definition would make the
			// tree cyclic. Keep the column, drop the nesting.
			return &Primitive{Type: "string"}, nil
		}
		if n, ok := p.named[v]; ok {
			return n, nil
		}
		// Bare names that are not known named types are primitive tags.
		return &Primitive{Type: v}, nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("union with no branches")
		}
		branches := make([]Node, 0, len(v))
		for _, b := range v {
			n, err := p.parse(b)
			if err != nil {
				return nil, err
			}
			branches = append(branches, n)
		}
		return &Union{Branches: branches}, nil
	case map[string]any:
		return p.parseObject(v)
	default:
		return nil, fmt.Errorf("unsupported schema element of type %T", raw)
	}
}

func (p *parser) parseObject(obj map[string]any) (Node, error) {
	typ, _ := obj["type"].(string)
	switch typ {
	case "record", "error":
		return p.parseRecord(obj)
	case "array":
		items, ok := obj["items"]
		if !ok {
			return nil, fmt.Errorf("array schema missing items")
		}
		itemType, err := p.parse(items)
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		return &Array{Items: itemType}, nil
	case "enum":
		return p.parseEnum(obj)
	case "":
		return nil, fmt.Errorf("schema element missing type")
	default:
		return &Primitive{
			Type:        typ,
			LogicalType: stringAttr(obj, "logicalType"),
		}, nil
	}
}

func (p *parser) parseRecord(obj map[string]any) (*Record, error) {
	rec := &Record{
		Name: stringAttr(obj, "name"),
		Doc:  stringAttr(obj, "doc"),
	}
	// Register before parsing fields so later references resolve, and mark
	// the record in progress so a self-reference cannot form a cycle.
	namespace := stringAttr(obj, "namespace")
	p.register(rec.Name, namespace, rec)
	p.markDefining(rec.Name, namespace)
	defer p.unmarkDefining(rec.Name, namespace)

	rawFields, ok := obj["fields"].([]any)
	if !ok {
		return nil, fmt.Errorf("record %s: missing fields", rec.Name)
	}
	for _, rf := range rawFields {
		fobj, ok := rf.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %s: malformed field entry", rec.Name)
		}
		name := stringAttr(fobj, "name")
		if name == "" {
			return nil, fmt.Errorf("record %s: field missing name", rec.Name)
		}
		ftype, err := p.parse(fobj["type"])
		if err != nil {
			return nil, fmt.Errorf("record %s field %s: %w", rec.Name, name, err)
		}
		rec.Fields = append(rec.Fields, Field{
			Name: name,
			Doc:  stringAttr(fobj, "doc"),
			Type: ftype,
		})
	}
	return rec, nil
}

func (p *parser) parseEnum(obj map[string]any) (*Enum, error) {
	e := &Enum{Name: stringAttr(obj, "name")}
	rawSymbols, ok := obj["symbols"].([]any)
	if !ok {
		return nil, fmt.Errorf("enum %s: missing symbols", e.Name)
	}
	for _, s := range rawSymbols {
		sym, ok := s.(string)
		if !ok {
			return nil, fmt.Errorf("enum %s: non-string symbol", e.Name)
		}
		e.Symbols = append(e.Symbols, sym)
	}
	p.register(e.Name, stringAttr(obj, "namespace"), e)
	return e, nil
}

func (p *parser) register(name, namespace string, n Node) {
	if name == "" {
		return
	}
	p.named[name] = n
	if namespace != "" {
		p.named[namespace+"."+name] = n
	}
}

func (p *parser) markDefining(name, namespace string) {
	if name == "" {
		return
	}
	p.defining[name] = struct{}{}
	if namespace != "" {
		p.defining[namespace+"."+name] = struct{}{}
	}
}

func (p *parser) unmarkDefining(name, namespace string) {
	delete(p.defining, name)
	if namespace != "" {
		delete(p.defining, namespace+"."+name)
	}
}

func stringAttr(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
