package avroflat

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

const orderAvsc = `{
  "type": "record",
  "name": "Order",
  "fields": [
    {"name": "order_id", "type": "string"},
    {"name": "items", "type": {"type": "array", "items": {
      "type": "record",
      "name": "Item",
      "fields": [
        {"name": "sku", "type": "string"},
        {"name": "qty", "type": "int"},
        {"name": "discounts", "type": {"type": "array", "items": {
          "type": "record",
          "name": "Discount",
          "fields": [
            {"name": "code", "type": "string"},
            {"name": "pct", "type": "double"}
          ]
        }}}
      ]
    }}}
  ]
}`

func TestGenerateUnnestedItems(t *testing.T) {
	rec, err := ParseSchema([]byte(orderAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	cat, err := Generate(rec, &Options{
		Unnest: []string{"items"},
		NaturalKeys: map[string]string{
			"root":  "order_id",
			"items": "items[].item.sku",
		},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if cat.Root.Name != "order" {
		t.Errorf("root table name = %q, want order (derived from record name)", cat.Root.Name)
	}
	if len(cat.Root.Columns) != 1 || cat.Root.Columns[0].Name != "order_id" {
		t.Errorf("root columns = %v, want only order_id", cat.Root.Columns)
	}

	child := cat.Child("items")
	if child == nil {
		t.Fatal("no child table for items")
	}
	var names []string
	for _, c := range child.Columns {
		names = append(names, c.Name)
	}
	// discounts stays a serialized column because it was not unnested.
	want := []string{"order_id", "sku", "qty", "discounts_json"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("child columns = %v, want %v", names, want)
	}
}

func TestGenerateNothingUnnested(t *testing.T) {
	rec, err := ParseSchema([]byte(orderAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	cat, err := Generate(rec, &Options{NaturalKeys: map[string]string{"root": "order_id"}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(cat.Children) != 0 {
		t.Fatalf("got %d child tables, want none", len(cat.Children))
	}
	var names []string
	for _, c := range cat.Root.Columns {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"order_id", "items_json"}) {
		t.Errorf("root columns = %v, want [order_id items_json]", names)
	}
}

func TestGenerateNestedArrays(t *testing.T) {
	rec, err := ParseSchema([]byte(orderAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	opts := &Options{
		Unnest: []string{"items", "items[].item.discounts"},
		NaturalKeys: map[string]string{
			"root":  "order_id",
			"items": "items[].item.sku",
		},
	}

	// Discovery after selecting only the outer array must reveal the inner one.
	visible := DiscoverArrays(rec, &Options{Unnest: []string{"items"}})
	if !reflect.DeepEqual(visible, []string{"items", "items[].item.discounts"}) {
		t.Fatalf("DiscoverArrays = %v", visible)
	}

	cat, err := Generate(rec, opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	discounts := cat.Child("items[].item.discounts")
	if discounts == nil {
		t.Fatal("no table for the nested array")
	}
	if discounts.ParentTable != "order_items" || discounts.ForeignKey != "sku" {
		t.Errorf("nested table binds to %s.%s, want order_items.sku", discounts.ParentTable, discounts.ForeignKey)
	}

	// Explicit override re-binds the nested array to root.
	opts.Relations = map[string]string{"items[].item.discounts": "root"}
	cat, err = Generate(rec, opts)
	if err != nil {
		t.Fatalf("Generate with override failed: %v", err)
	}
	discounts = cat.Child("items[].item.discounts")
	if discounts.ParentTable != "order" || discounts.ForeignKey != "order_id" {
		t.Errorf("override binds to %s.%s, want order.order_id", discounts.ParentTable, discounts.ForeignKey)
	}
}

// A self-referential schema must flatten to a finite catalog; the recursive
// branch becomes one opaque column instead of endless nesting.
func TestGenerateSelfReferencingSchema(t *testing.T) {
	const linkedAvsc = `{
	  "type": "record",
	  "name": "Node",
	  "fields": [
	    {"name": "value", "type": "string"},
	    {"name": "next", "type": ["null", "Node"]}
	  ]
	}`
	rec, err := ParseSchema([]byte(linkedAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	cat, err := Generate(rec, &Options{NaturalKeys: map[string]string{"root": "value"}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var names []string
	for _, c := range cat.Root.Columns {
		names = append(names, c.Name)
		if c.Name == "next" && c.Type != "VARCHAR(255)" {
			t.Errorf("recursive column type = %q, want the generic string type", c.Type)
		}
	}
	if !reflect.DeepEqual(names, []string{"value", "next"}) {
		t.Errorf("root columns = %v, want [value next]", names)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	rec, err := ParseSchema([]byte(orderAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	opts := &Options{
		Unnest: []string{"items", "items[].item.discounts"},
		NaturalKeys: map[string]string{
			"root":  "order_id",
			"items": "items[].item.sku",
		},
		CommonFields: nil,
	}

	render := func() string {
		cat, err := Generate(rec, opts)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		var buf bytes.Buffer
		if err := FormatCatalog(cat, &OutputOptions{Writer: &buf}); err != nil {
			t.Fatalf("FormatCatalog failed: %v", err)
		}
		return buf.String()
	}

	first, second := render(), render()
	if first != second {
		t.Errorf("repeated generation differs:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestGenerateRejectsUnknownDialect(t *testing.T) {
	rec, err := ParseSchema([]byte(orderAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if _, err := Generate(rec, &Options{Dialect: "teradata"}); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestKeyCandidates(t *testing.T) {
	rec, err := ParseSchema([]byte(orderAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	cands := KeyCandidates(rec, &Options{Unnest: []string{"items"}})
	if !reflect.DeepEqual(cands["root"], []string{"order_id"}) {
		t.Errorf("root candidates = %v", cands["root"])
	}
	// discounts is an unexpanded array: not key-eligible.
	if !reflect.DeepEqual(cands["items"], []string{"items[].item.sku", "items[].item.qty"}) {
		t.Errorf("items candidates = %v", cands["items"])
	}
}

func TestFormatCatalogFormats(t *testing.T) {
	rec, err := ParseSchema([]byte(orderAvsc))
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	cat, err := Generate(rec, &Options{
		Unnest:      []string{"items"},
		NaturalKeys: map[string]string{"root": "order_id", "items": "items[].item.sku"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		format string
		want   string
	}{
		{"ddl", "CREATE TABLE order_items ("},
		{"markdown", "## order_items"},
		{"tree", "└── order_items (order_id → order.order_id)"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := FormatCatalog(cat, &OutputOptions{Writer: &buf, Format: tt.format}); err != nil {
				t.Fatalf("FormatCatalog failed: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("%s output missing %q:\n%s", tt.format, tt.want, buf.String())
			}
		})
	}

	var buf bytes.Buffer
	if err := FormatCatalog(cat, &OutputOptions{Writer: &buf, Format: "yaml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
