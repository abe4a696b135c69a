package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "selection.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
root_table: order
dialect: hive
unnest:
  - items
  - "items[].item.discounts"
natural_keys:
  root: order_id
  items: "items[].item.sku"
relations:
  "items[].item.discounts": parent
common_fields:
  - name: etl_run_id
    type: STRING
  - name: etl_loaded_at
    type: TIMESTAMP
`)

	sel, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if sel.RootTable != "order" || sel.Dialect != "hive" {
		t.Errorf("header = %q/%q, want order/hive", sel.RootTable, sel.Dialect)
	}
	if len(sel.Unnest) != 2 || sel.Unnest[1] != "items[].item.discounts" {
		t.Errorf("unnest = %v", sel.Unnest)
	}
	if sel.NaturalKeys["items"] != "items[].item.sku" {
		t.Errorf("natural keys = %v", sel.NaturalKeys)
	}
	if sel.Relations["items[].item.discounts"] != "parent" {
		t.Errorf("relations = %v", sel.Relations)
	}
	if len(sel.CommonFields) != 2 || sel.CommonFields[0].Name != "etl_run_id" {
		t.Errorf("common fields = %v", sel.CommonFields)
	}
}

func TestLoadFileRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid relation value",
			content: "relations:\n  items: sideways\n",
		},
		{
			name:    "common field without type",
			content: "common_fields:\n  - name: run_id\n",
		},
		{
			name:    "not yaml",
			content: "{{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
