package flatten

import "testing"

func resolveFor(t *testing.T, sel *Selection) map[string]Relation {
	t.Helper()
	leaves := Walk(orderSchema(), sel.Unnest)
	part := Partition(leaves, sel.Unnest)
	rels := Resolve(part, sel)

	byChild := make(map[string]Relation, len(rels))
	for _, r := range rels {
		byChild[r.Child] = r
	}
	return byChild
}

func TestResolveTopLevelArrayBindsToRoot(t *testing.T) {
	sel := &Selection{
		Unnest:      NewPolicy("items"),
		NaturalKeys: map[string]string{RootGroup: "order_id"},
	}
	rels := resolveFor(t, sel)

	r := rels["items"]
	if r.Parent != ParentRoot {
		t.Fatalf("items parent = %v, want root", r.Parent)
	}
	if r.KeyPath != "order_id" || r.KeyLeaf == nil {
		t.Errorf("items key = %q (leaf %v), want resolved order_id", r.KeyPath, r.KeyLeaf)
	}
}

func TestResolveNestedArrayBindsToEnclosingArray(t *testing.T) {
	sel := &Selection{
		Unnest: NewPolicy("items", "items[].item.discounts"),
		NaturalKeys: map[string]string{
			RootGroup: "order_id",
			"items":   "items[].item.sku",
		},
	}
	rels := resolveFor(t, sel)

	r := rels["items[].item.discounts"]
	if r.Parent != ParentArray || r.ParentPath != "items" {
		t.Fatalf("discounts parent = %v %q, want the items array", r.Parent, r.ParentPath)
	}
	if r.KeyPath != "items[].item.sku" || r.KeyLeaf == nil {
		t.Errorf("discounts key = %q (leaf %v), want the parent's sku key", r.KeyPath, r.KeyLeaf)
	}
}

func TestResolveExplicitRootOverride(t *testing.T) {
	sel := &Selection{
		Unnest: NewPolicy("items", "items[].item.discounts"),
		NaturalKeys: map[string]string{
			RootGroup: "order_id",
			"items":   "items[].item.sku",
		},
		Relations: map[string]Binding{"items[].item.discounts": BindRoot},
	}
	rels := resolveFor(t, sel)

	r := rels["items[].item.discounts"]
	if r.Parent != ParentRoot {
		t.Fatalf("explicit root override ignored, parent = %v %q", r.Parent, r.ParentPath)
	}
	if r.KeyPath != "order_id" {
		t.Errorf("override key = %q, want root's order_id", r.KeyPath)
	}
}

func TestResolveStaleKeyFallsBack(t *testing.T) {
	tests := []struct {
		name string
		keys map[string]string
	}{
		{"no key chosen", nil},
		{"key path no longer exists", map[string]string{RootGroup: "legacy_id"}},
		{"key points at a non-scalar leaf", map[string]string{RootGroup: "tags"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := &Selection{Unnest: NewPolicy("items"), NaturalKeys: tt.keys}
			rels := resolveFor(t, sel)

			r := rels["items"]
			if r.Parent != ParentRoot {
				t.Fatalf("items parent = %v, want root", r.Parent)
			}
			if r.KeyLeaf != nil {
				t.Errorf("stale key resolved to leaf %v, want nil for generic fallback", r.KeyLeaf)
			}
		})
	}
}

func TestResolveImmediateParentIsDeepest(t *testing.T) {
	// With three levels selected, the innermost binds to the middle one,
	// not to the outermost.
	sel := &Selection{
		Unnest: NewPolicy("items", "items[].item.discounts"),
	}
	part := Partition(Walk(orderSchema(), sel.Unnest), sel.Unnest)

	if got := immediateParent("items[].item.discounts", part); got != "items" {
		t.Errorf("immediateParent = %q, want items", got)
	}
	if got := immediateParent("items", part); got != "" {
		t.Errorf("immediateParent of top-level array = %q, want none", got)
	}
}

func TestKeyCandidatesExcludeArraysAndRecords(t *testing.T) {
	policy := NewPolicy("items")
	part := Partition(Walk(orderSchema(), policy), policy)

	for _, leaf := range KeyCandidates(&part.Root) {
		if !leaf.Scalar() {
			t.Errorf("non-scalar leaf %s offered as key candidate", leaf.Path)
		}
	}
	// The items group holds sku, qty and the unexpanded discounts array;
	// only the scalars qualify.
	got := KeyCandidates(part.Array("items"))
	if len(got) != 2 || got[0].Path != "items[].item.sku" || got[1].Path != "items[].item.qty" {
		t.Errorf("items candidates = %v, want sku and qty", leafPaths(got))
	}
}
