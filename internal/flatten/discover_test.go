package flatten

import (
	"reflect"
	"testing"
)

func TestArraysIncrementalDiscovery(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   []string
	}{
		{
			name:   "only top-level arrays visible at first",
			policy: NewPolicy(),
			want:   []string{"items", "tags"},
		},
		{
			name:   "selecting items reveals the nested array",
			policy: NewPolicy("items"),
			want:   []string{"items", "items[].item.discounts", "tags"},
		},
		{
			name:   "selected arrays stay listed",
			policy: NewPolicy("items", "items[].item.discounts", "tags"),
			want:   []string{"items", "items[].item.discounts", "tags"},
		},
		{
			name:   "selecting the inner path alone reveals nothing extra",
			policy: NewPolicy("items[].item.discounts"),
			want:   []string{"items", "tags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Arrays(orderSchema(), tt.policy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Arrays = %v, want %v", got, tt.want)
			}
		})
	}
}

// Widening the policy may only add discovered paths, never remove them.
func TestArraysMonotonic(t *testing.T) {
	narrow := Arrays(orderSchema(), NewPolicy())
	wide := Arrays(orderSchema(), NewPolicy("items", "tags"))

	seen := make(map[string]bool, len(wide))
	for _, p := range wide {
		seen[p] = true
	}
	for _, p := range narrow {
		if !seen[p] {
			t.Errorf("path %s disappeared when the policy widened", p)
		}
	}
}
