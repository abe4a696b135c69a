package flatten

import "github.com/perbu/avroflat/internal/avro"

// Arrays lists every array field path reachable under the current unnest
// policy, in declared order. Every array encountered is reported, but its
// items are only descended into once the array itself is a policy member.
// Nested arrays therefore surface one level at a time as the caller widens
// the policy, outside-in.
func Arrays(rec *avro.Record, policy Policy) []string {
	return discoverRecord(rec, "", policy)
}

func discoverRecord(rec *avro.Record, prefix string, policy Policy) []string {
	var paths []string
	for _, f := range rec.Fields {
		paths = append(paths, discoverType(f.Type, ChildPath(prefix, f.Name), policy)...)
	}
	return paths
}

func discoverType(node avro.Node, path string, policy Policy) []string {
	switch t := node.(type) {
	case *avro.Union:
		branch, _ := unwrapUnion(t)
		return discoverType(branch, path, policy)
	case *avro.Record:
		return discoverRecord(t, path, policy)
	case *avro.Array:
		paths := []string{path}
		if policy.Has(path) {
			paths = append(paths, discoverType(t.Items, ItemPath(path), policy)...)
		}
		return paths
	default:
		return nil
	}
}
