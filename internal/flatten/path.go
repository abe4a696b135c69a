package flatten

import (
	"regexp"
	"strings"
)

// ArrayMarker is the reserved segment appended to a field path when
// traversal descends into the items of an unnested array. ColumnName strips
// it again, so it never leaks into emitted identifiers.
const ArrayMarker = "[].item"

// PathSep joins ancestor field names into a FieldPath.
const PathSep = "."

var (
	markerRe  = regexp.MustCompile(`\[\]\.item`)
	camelRe   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	badCharRe = regexp.MustCompile(`[^a-z0-9_]`)
)

// ColumnName derives a SQL-safe identifier from a field path: array markers
// are dropped, camelCase boundaries become underscores, path separators
// become underscores, and anything outside [a-z0-9_] is removed. Distinct
// paths can collapse to the same identifier; the emitter deduplicates.
func ColumnName(path string) string {
	s := markerRe.ReplaceAllString(path, "")
	s = camelRe.ReplaceAllString(s, "${1}_${2}")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, PathSep, "_")
	return badCharRe.ReplaceAllString(s, "")
}

// ChildPath extends a field path with one more field name.
func ChildPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + PathSep + name
}

// ItemPath is the path of an unnested array's item position.
func ItemPath(arrayPath string) string {
	return arrayPath + ArrayMarker
}

// Under reports whether path lies strictly inside the items of arrayPath.
func Under(path, arrayPath string) bool {
	return path != arrayPath && strings.HasPrefix(path, ItemPath(arrayPath))
}

// RelativePath strips the owning array's prefix from a leaf path so that
// columns of a child table do not repeat the table's own path. A leaf that
// sits exactly on the item position (an array of scalars) takes the array's
// own field name.
func RelativePath(leafPath, arrayPath string) string {
	if prefix := ItemPath(arrayPath) + PathSep; strings.HasPrefix(leafPath, prefix) {
		return strings.TrimPrefix(leafPath, prefix)
	}
	if leafPath == ItemPath(arrayPath) {
		return lastSegment(arrayPath)
	}
	return leafPath
}

func lastSegment(path string) string {
	s := markerRe.ReplaceAllString(path, "")
	if i := strings.LastIndex(s, PathSep); i >= 0 {
		return s[i+1:]
	}
	return s
}
