package table

import (
	"fmt"

	"github.com/perbu/avroflat/internal/flatten"
)

// Dialect selects the target type vocabulary for emitted columns.
type Dialect string

const (
	DialectHive     Dialect = "hive"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect validates a dialect name; the empty string means Hive, the
// dialect of the analytical stores this tool was built for.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(name) {
	case "":
		return DialectHive, nil
	case DialectHive, DialectPostgres, DialectMySQL, DialectSQLite:
		return Dialect(name), nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s (must be hive, postgres, mysql, or sqlite)", name)
	}
}

// Per-dialect lookup tables keyed by Avro base type tag or logical type.
// Lookups that miss fall back to the dialect's generic string type, never to
// an error; schemas may carry tags this tool has not seen.
var (
	hiveTypes = map[string]string{
		"string":           "VARCHAR(255)",
		"int":              "INT",
		"long":             "BIGINT",
		"float":            "FLOAT",
		"double":           "DOUBLE",
		"boolean":          "BOOLEAN",
		"bytes":            "BINARY",
		"timestamp-millis": "TIMESTAMP",
		"timestamp-micros": "TIMESTAMP",
		"date":             "DATE",
		"time-millis":      "VARCHAR(30)",
		"enum":             "VARCHAR(100)",
	}
	postgresTypes = map[string]string{
		"string":           "VARCHAR(255)",
		"int":              "INTEGER",
		"long":             "BIGINT",
		"float":            "REAL",
		"double":           "DOUBLE PRECISION",
		"boolean":          "BOOLEAN",
		"bytes":            "BYTEA",
		"timestamp-millis": "TIMESTAMP",
		"timestamp-micros": "TIMESTAMP",
		"date":             "DATE",
		"time-millis":      "TIME",
		"enum":             "VARCHAR(100)",
	}
	mysqlTypes = map[string]string{
		"string":           "VARCHAR(255)",
		"int":              "INT",
		"long":             "BIGINT",
		"float":            "FLOAT",
		"double":           "DOUBLE",
		"boolean":          "BOOLEAN",
		"bytes":            "BLOB",
		"timestamp-millis": "DATETIME",
		"timestamp-micros": "DATETIME",
		"date":             "DATE",
		"time-millis":      "TIME",
		"enum":             "VARCHAR(100)",
	}
	sqliteTypes = map[string]string{
		"string":           "TEXT",
		"int":              "INTEGER",
		"long":             "INTEGER",
		"float":            "REAL",
		"double":           "REAL",
		"boolean":          "INTEGER",
		"bytes":            "BLOB",
		"timestamp-millis": "TEXT",
		"timestamp-micros": "TEXT",
		"date":             "TEXT",
		"time-millis":      "TEXT",
		"enum":             "TEXT",
	}
)

func (d Dialect) types() map[string]string {
	switch d {
	case DialectPostgres:
		return postgresTypes
	case DialectMySQL:
		return mysqlTypes
	case DialectSQLite:
		return sqliteTypes
	default:
		return hiveTypes
	}
}

// TextType is the serialized-text column type used for arrays and records
// kept as opaque JSON blobs.
func (d Dialect) TextType() string {
	if d == DialectHive {
		return "STRING"
	}
	return "TEXT"
}

// FallbackKeyType is the generic foreign-key type used when the referenced
// key leaf cannot be found in the parent table.
func (d Dialect) FallbackKeyType() string {
	return "VARCHAR(255)"
}

// ColumnType maps a walker leaf to the dialect's column type. An enum maps
// through the enum entry, a logical type takes precedence over the base
// type, and anything unrecognized falls back to the generic string type.
func (d Dialect) ColumnType(leaf flatten.Leaf) string {
	types := d.types()
	if leaf.Kind == flatten.LeafEnum {
		return types["enum"]
	}
	if leaf.LogicalType != "" {
		if t, ok := types[leaf.LogicalType]; ok {
			return t
		}
		return d.TextType()
	}
	if t, ok := types[leaf.Type]; ok {
		return t
	}
	return d.TextType()
}
