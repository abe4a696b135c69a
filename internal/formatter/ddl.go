package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/perbu/avroflat/internal/table"
)

// DDLFormatter writes CREATE TABLE statements for a catalog, root table
// first.
type DDLFormatter struct {
	writer io.Writer
}

// NewDDLFormatter creates a new DDL formatter.
func NewDDLFormatter(w io.Writer) *DDLFormatter {
	return &DDLFormatter{writer: w}
}

// Format writes one statement per table, separated by blank lines.
func (f *DDLFormatter) Format(cat *table.Catalog) error {
	for i, t := range cat.Tables() {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(f.writer, "%s;\n", Statement(t, cat.Dialect)); err != nil {
			return err
		}
	}
	return nil
}

// Statement renders one CREATE TABLE statement without the trailing
// semicolon. Hive and MySQL take inline COMMENT clauses; postgres and sqlite
// get trailing line comments so the statement stays executable.
func Statement(t table.Table, d table.Dialect) string {
	inline := d == table.DialectHive || d == table.DialectMySQL

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.Name)
	for i, col := range t.Columns {
		line := "  " + col.Name + " " + col.Type
		if !col.Nullable && d != table.DialectHive {
			line += " NOT NULL"
		}
		if inline && col.Comment != "" {
			line += fmt.Sprintf(" COMMENT '%s'", escapeComment(col.Comment))
		}
		if i < len(t.Columns)-1 {
			line += ","
		}
		if !inline && col.Comment != "" {
			line += " -- " + oneLine(col.Comment)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// escapeComment keeps verbatim documentation from breaking the quoted
// COMMENT clause.
func escapeComment(s string) string {
	return strings.ReplaceAll(oneLine(s), "'", "''")
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
