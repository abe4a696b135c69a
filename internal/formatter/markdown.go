package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/perbu/avroflat/internal/table"
)

// MarkdownFormatter formats a catalog as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the catalog in markdown format
func (f *MarkdownFormatter) Format(cat *table.Catalog) error {
	_, _ = fmt.Fprintln(f.writer, "# Generated Tables")
	_, _ = fmt.Fprintln(f.writer)

	for _, t := range cat.Tables() {
		if err := f.FormatTable(t); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(t table.Table) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", t.Name)

	if t.SourcePath != "" {
		_, _ = fmt.Fprintf(f.writer, "Derived from array field `%s`.\n\n", t.SourcePath)
	}

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)
	for _, col := range t.Columns {
		annotations := f.formatAnnotations(col)
		if annotations != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, col.Type, annotations)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, col.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	if t.ParentTable != "" {
		_, _ = fmt.Fprintln(f.writer, "### References")
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s\n", t.ForeignKey, t.ParentTable, t.ForeignKey)
		_, _ = fmt.Fprintln(f.writer)
	}
	return nil
}

func (f *MarkdownFormatter) formatAnnotations(col table.Column) string {
	var parts []string

	switch col.Role {
	case table.RoleNaturalKey:
		parts = append(parts, "natural key")
	case table.RoleForeignKey:
		parts = append(parts, "FK")
	case table.RoleCommon:
		parts = append(parts, "common")
	}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}

	if col.Comment != "" {
		parts = append(parts, col.Comment)
	}

	return strings.Join(parts, ", ")
}
