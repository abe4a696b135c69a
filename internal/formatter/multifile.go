package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/perbu/avroflat/internal/table"
)

// MultiFileFormatter writes one .sql file per table plus an _overview.md
// describing the hierarchy.
type MultiFileFormatter struct {
	OutputDir string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir string) *MultiFileFormatter {
	return &MultiFileFormatter{OutputDir: outputDir}
}

// Format writes the catalog to multiple files
func (f *MultiFileFormatter) Format(cat *table.Catalog) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(cat); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, t := range cat.Tables() {
		if err := f.writeTableFile(t, cat.Dialect); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", t.Name, err)
		}
	}
	return nil
}

func (f *MultiFileFormatter) writeOverview(cat *table.Catalog) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview.md"))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintf(file, "# Table Overview\n\n")
	_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>.sql`\n\n")
	_, _ = fmt.Fprintf(file, "## Hierarchy\n\n```\n")
	if err := NewTreeFormatter(file).Format(cat); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(file, "```\n\n## Tables\n\n")

	sorted := cat.Tables()
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	for _, t := range sorted {
		_, _ = fmt.Fprintf(file, "- **%s**", t.Name)
		if t.ParentTable != "" {
			_, _ = fmt.Fprintf(file, " (references: %s)", t.ParentTable)
		}
		_, _ = fmt.Fprintf(file, "\n")
	}
	return nil
}

func (f *MultiFileFormatter) writeTableFile(t table.Table, d table.Dialect) error {
	file, err := os.Create(filepath.Join(f.OutputDir, t.Name+".sql"))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintf(file, "%s;\n", Statement(t, d))
	return err
}
