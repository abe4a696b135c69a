package formatter

import (
	"fmt"
	"io"

	"github.com/perbu/avroflat/internal/table"
)

// TreeFormatter writes the parent/child table hierarchy as a text tree, with
// the foreign-key link annotated on each child.
type TreeFormatter struct {
	writer io.Writer
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(w io.Writer) *TreeFormatter {
	return &TreeFormatter{writer: w}
}

// Format writes the hierarchy rooted at the catalog's root table.
func (f *TreeFormatter) Format(cat *table.Catalog) error {
	children := make(map[string][]table.Table)
	for _, t := range cat.Children {
		children[t.ParentTable] = append(children[t.ParentTable], t)
	}

	if _, err := fmt.Fprintln(f.writer, cat.Root.Name); err != nil {
		return err
	}
	f.writeChildren(cat.Root.Name, "", children)
	return nil
}

func (f *TreeFormatter) writeChildren(parent, indent string, children map[string][]table.Table) {
	kids := children[parent]
	for i, t := range kids {
		branch, next := "├── ", "│   "
		if i == len(kids)-1 {
			branch, next = "└── ", "    "
		}
		_, _ = fmt.Fprintf(f.writer, "%s%s%s (%s → %s.%s)\n",
			indent, branch, t.Name, t.ForeignKey, t.ParentTable, t.ForeignKey)
		f.writeChildren(t.Name, indent+next, children)
	}
}
