// Package avroflat converts nested Avro record schemas into normalized
// relational table definitions plus the foreign-key relationships needed to
// reconstruct the original nesting.
//
// The caller chooses which array-typed fields to unnest into child tables;
// everything else stays in the root table, with unexpanded arrays kept as
// serialized JSON columns. Each unnested array becomes one child table whose
// foreign key duplicates the natural key of its parent (the root table, or
// the nearest enclosing unnested array).
//
// # Quick Start
//
//	rec, err := avroflat.ParseSchemaFile("order.avsc")
//	if err != nil {
//		log.Fatal(err)
//	}
//	cat, err := avroflat.Generate(rec, &avroflat.Options{
//		Unnest:      []string{"items"},
//		NaturalKeys: map[string]string{"root": "order_id", "items": "items[].item.sku"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = avroflat.FormatCatalog(cat, &avroflat.OutputOptions{Writer: os.Stdout})
//
// # Selection state
//
// Options is a snapshot of caller-held selection state. Generation never
// mutates it and is deterministic in it: the same schema and options always
// produce the same catalog. Stale selections (a key or relation that no
// longer matches the current structure) degrade to generic fallbacks rather
// than failing, since selections are typically made before the policy
// settles.
//
// # Discovering arrays
//
// DiscoverArrays lists the array paths visible under the current unnest
// policy. Arrays nested inside an unselected array stay hidden until their
// parent is selected, so callers widen the policy one level at a time.
package avroflat

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/perbu/avroflat/internal/avro"
	"github.com/perbu/avroflat/internal/db"
	"github.com/perbu/avroflat/internal/flatten"
	"github.com/perbu/avroflat/internal/formatter"
	"github.com/perbu/avroflat/internal/table"
)

// Options is one snapshot of the caller's generation choices.
//
// All fields are optional. If not specified:
//   - RootTable: derived from the schema record's name
//   - Dialect: "hive"
//   - Unnest: no arrays are unnested; they stay as JSON columns
//   - NaturalKeys/Relations: child tables get generic fallback keys and
//     default parent bindings
type Options struct {
	// RootTable names the root table; child tables are named
	// <root>_<normalized array path>.
	RootTable string

	// Dialect selects the column type vocabulary and DDL comment style:
	// hive (default), postgres, mysql, or sqlite.
	Dialect string

	// Unnest lists the array field paths to flatten into child tables.
	// Example: []string{"items", "items[].item.discounts"}
	Unnest []string

	// NaturalKeys maps a table group ("root" or an array path) to the field
	// path of its key. Only primitive and enum leaves are eligible.
	NaturalKeys map[string]string

	// Relations overrides the parent binding of a nested array: "root"
	// forces the root table, "parent" names the default (nearest enclosing
	// unnested array) explicitly.
	Relations map[string]string

	// CommonFields are prepended to every table, in the given order,
	// unvalidated.
	CommonFields []table.CommonField
}

func (o *Options) selection() *flatten.Selection {
	sel := &flatten.Selection{
		Unnest:      flatten.NewPolicy(o.Unnest...),
		NaturalKeys: o.NaturalKeys,
	}
	if len(o.Relations) > 0 {
		sel.Relations = make(map[string]flatten.Binding, len(o.Relations))
		for path, rel := range o.Relations {
			if rel == "root" {
				sel.Relations[path] = flatten.BindRoot
			} else {
				sel.Relations[path] = flatten.BindParent
			}
		}
	}
	return sel
}

// OutputOptions configures catalog output.
//
// If OutputDir is set the catalog is written as one .sql file per table plus
// an _overview.md, and Writer/Format are ignored. Otherwise the catalog is
// written to Writer (default os.Stdout) in the chosen Format: "ddl"
// (default), "markdown", or "tree".
type OutputOptions struct {
	Writer    io.Writer
	OutputDir string
	Format    string
}

// ParseSchema decodes an Avro schema document (.avsc JSON).
func ParseSchema(data []byte) (*avro.Record, error) {
	return avro.Parse(data)
}

// ParseSchemaFile reads and decodes an Avro schema file.
func ParseSchemaFile(path string) (*avro.Record, error) {
	return avro.ParseFile(path)
}

// Generate runs the full pipeline over one (schema, options) snapshot: walk
// the schema under the unnest policy, partition the leaves into table
// groups, resolve parent/child relationships, and emit table descriptions.
func Generate(rec *avro.Record, opts *Options) (*table.Catalog, error) {
	if opts == nil {
		opts = &Options{}
	}
	dialect, err := table.ParseDialect(opts.Dialect)
	if err != nil {
		return nil, err
	}

	sel := opts.selection()
	leaves := flatten.Walk(rec, sel.Unnest)
	part := flatten.Partition(leaves, sel.Unnest)
	rels := flatten.Resolve(part, sel)

	emitter := &table.Emitter{
		RootName: rootName(rec, opts),
		Dialect:  dialect,
		Common:   opts.CommonFields,
	}
	return emitter.Catalog(part, rels, sel), nil
}

// DiscoverArrays lists the array field paths visible under the options'
// unnest policy, in schema order.
func DiscoverArrays(rec *avro.Record, opts *Options) []string {
	if opts == nil {
		opts = &Options{}
	}
	return flatten.Arrays(rec, flatten.NewPolicy(opts.Unnest...))
}

// KeyCandidates maps each table group ("root" or an array path) to the field
// paths eligible as its natural key under the options' unnest policy.
func KeyCandidates(rec *avro.Record, opts *Options) map[string][]string {
	if opts == nil {
		opts = &Options{}
	}
	policy := flatten.NewPolicy(opts.Unnest...)
	part := flatten.Partition(flatten.Walk(rec, policy), policy)

	out := make(map[string][]string, len(part.Arrays)+1)
	out[flatten.RootGroup] = candidatePaths(&part.Root)
	for _, g := range part.Arrays {
		out[g.Path] = candidatePaths(g)
	}
	return out
}

func candidatePaths(g *flatten.Group) []string {
	var paths []string
	for _, leaf := range flatten.KeyCandidates(g) {
		paths = append(paths, leaf.Path)
	}
	return paths
}

// FormatCatalog writes a generated catalog to the configured output.
func FormatCatalog(cat *table.Catalog, opts *OutputOptions) error {
	if opts == nil {
		opts = &OutputOptions{Writer: os.Stdout}
	}

	if opts.OutputDir != "" {
		return formatter.NewMultiFileFormatter(opts.OutputDir).Format(cat)
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	switch opts.Format {
	case "", "ddl":
		return formatter.NewDDLFormatter(writer).Format(cat)
	case "markdown":
		return formatter.NewMarkdownFormatter(writer).Format(cat)
	case "tree":
		return formatter.NewTreeFormatter(writer).Format(cat)
	default:
		return fmt.Errorf("invalid format: %s (must be 'ddl', 'markdown', or 'tree')", opts.Format)
	}
}

// GenerateAndFormat parses a schema file, generates the catalog, and writes
// it to the configured output in one call.
func GenerateAndFormat(schemaPath string, opts *Options, outOpts *OutputOptions) error {
	rec, err := ParseSchemaFile(schemaPath)
	if err != nil {
		return err
	}
	cat, err := Generate(rec, opts)
	if err != nil {
		return err
	}
	return FormatCatalog(cat, outOpts)
}

// ApplyCatalog materializes a catalog's tables in the database identified by
// databaseURL (postgres://, mysql://, or sqlite://). The catalog must have
// been generated with the dialect matching the target engine; Hive catalogs
// are format-only.
func ApplyCatalog(ctx context.Context, databaseURL string, cat *table.Catalog, logger zerolog.Logger) error {
	exec, dialect, closeFn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	if cat.Dialect != dialect {
		return fmt.Errorf("catalog was generated for dialect %s but target database is %s (regenerate with the matching dialect)", cat.Dialect, dialect)
	}
	return db.NewApplier(exec, logger).Apply(ctx, cat)
}

// rootName defaults the root table's name to the schema record's own name.
func rootName(rec *avro.Record, opts *Options) string {
	if opts.RootTable != "" {
		return opts.RootTable
	}
	if name := flatten.ColumnName(rec.Name); name != "" {
		return name
	}
	return "root"
}
