package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/perbu/avroflat"
	"github.com/perbu/avroflat/internal/config"
	"github.com/perbu/avroflat/internal/table"
)

var (
	schemaPath string
	configPath string
	outputFile string
	outputDir  string
	format     string
	dialect    string
	rootTable  string
	unnest     string
	dbURL      string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "avroflat",
	Short: "Flatten Avro schemas into normalized relational tables",
	Long: `Avroflat walks an Avro record schema, flattens caller-selected array fields
into child tables, and emits CREATE TABLE DDL with the foreign keys needed to
reconstruct the original nesting. Selection state (arrays to unnest, natural
keys, parent bindings, common fields) lives in a YAML file passed with
--config and can be edited between runs.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate table definitions from a schema",
	RunE:  runGenerate,
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List array fields visible under the current unnest selection",
	Long: `Discover prints the array field paths that can be unnested. Arrays nested
inside an unselected array stay hidden until their parent is added to the
unnest list, so widen the selection one level at a time.`,
	RunE: runDiscover,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create the generated tables in a target database",
	RunE:  runApply,
}

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, discoverCmd, applyCmd} {
		cmd.Flags().StringVar(&schemaPath, "schema", "", "Avro schema file (.avsc, required)")
		cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML selection file")
		cmd.Flags().StringVar(&unnest, "unnest", "", "Array paths to unnest (comma-separated, adds to config)")
		_ = cmd.MarkFlagRequired("schema")
		rootCmd.AddCommand(cmd)
	}

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for one file per table")
	generateCmd.Flags().StringVarP(&format, "format", "f", "ddl", "Output format: ddl, markdown, or tree")
	generateCmd.Flags().StringVar(&dialect, "dialect", "", "Type dialect: hive (default), postgres, mysql, or sqlite")
	generateCmd.Flags().StringVar(&rootTable, "root-table", "", "Root table name (default: schema record name)")

	applyCmd.Flags().StringVar(&dbURL, "db-url", "", "Target database URL (default: DATABASE_URL from env/.env)")
	applyCmd.Flags().StringVar(&dialect, "dialect", "", "Type dialect matching the target database: postgres, mysql, or sqlite")
	applyCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// buildOptions merges the YAML selection file with flag overrides. Flags
// win over file values.
func buildOptions() (*avroflat.Options, error) {
	var sel config.Selection
	if configPath != "" {
		var err error
		sel, err = config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	opts := &avroflat.Options{
		RootTable:   sel.RootTable,
		Dialect:     sel.Dialect,
		Unnest:      sel.Unnest,
		NaturalKeys: sel.NaturalKeys,
		Relations:   sel.Relations,
	}
	for _, cf := range sel.CommonFields {
		opts.CommonFields = append(opts.CommonFields, table.CommonField{Name: cf.Name, Type: cf.Type})
	}

	opts.Unnest = append(opts.Unnest, splitList(unnest)...)
	if rootTable != "" {
		opts.RootTable = rootTable
	}
	if dialect != "" {
		opts.Dialect = dialect
	}
	return opts, nil
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	outOpts := &avroflat.OutputOptions{OutputDir: outputDir, Format: format}
	if outputDir == "" {
		writer := os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
				}
			}()
			writer = f
		}
		outOpts.Writer = writer
	}

	return avroflat.GenerateAndFormat(schemaPath, opts, outOpts)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	rec, err := avroflat.ParseSchemaFile(schemaPath)
	if err != nil {
		return err
	}

	paths := avroflat.DiscoverArrays(rec, opts)
	if len(paths) == 0 {
		fmt.Println("no array fields found")
		return nil
	}
	selected := make(map[string]bool, len(opts.Unnest))
	for _, p := range opts.Unnest {
		selected[p] = true
	}
	for _, p := range paths {
		marker := " "
		if selected[p] {
			marker = "x"
		}
		fmt.Printf("[%s] %s\n", marker, p)
	}
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	url := dbURL
	if url == "" {
		// .env is optional; a missing file is fine.
		_ = godotenv.Load()
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return fmt.Errorf("no target database: pass --db-url or set DATABASE_URL")
	}

	logger := newLogger()
	rec, err := avroflat.ParseSchemaFile(schemaPath)
	if err != nil {
		return err
	}
	cat, err := avroflat.Generate(rec, opts)
	if err != nil {
		return err
	}
	return avroflat.ApplyCatalog(context.Background(), url, cat, logger)
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
