package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/perbu/avroflat/internal/formatter"
	"github.com/perbu/avroflat/internal/table"
)

// Executor runs DDL statements against one target database.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// Open connects to the database identified by a URL (postgres://,
// postgresql://, mysql://, or sqlite://) and returns an executor, the
// matching DDL dialect, and a close function.
func Open(ctx context.Context, url string) (Executor, table.Dialect, func() error, error) {
	switch {
	case url == "":
		return nil, "", nil, fmt.Errorf("database URL is required")
	case strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://"):
		client, err := NewPostgresClient(ctx, url)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return client, table.DialectPostgres, func() error { return client.Close(context.Background()) }, nil
	case strings.HasPrefix(url, "mysql://"):
		client, err := NewMySQLClient(ctx, strings.TrimPrefix(url, "mysql://"))
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return client, table.DialectMySQL, client.Close, nil
	case strings.HasPrefix(url, "sqlite://"):
		client, err := NewSQLiteClient(ctx, strings.TrimPrefix(url, "sqlite://"))
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return client, table.DialectSQLite, client.Close, nil
	default:
		return nil, "", nil, fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
	}
}

// Applier materializes a catalog's tables in a target database.
type Applier struct {
	exec   Executor
	logger zerolog.Logger
}

// NewApplier creates a new applier.
func NewApplier(exec Executor, logger zerolog.Logger) *Applier {
	return &Applier{exec: exec, logger: logger}
}

// Apply executes one CREATE TABLE statement per catalog table, root first.
// It stops on the first failure; tables created before the failure are left
// in place.
func (a *Applier) Apply(ctx context.Context, cat *table.Catalog) error {
	for _, t := range cat.Tables() {
		a.logger.Info().Str("table", t.Name).Int("columns", len(t.Columns)).Msg("creating table")
		if err := a.exec.Exec(ctx, formatter.Statement(t, cat.Dialect)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
	}
	a.logger.Info().Int("tables", len(cat.Children)+1).Msg("catalog applied")
	return nil
}
