// Package store bulk-loads serialized record files into DuckDB, the
// downstream columnar consumer of the normalized record set.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Loader imports JSON or JSONL record files into DuckDB tables.
type Loader struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the DuckDB database at path (empty for in-memory).
func Open(path string, logger *slog.Logger) (*Loader, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb database: %w", err)
	}
	return New(db, logger), nil
}

// New wraps an existing database handle.
func New(db *sql.DB, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{db: db, logger: logger}
}

// Close releases the database handle.
func (l *Loader) Close() error {
	return l.db.Close()
}

// LoadJSON creates or replaces table from the JSON or JSONL file at path
// using DuckDB's read_json_auto, and returns the imported row count.
func (l *Loader) LoadJSON(ctx context.Context, table, path string) (int64, error) {
	if err := validateIdent(table); err != nil {
		return 0, err
	}

	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_json_auto(?)", quoteIdent(table))
	if _, err := l.db.ExecContext(ctx, stmt, path); err != nil {
		return 0, fmt.Errorf("loading %s into table %s: %w", path, table, err)
	}

	var count int64
	row := l.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table)))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", table, err)
	}

	l.logger.Info("loaded records", "table", table, "path", path, "rows", count)
	return count, nil
}

// validateIdent rejects table names that could smuggle SQL. Identifiers are
// interpolated (DuckDB does not parameterize DDL targets), so only simple
// names are accepted.
func validateIdent(name string) error {
	if name == "" {
		return fmt.Errorf("table name is empty")
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
