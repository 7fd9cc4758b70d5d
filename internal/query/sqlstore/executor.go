// Package sqlstore executes statements against a database/sql store, opening
// a fresh handle per call and closing it before returning.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/studentsql/studentsql/internal/query"
	"github.com/studentsql/studentsql/internal/schema"
)

const (
	DriverSQLite   = "sqlite"
	DriverDuckDB   = "duckdb"
	DriverPostgres = "pgx"
)

type OpenFunc func(driverName, dataSourceName string) (*sql.DB, error)

type Config struct {
	Driver string
	// DSN is a file path for sqlite/duckdb and a connection string for pgx.
	DSN   string
	Table schema.Table
	Open  OpenFunc
}

type Executor struct {
	driver string
	dsn    string
	table  schema.Table
	open   OpenFunc
}

var _ query.Executor = (*Executor)(nil)

func New(cfg Config) (*Executor, error) {
	driver := strings.TrimSpace(cfg.Driver)
	if driver == "" {
		return nil, fmt.Errorf("store driver is required")
	}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("store location is required")
	}
	table := cfg.Table
	if table.Name == "" {
		table = schema.Student
	}
	open := cfg.Open
	if open == nil {
		open = sql.Open
	}
	return &Executor{driver: driver, dsn: dsn, table: table, open: open}, nil
}

func (e *Executor) Execute(ctx context.Context, sqlText string) (query.Result, error) {
	if strings.TrimSpace(sqlText) == "" {
		return query.Result{}, &query.ExecutionError{SQL: sqlText, Err: errors.New("sql is required")}
	}
	return e.run(ctx, sqlText)
}

// FullTable dumps the known table with a fixed statement.
func (e *Executor) FullTable(ctx context.Context) (query.Result, error) {
	return e.run(ctx, e.table.SelectAllSQL())
}

// CheckLocation reports whether the configured store file exists. Network
// stores always pass.
func (e *Executor) CheckLocation(_ context.Context) error {
	if !IsFileBased(e.driver) {
		return nil
	}
	if _, err := os.Stat(e.dsn); err != nil {
		return fmt.Errorf("store file %q: %w", e.dsn, err)
	}
	return nil
}

func (e *Executor) run(ctx context.Context, sqlText string) (query.Result, error) {
	if err := e.CheckLocation(ctx); err != nil {
		return query.Result{}, err
	}

	db, err := e.open(e.driver, e.dsn)
	if err != nil {
		return query.Result{}, fmt.Errorf("open %s store: %w", e.driver, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Result{}, &query.ExecutionError{SQL: sqlText, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Result{}, &query.ExecutionError{SQL: sqlText, Err: fmt.Errorf("query columns: %w", err)}
	}
	if len(columns) == 0 {
		return query.Result{}, &query.ExecutionError{SQL: sqlText, Err: query.ErrNoResultSet}
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return query.Result{}, &query.ExecutionError{SQL: sqlText, Err: fmt.Errorf("scan row: %w", err)}
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return query.Result{}, &query.ExecutionError{SQL: sqlText, Err: fmt.Errorf("iterate rows: %w", err)}
	}

	return query.Result{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

func IsFileBased(driver string) bool {
	switch driver {
	case DriverSQLite, DriverDuckDB:
		return true
	default:
		return false
	}
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}
