package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/studentsql/studentsql/internal/query/sqlstore"
	"github.com/studentsql/studentsql/internal/schema"
)

type Options struct {
	// Reset deletes existing rows before loading the fixture.
	Reset bool
}

type Seeder struct {
	db     *sql.DB
	driver string
	table  schema.Table
}

func New(db *sql.DB, driver string) (*Seeder, error) {
	if db == nil {
		return nil, errors.New("seed: db is required")
	}
	switch driver {
	case sqlstore.DriverSQLite, sqlstore.DriverDuckDB, sqlstore.DriverPostgres:
	default:
		return nil, fmt.Errorf("seed: unsupported driver %q", driver)
	}
	return &Seeder{db: db, driver: driver, table: schema.Student}, nil
}

// Seed creates the table if needed and inserts every fixture row in one
// transaction. It returns the number of rows inserted.
func (s *Seeder) Seed(ctx context.Context, fixture Fixture, opts Options) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.table.CreateTableSQL()); err != nil {
		return 0, fmt.Errorf("create table %s: %w", s.table.Name, err)
	}
	if opts.Reset {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.table.Name); err != nil {
			return 0, fmt.Errorf("reset table %s: %w", s.table.Name, err)
		}
	}

	insert := s.insertSQL()
	for i, student := range fixture.Students {
		if _, err := tx.ExecContext(ctx, insert, student.values()...); err != nil {
			return 0, fmt.Errorf("insert student %d (%s): %w", i, student.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(fixture.Students), nil
}

func (s *Seeder) insertSQL() string {
	columns := s.table.ColumnNames()
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = s.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table.Name,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
}

func (s *Seeder) placeholder(position int) string {
	if s.driver == sqlstore.DriverPostgres {
		return fmt.Sprintf("$%d", position)
	}
	return "?"
}
