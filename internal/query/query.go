package query

import (
	"context"
	"errors"
)

// ErrNoResultSet is returned when a statement produced no column metadata,
// e.g. an UPDATE or DELETE. Such statements are not turned into empty tables.
var ErrNoResultSet = errors.New("statement returned no result set")

// Result is a tabular result: every row holds len(Columns) values, in the
// order the store returned them.
type Result struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

// Column returns the values of the named column, or false if it is absent.
func (r Result) Column(name string) ([]any, bool) {
	for i, column := range r.Columns {
		if column != name {
			continue
		}
		values := make([]any, 0, len(r.Rows))
		for _, row := range r.Rows {
			values = append(values, row[i])
		}
		return values, true
	}
	return nil, false
}

type Executor interface {
	Execute(ctx context.Context, sqlText string) (Result, error)
	FullTable(ctx context.Context) (Result, error)
}

// ExecutionError carries the store's diagnostic for a rejected statement.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return "execute query: " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
