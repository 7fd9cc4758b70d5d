// Package drivers registers the database/sql drivers a store may be opened with.
package drivers

import (
	"database/sql"
	"slices"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "modernc.org/sqlite"
)

func Registered(name string) bool {
	return slices.Contains(sql.Drivers(), name)
}
