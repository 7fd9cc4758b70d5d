// Package schema describes the single table the service knows about.
package schema

import "strings"

type ColumnKind string

const (
	KindText    ColumnKind = "text"
	KindNumeric ColumnKind = "numeric"
)

type Column struct {
	Name string
	Kind ColumnKind
}

type Table struct {
	Name    string
	Columns []Column
}

// Student is fixed at process start and never modified.
var Student = Table{
	Name: "STUDENT",
	Columns: []Column{
		{Name: "NAME", Kind: KindText},
		{Name: "COURSE", Kind: KindText},
		{Name: "SECTION", Kind: KindText},
		{Name: "MARKS", Kind: KindNumeric},
	},
}

func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		names = append(names, column.Name)
	}
	return names
}

// Describe renders the column list the way it reads in the prompt,
// e.g. "NAME, COURSE, SECTION and MARKS".
func (t Table) Describe() string {
	names := t.ColumnNames()
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func (t Table) CreateTableSQL() string {
	defs := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		sqlType := "VARCHAR(64)"
		if column.Kind == KindNumeric {
			sqlType = "INTEGER"
		}
		defs = append(defs, column.Name+" "+sqlType)
	}
	return "CREATE TABLE IF NOT EXISTS " + t.Name + " (" + strings.Join(defs, ", ") + ")"
}

func (t Table) SelectAllSQL() string {
	return "SELECT * FROM " + t.Name
}
