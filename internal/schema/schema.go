// Package schema holds the typed, versioned definition of the seven normalized
// tables: an ordered list of (name, type) columns per table.
package schema

import (
	"fmt"
	"time"

	"entgo.io/ent/dialect"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/common"
)

// Version is bumped whenever a column is added, removed, renamed or retyped.
const Version = 1

// ColumnType is the logical type of a column.
type ColumnType int

const (
	String ColumnType = iota
	Integer
	Float
	Boolean
	Timestamp
)

func (t ColumnType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Timestamp:
		return "timestamp"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// SQLType returns the column type to declare for the given ent dialect.
func (t ColumnType) SQLType(d string) string {
	postgres := d == dialect.Postgres
	switch t {
	case Integer:
		return "BIGINT"
	case Float:
		if postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case Boolean:
		return "BOOLEAN"
	case Timestamp:
		if postgres {
			return "TIMESTAMPTZ"
		}
		return "TIMESTAMP"
	}
	return "TEXT"
}

// accepts reports whether v is a legal value for the type. nil is always legal.
func (t ColumnType) accepts(v any) bool {
	if v == nil {
		return true
	}
	switch t {
	case String:
		_, ok := v.(string)
		return ok
	case Integer:
		_, ok := v.(int64)
		return ok
	case Float:
		_, ok := v.(float64)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Timestamp:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}

// Column is one named, typed, nullable column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a destination table definition.
type Table struct {
	Name    constants.Table
	Columns []Column
}

// ColumnNames returns the column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Row is anything that can be written to a table: its values in column order.
type Row interface {
	Values() []any
}

// CheckRow verifies that values match the table's columns in count and type.
func (t Table) CheckRow(values []any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("%w: %s has %d columns, row has %d values",
			common.ErrSchemaMismatch, t.Name, len(t.Columns), len(values))
	}
	for i, c := range t.Columns {
		if !c.Type.accepts(values[i]) {
			return fmt.Errorf("%w: %s.%s is %s, got %T",
				common.ErrSchemaMismatch, t.Name, c.Name, c.Type, values[i])
		}
	}
	return nil
}

// Check verifies every row; the error names the first offending row index.
func (t Table) Check(rows [][]any) error {
	for i, r := range rows {
		if err := t.CheckRow(r); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Values converts typed rows into value slices.
func Values[R Row](rows []R) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}
