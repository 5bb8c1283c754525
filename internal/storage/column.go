// Package storage implements the Catalog & Table layer: named tables with
// ordered columns, append-only row storage, and row-level mutation.
//
// What: Column carries a name, declared type, constraint flags, an optional
// default value, and an optional key role (none/primary/foreign). Table is
// an ordered column list plus an ordered tuple list. Database owns tables by
// name, grouped per tenant so a single process can host isolated namespaces
// the way the teacher's multi-tenant catalog does.
// How: Rows are stored as value.Tuple slices; arity is enforced on every
// mutation. An auto-increment counter is maintained per column that declares
// AutoIncrement. Constraint checks (NOT NULL, UNIQUE) run on insert/update.
// Why: A small, explicit table model — no pages, no indexes — keeps the
// evaluator's job simple: scan, filter, project. Access-path optimization is
// an explicit non-goal of this engine.
package storage

import (
	"fmt"

	"github.com/nanosql/nanosql/internal/value"
)

// ColType enumerates the five scalar column types the engine understands.
type ColType int

const (
	IntType ColType = iota
	FloatType
	VarcharType
	BoolType
	TimeType
)

func (c ColType) String() string {
	switch c {
	case IntType:
		return "INT"
	case FloatType:
		return "FLOAT"
	case VarcharType:
		return "VARCHAR"
	case BoolType:
		return "BOOL"
	case TimeType:
		return "TIME"
	default:
		return "UNKNOWN"
	}
}

// ColTypeFromName maps a SQL type keyword to a ColType. ok is false for an
// unrecognized name.
func ColTypeFromName(name string) (ColType, bool) {
	switch name {
	case "INT":
		return IntType, true
	case "FLOAT":
		return FloatType, true
	case "VARCHAR":
		return VarcharType, true
	case "BOOL":
		return BoolType, true
	case "TIME":
		return TimeType, true
	}
	return 0, false
}

// ValueType returns the value.Type a column of this ColType produces.
func (c ColType) ValueType() value.Type {
	switch c {
	case IntType:
		return value.Int
	case FloatType:
		return value.Float
	case VarcharType:
		return value.Varchar
	case BoolType:
		return value.Bool
	case TimeType:
		return value.Time
	}
	return value.Null
}

// KeyRole describes a column's role in referential structure.
type KeyRole int

const (
	NoKey KeyRole = iota
	PrimaryKeyRole
	ForeignKeyRole
)

// ForeignKeyRef names the table/column a FOREIGN KEY column references.
type ForeignKeyRef struct {
	Table  string
	Column string
}

// Column describes one table column: its name, type, constraint flags, an
// optional default, and an optional key role.
type Column struct {
	Name          string
	Type          ColType
	AutoIncrement bool
	Unique        bool
	NotNull       bool
	Default       *value.Value
	Key           KeyRole
	ForeignKey    *ForeignKeyRef
}

// zeroValue returns the Null value used to pad rows when a column has no
// explicit default.
func (c Column) zeroValue() value.Value {
	if c.Default != nil {
		return *c.Default
	}
	return value.NewNull()
}

// checkValue validates v against this column's NOT NULL constraint. UNIQUE
// requires table-wide context and is checked by Table; FOREIGN KEY
// references are recorded on the column but not checked anywhere.
func (c Column) checkValue(v value.Value) error {
	if c.NotNull && v.IsNull() {
		return fmt.Errorf("column %q violates NOT NULL constraint", c.Name)
	}
	return nil
}
