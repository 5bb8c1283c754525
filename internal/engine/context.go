// This file defines the shapes threaded through expression evaluation and
// statement execution: the row/column bookkeeping that lets a ColumnRef
// resolve itself against whichever FROM source produced the row currently
// being evaluated, and the environment subqueries need to execute
// themselves recursively.
//
// What: rowSource is the uniform shape every FROM producer (a plain table
// scan, a join, or a derived subquery) normalizes itself into, so the
// SELECT executor has exactly one shape to iterate regardless of where the
// rows came from. TupleWithSource pairs one row with the rowSource it was
// drawn from, which is what ColumnRef.Evaluate consults. EvaluationContext
// is the per-statement evaluation environment; SelectColumns supplies the
// SELECT-list alias lookup that ColumnRef falls back to once a projection
// has been computed.
// How: grounded on the teacher's internal/engine/exec.go ExecEnv/Row
// pairing, generalized to the richer column/group bookkeeping the grouping
// pipeline and joins need.
package engine

import (
	"github.com/nanosql/nanosql/internal/storage"
	"github.com/nanosql/nanosql/internal/value"
)

// colRef names one column of a rowSource: the table/alias it came from
// (empty for a derived or result-set column) and its name.
type colRef struct {
	Table string
	Name  string
}

// rowSource is a fully-materialized set of rows with a shared column list,
// produced by a table scan, a join, or a derived subquery.
type rowSource struct {
	Cols []colRef
	Rows []value.Tuple
}

// ColumnIndex finds the position of a (possibly table-qualified) column
// reference. An unqualified name matches any column whose Name matches,
// erroring if more than one source column shares that name.
func (rs *rowSource) ColumnIndex(table, name string) (int, error) {
	if table != "" {
		for i, c := range rs.Cols {
			if c.Table == table && c.Name == name {
				return i, nil
			}
		}
		return -1, nameError("no such column %q on %q", name, table)
	}
	found := -1
	for i, c := range rs.Cols {
		if c.Name == name {
			if found >= 0 {
				return -1, nameError("column reference %q is ambiguous", name)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, nameError("no such column %q", name)
	}
	return found, nil
}

// TupleWithSource pairs a row with the rowSource that describes its
// columns, so ColumnRef.Evaluate can resolve itself without a separate
// parameter for every call site.
type TupleWithSource struct {
	Row value.Tuple
	Src *rowSource
}

// RowType distinguishes a row drawn straight from a table/join scan from
// one already reduced to a projected result set. executeSelect sets
// FromTable; FromResultSet is not assigned anywhere, and no evaluation path
// reads RowType.
type RowType int

const (
	FromTable RowType = iota
	FromResultSet
)

// EvaluationContext is threaded through every Evaluate call in a single
// statement's execution.
type EvaluationContext struct {
	Env     *ExecEnv
	Proj    *SelectColumns // set once the projection is known, nil before
	RowType RowType
}

// projEntry is one resolved SELECT list entry.
type projEntry struct {
	Expr    Expr
	Alias   string
	Ordinal int
}

// SelectColumns records a SELECT statement's projection list by output
// name (the alias, or the name of a bare column reference). ColumnRef
// consults it only for an unqualified name that matches no column of the
// row's source, so a source column wins over a same-named alias.
// executeSelect installs it after WHERE, grouping and HAVING have run, so
// ORDER BY can reach a SELECT-list alias this way but HAVING cannot.
type SelectColumns struct {
	Items  []projEntry
	byName map[string]int
}

// NewSelectColumns builds a SelectColumns from a parsed projection list.
func NewSelectColumns(items []ProjItem) *SelectColumns {
	sc := &SelectColumns{byName: make(map[string]int)}
	for i, it := range items {
		name := it.Alias
		if name == "" {
			if cr, ok := it.Expr.(*ColumnRef); ok {
				name = cr.Name
			}
		}
		sc.Items = append(sc.Items, projEntry{Expr: it.Expr, Alias: name, Ordinal: i + 1})
		if name != "" {
			sc.byName[name] = i
		}
	}
	return sc
}

// ResolveAlias returns the projection-list index for a bare name matching
// an output alias, or -1 if none matches.
func (sc *SelectColumns) ResolveAlias(name string) int {
	if sc == nil {
		return -1
	}
	if i, ok := sc.byName[name]; ok {
		return i
	}
	return -1
}

// ExecEnv is the execution environment threaded through statement
// execution: the catalog a statement runs against, plus enough state for a
// nested subquery to invoke the executor recursively.
type ExecEnv struct {
	DB     *storage.Database
	Tenant string
}
