// This file defines ResultSet, the value the executor returns for every
// SELECT, grounded on the teacher's internal/engine/exec.go Row/ResultSet
// pairing but column-name-addressed throughout (the teacher keys Row by
// map[string]any; this engine keeps Tuple positional and carries column
// names once, on the ResultSet, matching the positional Tuple model used
// everywhere else).
package engine

import "github.com/nanosql/nanosql/internal/value"

// ResultSet is the columnar output of a SELECT: an ordered column-name list
// plus an ordered list of equal-arity rows. It implements
// value.ResultSetLike so it can be carried as a scalar-subquery payload
// inside a Value without the value package importing engine.
type ResultSet struct {
	Columns []string
	Rows    []value.Tuple
}

func (rs *ResultSet) ColumnNames() []string { return rs.Columns }
func (rs *ResultSet) RowCount() int         { return len(rs.Rows) }
func (rs *ResultSet) ColCount() int         { return len(rs.Columns) }

func (rs *ResultSet) CellAt(row, col int) value.Value {
	if row < 0 || row >= len(rs.Rows) || col < 0 || col >= len(rs.Columns) {
		return value.NewNull()
	}
	return rs.Rows[row][col]
}
