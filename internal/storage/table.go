package storage

import (
	"fmt"

	"github.com/nanosql/nanosql/internal/value"
)

// CheckExpr is the narrow interface a table-level or column-level CHECK
// constraint must satisfy. The engine package supplies implementations that
// close over an AST expression and an evaluation context; storage never
// needs to know about expressions, only about this one method, which keeps
// the storage and engine packages from importing each other.
type CheckExpr interface {
	Check(row value.Tuple) (bool, error)
}

// NamedCheck pairs an optional constraint name with its CheckExpr, for
// CREATE TABLE's table-level CHECK and CONSTRAINT name CHECK(...) forms.
type NamedCheck struct {
	Name string
	Expr CheckExpr
}

// Table is an ordered list of Columns plus an ordered list of Tuples whose
// arity always equals the column count.
type Table struct {
	Name    string
	Cols    []Column
	Rows    []value.Tuple
	IsTemp  bool
	Checks  []NamedCheck
	autoInc map[string]int64
}

// NewTable creates an empty table with the given name and columns.
func NewTable(name string, cols []Column, isTemp bool) *Table {
	return &Table{
		Name:    name,
		Cols:    append([]Column{}, cols...),
		IsTemp:  isTemp,
		autoInc: make(map[string]int64),
	}
}

// ColumnIndex returns the position of the named column, case-sensitively
// (names are unique within a table per spec).
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Cols {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// nextAutoIncrement returns the next value for an AUTO_INCREMENT column and
// advances its counter.
func (t *Table) nextAutoIncrement(col string) int64 {
	t.autoInc[col]++
	return t.autoInc[col]
}

// bumpAutoIncrement records an externally-supplied value so future
// auto-increments never collide with explicitly inserted values.
func (t *Table) bumpAutoIncrement(col string, v int64) {
	if v > t.autoInc[col] {
		t.autoInc[col] = v
	}
}

// PrepareRow fills in defaults and auto-increment values for a row being
// inserted, given values already assigned positionally (Null where not yet
// supplied), and validates arity.
func (t *Table) PrepareRow(row value.Tuple) (value.Tuple, error) {
	if len(row) != len(t.Cols) {
		return nil, fmt.Errorf("row has %d values, table %q has %d columns", len(row), t.Name, len(t.Cols))
	}
	out := row.Clone()
	for i, c := range t.Cols {
		if c.AutoIncrement {
			if out[i].IsNull() {
				out[i] = value.NewInt(t.nextAutoIncrement(c.Name))
			} else if n, err := out[i].ToInt(); err == nil {
				t.bumpAutoIncrement(c.Name, n)
			}
			continue
		}
		if out[i].IsNull() && c.Default != nil {
			out[i] = *c.Default
		}
	}
	return out, nil
}

// CheckConstraints validates a prepared row against NOT NULL, UNIQUE and
// CHECK constraints. excludeRow, when >= 0, is the index of an existing row
// to ignore when checking UNIQUE (used by UPDATE, which revalidates the row
// being modified against every *other* row).
func (t *Table) CheckConstraints(row value.Tuple, excludeRow int) error {
	for i, c := range t.Cols {
		if err := c.checkValue(row[i]); err != nil {
			return err
		}
		if c.Unique && !row[i].IsNull() {
			for ri, existing := range t.Rows {
				if ri == excludeRow {
					continue
				}
				if eq, _ := value.Equal(existing[i], row[i]); eq {
					return fmt.Errorf("column %q violates UNIQUE constraint", c.Name)
				}
			}
		}
	}
	for _, chk := range t.Checks {
		ok, err := chk.Expr.Check(row)
		if err != nil {
			return err
		}
		if !ok {
			name := chk.Name
			if name == "" {
				name = "<unnamed>"
			}
			return fmt.Errorf("CHECK constraint %q violated", name)
		}
	}
	return nil
}

// AppendRow validates and appends a fully-prepared row.
func (t *Table) AppendRow(row value.Tuple) error {
	if err := t.CheckConstraints(row, -1); err != nil {
		return err
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// UpdateRowAt overwrites the row at idx in place after validating it.
func (t *Table) UpdateRowAt(idx int, row value.Tuple) error {
	if idx < 0 || idx >= len(t.Rows) {
		return fmt.Errorf("row index %d out of range", idx)
	}
	if err := t.CheckConstraints(row, idx); err != nil {
		return err
	}
	t.Rows[idx] = row
	return nil
}

// DeleteRowAt removes the row at idx, preserving the order of the rest.
func (t *Table) DeleteRowAt(idx int) {
	t.Rows = append(t.Rows[:idx], t.Rows[idx+1:]...)
}

// Truncate removes all rows but preserves the schema.
func (t *Table) Truncate() {
	t.Rows = nil
	t.autoInc = make(map[string]int64)
}

// AddColumn appends a new column, rewriting every existing row to carry the
// column's default (or Null).
func (t *Table) AddColumn(col Column) error {
	if _, ok := t.ColumnIndex(col.Name); ok {
		return fmt.Errorf("column %q already exists on table %q", col.Name, t.Name)
	}
	t.Cols = append(t.Cols, col)
	fill := col.zeroValue()
	for i, row := range t.Rows {
		t.Rows[i] = append(row, fill)
	}
	return nil
}

// DropColumn removes a column, rewriting every row to drop the slot.
func (t *Table) DropColumn(name string) error {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return fmt.Errorf("no such column %q on table %q", name, t.Name)
	}
	t.Cols = append(t.Cols[:idx], t.Cols[idx+1:]...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:idx], row[idx+1:]...)
	}
	delete(t.autoInc, name)
	return nil
}

// AlterColumn replaces a column definition in place. Existing row values
// are kept positionally; values that no longer satisfy the new type are not
// converted (schema evolution here is structural, not a data migration).
func (t *Table) AlterColumn(name string, newCol Column) error {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return fmt.Errorf("no such column %q on table %q", name, t.Name)
	}
	t.Cols[idx] = newCol
	return nil
}

// Clone returns a deep-enough copy of the table (columns and rows copied;
// Values are immutable so a slice copy is sufficient).
func (t *Table) Clone(newName string) *Table {
	out := NewTable(newName, t.Cols, false)
	out.Rows = make([]value.Tuple, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}
