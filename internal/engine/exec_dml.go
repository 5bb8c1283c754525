// This file implements INSERT, UPDATE, and DELETE.
//
// What: none of the three guarantee atomicity across the rows they touch —
// a constraint violation partway through a multi-row INSERT or a bulk
// UPDATE/DELETE leaves whatever rows were already written in place, the
// same as original_source's reference executor. DELETE re-scans from the
// table's current state on every pass rather than snapshotting indices
// first, so it stays correct as rows shift down after each removal.
// How: grounded on the teacher's statement-dispatch style in
// internal/engine/exec.go, re-targeted at storage.Table's row mutation
// methods instead of the teacher's in-memory map mutation.
package engine

import (
	"github.com/nanosql/nanosql/internal/storage"
	"github.com/nanosql/nanosql/internal/value"
)

func execInsert(env *ExecEnv, stmt *InsertStmt) (int, error) {
	tbl, err := env.DB.Get(env.Tenant, stmt.Table)
	if err != nil {
		return 0, nameError("no such table %q", stmt.Table)
	}
	positions, err := insertPositions(tbl, stmt.Cols)
	if err != nil {
		return 0, err
	}

	if stmt.Sub != nil {
		rs, err := executeWithUnion(env, stmt.Sub)
		if err != nil {
			return 0, err
		}
		if len(rs.Columns) != len(positions) {
			return 0, arityError("INSERT ... SELECT produced %d columns, expected %d", len(rs.Columns), len(positions))
		}
		n := 0
		for _, r := range rs.Rows {
			row := make(value.Tuple, len(tbl.Cols))
			for i := range row {
				row[i] = value.NewNull()
			}
			for i, pos := range positions {
				row[pos] = r[i]
			}
			prepared, err := tbl.PrepareRow(row)
			if err != nil {
				return n, err
			}
			if err := tbl.AppendRow(prepared); err != nil {
				return n, err
			}
			n++
		}
		return n, nil
	}

	ctx := &EvaluationContext{Env: env}
	n := 0
	for _, exprs := range stmt.Rows {
		if len(exprs) != len(positions) {
			return n, arityError("INSERT has %d values, expected %d columns", len(exprs), len(positions))
		}
		row := make(value.Tuple, len(tbl.Cols))
		for i := range row {
			row[i] = value.NewNull()
		}
		for i, pos := range positions {
			v, err := exprs[i].Evaluate(ctx, TupleWithSource{})
			if err != nil {
				return n, err
			}
			row[pos] = v
		}
		prepared, err := tbl.PrepareRow(row)
		if err != nil {
			return n, err
		}
		if err := tbl.AppendRow(prepared); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// insertPositions maps each supplied (or, if omitted, every) column name to
// its position in the table's declared column order.
func insertPositions(tbl *storage.Table, cols []string) ([]int, error) {
	if len(cols) == 0 {
		positions := make([]int, len(tbl.Cols))
		for i := range positions {
			positions[i] = i
		}
		return positions, nil
	}
	positions := make([]int, len(cols))
	for i, name := range cols {
		idx, ok := tbl.ColumnIndex(name)
		if !ok {
			return nil, nameError("no such column %q on table %q", name, tbl.Name)
		}
		positions[i] = idx
	}
	return positions, nil
}

func execUpdate(env *ExecEnv, stmt *UpdateStmt) (int, error) {
	tbl, err := env.DB.Get(env.Tenant, stmt.Table)
	if err != nil {
		return 0, nameError("no such table %q", stmt.Table)
	}
	src := &rowSource{}
	for _, c := range tbl.Cols {
		src.Cols = append(src.Cols, colRef{Table: stmt.Table, Name: c.Name})
	}
	positions := make([]int, len(stmt.Set))
	for i, asn := range stmt.Set {
		idx, ok := tbl.ColumnIndex(asn.Col)
		if !ok {
			return 0, nameError("no such column %q on table %q", asn.Col, stmt.Table)
		}
		positions[i] = idx
	}
	ctx := &EvaluationContext{Env: env}
	n := 0
	for i := 0; i < len(tbl.Rows); i++ {
		row := tbl.Rows[i]
		tws := TupleWithSource{Row: row, Src: src}
		if stmt.Where != nil {
			wv, err := stmt.Where.Evaluate(ctx, tws)
			if err != nil {
				return n, err
			}
			if wv.IsNull() {
				continue
			}
			b, err := wv.ToBool()
			if err != nil {
				return n, err
			}
			if !b {
				continue
			}
		}
		updated := row.Clone()
		for j, asn := range stmt.Set {
			v, err := asn.Expr.Evaluate(ctx, TupleWithSource{Row: updated, Src: src})
			if err != nil {
				return n, err
			}
			updated[positions[j]] = v
		}
		if err := tbl.UpdateRowAt(i, updated); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func execDelete(env *ExecEnv, stmt *DeleteStmt) (int, error) {
	tbl, err := env.DB.Get(env.Tenant, stmt.Table)
	if err != nil {
		return 0, nameError("no such table %q", stmt.Table)
	}
	src := &rowSource{}
	for _, c := range tbl.Cols {
		src.Cols = append(src.Cols, colRef{Table: stmt.Table, Name: c.Name})
	}
	ctx := &EvaluationContext{Env: env}
	n := 0
	i := 0
	for i < len(tbl.Rows) {
		tws := TupleWithSource{Row: tbl.Rows[i], Src: src}
		remove := stmt.Where == nil
		if stmt.Where != nil {
			wv, err := stmt.Where.Evaluate(ctx, tws)
			if err != nil {
				return n, err
			}
			if !wv.IsNull() {
				if b, err := wv.ToBool(); err == nil && b {
					remove = true
				} else if err != nil {
					return n, err
				}
			}
		}
		if remove {
			tbl.DeleteRowAt(i)
			n++
			continue
		}
		i++
	}
	return n, nil
}
