// This file implements CREATE TABLE, ALTER TABLE, DROP TABLE, and
// TRUNCATE TABLE.
//
// What: ALTER TABLE applies every action in a single statement in the
// fixed order ADD -> ALTER -> DROP regardless of the order the user wrote
// them in, so `ALTER TABLE t DROP a, ADD a INT` cannot be used to dodge a
// NOT NULL backfill by reordering clauses. CREATE TABLE IF NOT EXISTS and
// DROP TABLE IF EXISTS validate that IF [NOT] EXISTS is only honored
// against the statement kind it was written for.
// How: grounded on the teacher's storage.CatalogManager table
// registration/removal calls, re-targeted at storage.Database.
package engine

import (
	"github.com/nanosql/nanosql/internal/storage"
	"github.com/nanosql/nanosql/internal/value"
)

func execCreateTable(env *ExecEnv, stmt *CreateTableStmt) error {
	if env.DB.Has(env.Tenant, stmt.Name) {
		if stmt.IfNotExists {
			return nil
		}
		return nameError("table %q already exists", stmt.Name)
	}
	cols := make([]storage.Column, len(stmt.Cols))
	for i, cd := range stmt.Cols {
		col := storage.Column{
			Name:          cd.Name,
			Type:          cd.Type,
			AutoIncrement: cd.AutoIncrement,
			Unique:        cd.Unique,
			NotNull:       cd.NotNull,
			ForeignKey:    cd.ForeignKey,
		}
		if cd.PrimaryKey {
			col.Key = storage.PrimaryKeyRole
		} else if cd.ForeignKey != nil {
			col.Key = storage.ForeignKeyRole
		}
		if cd.Default != nil {
			v, err := cd.Default.Evaluate(&EvaluationContext{Env: env}, TupleWithSource{})
			if err != nil {
				return err
			}
			col.Default = &v
		}
		cols[i] = col
	}
	tbl := storage.NewTable(stmt.Name, cols, false)
	for _, chk := range stmt.Checks {
		tbl.Checks = append(tbl.Checks, storage.NamedCheck{
			Name: chk.Name,
			Expr: &exprCheck{expr: chk.Expr, env: env, cols: cols},
		})
	}
	env.DB.Put(env.Tenant, tbl)
	return nil
}

// exprCheck adapts an AST expression into storage.CheckExpr, closing over
// just enough context (an environment and the table's own column list) to
// evaluate the expression against a single candidate row without storage
// ever importing the engine package.
type exprCheck struct {
	expr Expr
	env  *ExecEnv
	cols []storage.Column
}

func (c *exprCheck) Check(row value.Tuple) (bool, error) {
	src := &rowSource{}
	for _, col := range c.cols {
		src.Cols = append(src.Cols, colRef{Name: col.Name})
	}
	ctx := &EvaluationContext{Env: c.env}
	v, err := c.expr.Evaluate(ctx, TupleWithSource{Row: row, Src: src})
	if err != nil {
		return false, err
	}
	if v.IsNull() {
		return true, nil
	}
	return v.ToBool()
}

func execAlterTable(env *ExecEnv, stmt *AlterTableStmt) error {
	tbl, err := env.DB.Get(env.Tenant, stmt.Table)
	if err != nil {
		return nameError("no such table %q", stmt.Table)
	}
	var adds, alters, drops []AlterAction
	for _, act := range stmt.Actions {
		switch act.Kind {
		case "ADD":
			adds = append(adds, act)
		case "ALTER":
			alters = append(alters, act)
		case "DROP":
			drops = append(drops, act)
		}
	}
	for _, act := range adds {
		col := storage.Column{
			Name:          act.Col.Name,
			Type:          act.Col.Type,
			AutoIncrement: act.Col.AutoIncrement,
			Unique:        act.Col.Unique,
			NotNull:       act.Col.NotNull,
			ForeignKey:    act.Col.ForeignKey,
		}
		if act.Col.Default != nil {
			v, err := act.Col.Default.Evaluate(&EvaluationContext{Env: env}, TupleWithSource{})
			if err != nil {
				return err
			}
			col.Default = &v
		}
		if err := tbl.AddColumn(col); err != nil {
			return constraintError("%v", err)
		}
	}
	for _, act := range alters {
		col := storage.Column{
			Name:          act.Col.Name,
			Type:          act.Col.Type,
			AutoIncrement: act.Col.AutoIncrement,
			Unique:        act.Col.Unique,
			NotNull:       act.Col.NotNull,
			ForeignKey:    act.Col.ForeignKey,
		}
		if err := tbl.AlterColumn(act.Col.Name, col); err != nil {
			return nameError("%v", err)
		}
	}
	for _, act := range drops {
		if err := tbl.DropColumn(act.DropOf); err != nil {
			return nameError("%v", err)
		}
	}
	return nil
}

func execDropTable(env *ExecEnv, stmt *DropTableStmt) error {
	if !env.DB.Has(env.Tenant, stmt.Name) {
		if stmt.IfExists {
			return nil
		}
		return nameError("no such table %q", stmt.Name)
	}
	return env.DB.Drop(env.Tenant, stmt.Name)
}

func execTruncateTable(env *ExecEnv, stmt *TruncateTableStmt) error {
	tbl, err := env.DB.Get(env.Tenant, stmt.Name)
	if err != nil {
		return nameError("no such table %q", stmt.Name)
	}
	tbl.Truncate()
	return nil
}
