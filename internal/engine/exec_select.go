// This file implements the SELECT executor: the centerpiece of the engine.
//
// What: runs the canonical evaluation order FROM -> WHERE -> GROUP BY ->
// projection-legality check -> aggregate/projection -> HAVING -> DISTINCT
// -> ORDER BY -> TOP/PERC -> INTO, grounded on
// original_source/db/core/Select.cpp's Select::execute (the empty-table-
// still-produces-one-group special case, the "Column ... must be either
// aggregate or occur in GROUP BY clause" legality error, and the HAVING/
// DISTINCT/ORDER ordering) re-expressed against this engine's rowSource/
// TupleWithSource model instead of the teacher's map[string]any Row.
// How: joins and derived tables are normalized into a single rowSource
// before WHERE ever runs, so the rest of the pipeline never branches on
// where a row came from.
package engine

import (
	"sort"

	"github.com/nanosql/nanosql/internal/storage"
	"github.com/nanosql/nanosql/internal/value"
)

// executeSelect runs a single SELECT (its own UNION chain, if any, is
// handled by executeWithUnion in union.go, which calls this once per arm).
func executeSelect(env *ExecEnv, stmt *SelectStmt) (*ResultSet, error) {
	ctx := &EvaluationContext{Env: env, RowType: FromTable}

	var src *rowSource
	if stmt.From != nil {
		s, err := resolveTableRef(env, *stmt.From)
		if err != nil {
			return nil, err
		}
		src = s
		for _, jc := range stmt.Joins {
			s, err := applyJoin(env, src, jc)
			if err != nil {
				return nil, err
			}
			src = s
		}
	} else {
		src = &rowSource{}
		if len(stmt.Cols) > 0 {
			src.Rows = []value.Tuple{{}}
		}
	}

	rows := make([]TupleWithSource, 0, len(src.Rows))
	for _, r := range src.Rows {
		rows = append(rows, TupleWithSource{Row: r, Src: src})
	}

	if stmt.Where != nil {
		filtered := rows[:0:0]
		for _, r := range rows {
			v, err := stmt.Where.Evaluate(ctx, r)
			if err != nil {
				return nil, err
			}
			if v.IsNull() {
				continue
			}
			b, err := v.ToBool()
			if err != nil {
				return nil, err
			}
			if b {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	hasAgg := hasAggregate(stmt.Cols) || (stmt.Having != nil && exprHasAggregate(stmt.Having))
	grouped := len(stmt.GroupBy) > 0 || hasAgg

	var outCols []string
	var outRows []value.Tuple

	if grouped {
		groups, err := buildGroups(ctx, rows, stmt.GroupBy)
		if err != nil {
			return nil, err
		}
		for _, item := range stmt.Cols {
			if _, ok := item.Expr.(*Star); ok {
				return nil, semanticError("SELECT * is not allowed in a grouped query")
			}
			if !isGroupSafe(item.Expr, stmt.GroupBy) {
				return nil, semanticError("column in SELECT list must be either an aggregate or occur in GROUP BY clause")
			}
		}
		if stmt.Having != nil && !isGroupSafe(stmt.Having, stmt.GroupBy) {
			return nil, semanticError("HAVING clause must be either an aggregate or occur in GROUP BY clause")
		}
		outCols = projColumnNames(stmt.Cols)
		for _, g := range groups {
			var rep TupleWithSource
			if len(g) > 0 {
				rep = g[0]
			}
			row := make(value.Tuple, 0, len(stmt.Cols))
			for _, item := range stmt.Cols {
				v, err := evalProjItem(ctx, item.Expr, rep, g)
				if err != nil {
					return nil, err
				}
				row = append(row, v)
			}
			if stmt.Having != nil {
				hv, err := evalProjItem(ctx, stmt.Having, rep, g)
				if err != nil {
					return nil, err
				}
				if hv.IsNull() {
					continue
				}
				b, err := hv.ToBool()
				if err != nil {
					return nil, err
				}
				if !b {
					continue
				}
			}
			outRows = append(outRows, row)
		}
	} else {
		cols, err := expandProjColumns(stmt.Cols, src)
		if err != nil {
			return nil, err
		}
		outCols = cols
		for _, r := range rows {
			row, err := expandProjRow(ctx, stmt.Cols, r)
			if err != nil {
				return nil, err
			}
			outRows = append(outRows, row)
		}
	}

	result := &ResultSet{Columns: outCols, Rows: outRows}
	sc := NewSelectColumns(stmt.Cols)
	ctx.Proj = sc

	if stmt.Distinct {
		result.Rows = dedupeRows(result.Rows)
		if !grouped {
			rows = nil // pre-projection rows no longer align 1:1 with deduped output
		}
	}

	if stmt.OrderBy != nil {
		if err := sortResultRows(ctx, result, src, rows, grouped, stmt); err != nil {
			return nil, err
		}
	}

	if stmt.Top != nil {
		result.Rows = applyTop(result.Rows, *stmt.Top, stmt.TopPerc)
	}

	if stmt.Into != "" {
		if err := materializeInto(env, stmt.Into, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func resolveTableRef(env *ExecEnv, ref TableRef) (*rowSource, error) {
	if ref.Sub != nil {
		rs, err := executeSelect(env, ref.Sub)
		if err != nil {
			return nil, err
		}
		tbl := ref.Alias
		cols := make([]colRef, len(rs.Columns))
		for i, n := range rs.Columns {
			cols[i] = colRef{Table: tbl, Name: n}
		}
		return &rowSource{Cols: cols, Rows: rs.Rows}, nil
	}
	tbl, err := env.DB.Get(env.Tenant, ref.Name)
	if err != nil {
		return nil, nameError("no such table %q", ref.Name)
	}
	tableName := ref.Alias
	if tableName == "" {
		tableName = ref.Name
	}
	cols := make([]colRef, len(tbl.Cols))
	for i, c := range tbl.Cols {
		cols[i] = colRef{Table: tableName, Name: c.Name}
	}
	rows := make([]value.Tuple, len(tbl.Rows))
	copy(rows, tbl.Rows)
	return &rowSource{Cols: cols, Rows: rows}, nil
}

func applyJoin(env *ExecEnv, left *rowSource, jc JoinClause) (*rowSource, error) {
	right, err := resolveTableRef(env, jc.Table)
	if err != nil {
		return nil, err
	}
	combined := &rowSource{Cols: append(append([]colRef{}, left.Cols...), right.Cols...)}
	ctx := &EvaluationContext{Env: env}

	nullRight := make(value.Tuple, len(right.Cols))
	for i := range nullRight {
		nullRight[i] = value.NewNull()
	}
	nullLeft := make(value.Tuple, len(left.Cols))
	for i := range nullLeft {
		nullLeft[i] = value.NewNull()
	}

	matchedRight := make([]bool, len(right.Rows))

	test := func(lrow, rrow value.Tuple) (bool, error) {
		if jc.On == nil {
			return true, nil
		}
		combinedRow := append(append(value.Tuple{}, lrow...), rrow...)
		v, err := jc.On.Evaluate(ctx, TupleWithSource{Row: combinedRow, Src: combined})
		if err != nil {
			return false, err
		}
		if v.IsNull() {
			return false, nil
		}
		return v.ToBool()
	}

	for _, lrow := range left.Rows {
		matchedLeft := false
		for ri, rrow := range right.Rows {
			ok, err := test(lrow, rrow)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			matchedLeft = true
			matchedRight[ri] = true
			combined.Rows = append(combined.Rows, append(append(value.Tuple{}, lrow...), rrow...))
		}
		if !matchedLeft && (jc.Kind == "LEFT" || jc.Kind == "FULL") {
			combined.Rows = append(combined.Rows, append(append(value.Tuple{}, lrow...), nullRight...))
		}
	}
	if jc.Kind == "RIGHT" || jc.Kind == "FULL" {
		for ri, rrow := range right.Rows {
			if matchedRight[ri] {
				continue
			}
			combined.Rows = append(combined.Rows, append(append(value.Tuple{}, nullLeft...), rrow...))
		}
	}
	return combined, nil
}

// hasAggregate reports whether any projection item contains an aggregate.
func hasAggregate(items []ProjItem) bool {
	for _, it := range items {
		if exprHasAggregate(it.Expr) {
			return true
		}
	}
	return false
}

func exprHasAggregate(e Expr) bool {
	if e == nil {
		return false
	}
	if e.IsAggregate() {
		return true
	}
	switch n := e.(type) {
	case *UnaryExpr:
		return exprHasAggregate(n.X)
	case *BinaryExpr:
		return exprHasAggregate(n.Left) || exprHasAggregate(n.Right)
	case *BetweenExpr:
		return exprHasAggregate(n.X) || exprHasAggregate(n.Lo) || exprHasAggregate(n.Hi)
	case *FuncCallExpr:
		for _, a := range n.Args {
			if exprHasAggregate(a) {
				return true
			}
		}
	case *CaseExpr:
		for _, w := range n.Whens {
			if exprHasAggregate(w.Cond) || exprHasAggregate(w.Result) {
				return true
			}
		}
		return exprHasAggregate(n.Else)
	}
	return false
}

// isGroupSafe reports whether e may legally appear in a SELECT list or
// HAVING clause alongside the given GROUP BY expressions: it must be built
// entirely from aggregates, literals, and columns that appear in groupBy.
func isGroupSafe(e Expr, groupBy []Expr) bool {
	if e == nil {
		return true
	}
	if e.IsAggregate() {
		return true
	}
	for _, g := range groupBy {
		if exprStructEqual(e, g) {
			return true
		}
	}
	switch n := e.(type) {
	case *Literal:
		return true
	case *ColumnRef:
		return false
	case *UnaryExpr:
		return isGroupSafe(n.X, groupBy)
	case *BinaryExpr:
		return isGroupSafe(n.Left, groupBy) && isGroupSafe(n.Right, groupBy)
	case *BetweenExpr:
		return isGroupSafe(n.X, groupBy) && isGroupSafe(n.Lo, groupBy) && isGroupSafe(n.Hi, groupBy)
	case *InExpr:
		if !isGroupSafe(n.X, groupBy) {
			return false
		}
		for _, item := range n.List {
			if !isGroupSafe(item, groupBy) {
				return false
			}
		}
		return true
	case *LikeExpr:
		return isGroupSafe(n.X, groupBy) && isGroupSafe(n.Pattern, groupBy)
	case *MatchExpr:
		return isGroupSafe(n.X, groupBy) && isGroupSafe(n.Pattern, groupBy)
	case *IsExpr:
		return isGroupSafe(n.X, groupBy)
	case *FuncCallExpr:
		for _, a := range n.Args {
			if !isGroupSafe(a, groupBy) {
				return false
			}
		}
		return true
	case *CaseExpr:
		if n.Operand != nil && !isGroupSafe(n.Operand, groupBy) {
			return false
		}
		for _, w := range n.Whens {
			if !isGroupSafe(w.Cond, groupBy) || !isGroupSafe(w.Result, groupBy) {
				return false
			}
		}
		return isGroupSafe(n.Else, groupBy)
	case *SubqueryExpr:
		return true
	}
	return false
}

// exprStructEqual compares two expressions structurally, far enough to
// recognize that a SELECT list item is literally one of the GROUP BY terms.
func exprStructEqual(a, b Expr) bool {
	switch x := a.(type) {
	case *ColumnRef:
		y, ok := b.(*ColumnRef)
		return ok && x.Table == y.Table && x.Name == y.Name
	case *Literal:
		y, ok := b.(*Literal)
		if !ok {
			return false
		}
		eq, err := value.Equal(x.Val, y.Val)
		return err == nil && eq
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && exprStructEqual(x.Left, y.Left) && exprStructEqual(x.Right, y.Right)
	case *FuncCallExpr:
		y, ok := b.(*FuncCallExpr)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !exprStructEqual(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// buildGroups partitions rows by the GROUP BY key, preserving first-seen
// group order. When groupBy is empty but aggregates are present, every row
// (including none at all) forms exactly one group, per the reference's
// documented empty-table-still-one-group behavior.
func buildGroups(ctx *EvaluationContext, rows []TupleWithSource, groupBy []Expr) ([][]TupleWithSource, error) {
	if len(groupBy) == 0 {
		return [][]TupleWithSource{rows}, nil
	}
	order := []string{}
	byKey := map[string][]TupleWithSource{}
	for _, r := range rows {
		key, err := groupKey(ctx, groupBy, r)
		if err != nil {
			return nil, err
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], r)
	}
	groups := make([][]TupleWithSource, 0, len(order))
	for _, k := range order {
		groups = append(groups, byKey[k])
	}
	return groups, nil
}

func groupKey(ctx *EvaluationContext, groupBy []Expr, row TupleWithSource) (string, error) {
	vals := make(value.Tuple, len(groupBy))
	for i, e := range groupBy {
		v, err := e.Evaluate(ctx, row)
		if err != nil {
			return "", err
		}
		vals[i] = v
	}
	return vals.Key(), nil
}

// evalProjItem evaluates a single SELECT-list or HAVING expression against
// one representative row of a group. Every AggregateExpr anywhere in e
// (not just at the top level) is reduced against group first and replaced
// by its scalar result, so expressions like SUM(amount)+1 or COUNT(*) > 1
// evaluate correctly instead of routing the aggregate sub-node through
// AggregateExpr.Evaluate, which has no group to reduce.
func evalProjItem(ctx *EvaluationContext, e Expr, rep TupleWithSource, group []TupleWithSource) (value.Value, error) {
	reduced, err := substituteAggregates(ctx, e, group)
	if err != nil {
		return value.Value{}, err
	}
	return reduced.Evaluate(ctx, rep)
}

// substituteAggregates rebuilds e with every AggregateExpr sub-node replaced
// by a Literal holding its value over group, leaving every other node
// shape unchanged.
func substituteAggregates(ctx *EvaluationContext, e Expr, group []TupleWithSource) (Expr, error) {
	if e == nil {
		return nil, nil
	}
	if agg, ok := e.(*AggregateExpr); ok {
		v, err := aggregateReduce(ctx, agg, group)
		if err != nil {
			return nil, err
		}
		return &Literal{Val: v}, nil
	}
	switch n := e.(type) {
	case *UnaryExpr:
		x, err := substituteAggregates(ctx, n.X, group)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: n.Op, X: x}, nil
	case *BinaryExpr:
		l, err := substituteAggregates(ctx, n.Left, group)
		if err != nil {
			return nil, err
		}
		r, err := substituteAggregates(ctx, n.Right, group)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: n.Op, Left: l, Right: r}, nil
	case *BetweenExpr:
		x, err := substituteAggregates(ctx, n.X, group)
		if err != nil {
			return nil, err
		}
		lo, err := substituteAggregates(ctx, n.Lo, group)
		if err != nil {
			return nil, err
		}
		hi, err := substituteAggregates(ctx, n.Hi, group)
		if err != nil {
			return nil, err
		}
		return &BetweenExpr{X: x, Lo: lo, Hi: hi, Not: n.Not}, nil
	case *InExpr:
		x, err := substituteAggregates(ctx, n.X, group)
		if err != nil {
			return nil, err
		}
		list := make([]Expr, len(n.List))
		for i, it := range n.List {
			v, err := substituteAggregates(ctx, it, group)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return &InExpr{X: x, List: list, Sub: n.Sub, Not: n.Not}, nil
	case *LikeExpr:
		x, err := substituteAggregates(ctx, n.X, group)
		if err != nil {
			return nil, err
		}
		p, err := substituteAggregates(ctx, n.Pattern, group)
		if err != nil {
			return nil, err
		}
		return &LikeExpr{X: x, Pattern: p, Not: n.Not}, nil
	case *MatchExpr:
		x, err := substituteAggregates(ctx, n.X, group)
		if err != nil {
			return nil, err
		}
		p, err := substituteAggregates(ctx, n.Pattern, group)
		if err != nil {
			return nil, err
		}
		return &MatchExpr{X: x, Pattern: p}, nil
	case *IsExpr:
		x, err := substituteAggregates(ctx, n.X, group)
		if err != nil {
			return nil, err
		}
		return &IsExpr{X: x, Not: n.Not}, nil
	case *CaseExpr:
		var operand Expr
		var err error
		if n.Operand != nil {
			operand, err = substituteAggregates(ctx, n.Operand, group)
			if err != nil {
				return nil, err
			}
		}
		whens := make([]CaseWhen, len(n.Whens))
		for i, w := range n.Whens {
			cond, err := substituteAggregates(ctx, w.Cond, group)
			if err != nil {
				return nil, err
			}
			res, err := substituteAggregates(ctx, w.Result, group)
			if err != nil {
				return nil, err
			}
			whens[i] = CaseWhen{Cond: cond, Result: res}
		}
		var elseExpr Expr
		if n.Else != nil {
			elseExpr, err = substituteAggregates(ctx, n.Else, group)
			if err != nil {
				return nil, err
			}
		}
		return &CaseExpr{Operand: operand, Whens: whens, Else: elseExpr}, nil
	case *FuncCallExpr:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			v, err := substituteAggregates(ctx, a, group)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return &FuncCallExpr{Name: n.Name, Args: args}, nil
	}
	// Literal, ColumnRef, Star, SubqueryExpr: no aggregate can occur inside
	// (a subquery's own aggregates are scoped to its own grouping, not the
	// outer group), so these are returned unchanged.
	return e, nil
}

func projColumnNames(items []ProjItem) []string {
	names := make([]string, len(items))
	for i, it := range items {
		if it.Alias != "" {
			names[i] = it.Alias
			continue
		}
		if cr, ok := it.Expr.(*ColumnRef); ok {
			names[i] = cr.Name
			continue
		}
		if agg, ok := it.Expr.(*AggregateExpr); ok {
			names[i] = agg.Name
			continue
		}
		names[i] = "?"
	}
	return names
}

// expandProjColumns computes the output column names for a non-grouped
// SELECT, expanding Star items against the rowSource.
func expandProjColumns(items []ProjItem, src *rowSource) ([]string, error) {
	var names []string
	for _, it := range items {
		if star, ok := it.Expr.(*Star); ok {
			for _, c := range src.Cols {
				if star.Table != "" && c.Table != star.Table {
					continue
				}
				names = append(names, c.Name)
			}
			continue
		}
		if it.Alias != "" {
			names = append(names, it.Alias)
			continue
		}
		if cr, ok := it.Expr.(*ColumnRef); ok {
			names = append(names, cr.Name)
			continue
		}
		names = append(names, "?")
	}
	return names, nil
}

func expandProjRow(ctx *EvaluationContext, items []ProjItem, row TupleWithSource) (value.Tuple, error) {
	var out value.Tuple
	for _, it := range items {
		if star, ok := it.Expr.(*Star); ok {
			for i, c := range row.Src.Cols {
				if star.Table != "" && c.Table != star.Table {
					continue
				}
				out = append(out, row.Row[i])
			}
			continue
		}
		v, err := it.Expr.Evaluate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// sortResultRows evaluates each ORDER BY term against the output row (so
// output column names resolve) and, if that fails, against the row that
// produced it (the pre-projection row, or the output row again for a
// grouped query), then sorts stably. Ordinal ORDER BY (a bare
// integer literal) selects a 1-based output column instead of evaluating
// an expression.
func sortResultRows(ctx *EvaluationContext, result *ResultSet, src *rowSource, preRows []TupleWithSource, grouped bool, stmt *SelectStmt) error {
	type keyed struct {
		row  value.Tuple
		keys []value.Value
	}
	entries := make([]keyed, len(result.Rows))
	for i, row := range result.Rows {
		entries[i].row = row
		var refRow TupleWithSource
		if grouped {
			refRow = TupleWithSource{Row: row, Src: &rowSource{Cols: outputColRefs(result.Columns)}}
		} else if i < len(preRows) {
			refRow = preRows[i]
		}
		keys := make([]value.Value, len(stmt.OrderBy))
		for j, oi := range stmt.OrderBy {
			if lit, ok := oi.Expr.(*Literal); ok && lit.Val.Type() == value.Int {
				ord, _ := lit.Val.ToInt()
				idx := int(ord) - 1
				if idx < 0 || idx >= len(row) {
					return semanticError("ORDER BY ordinal %d is out of range", ord)
				}
				keys[j] = row[idx]
				continue
			}
			outputRow := TupleWithSource{Row: row, Src: &rowSource{Cols: outputColRefs(result.Columns)}}
			v, err := oi.Expr.Evaluate(ctx, outputRow)
			if err != nil {
				v, err = oi.Expr.Evaluate(ctx, refRow)
				if err != nil {
					return err
				}
			}
			keys[j] = v
		}
		entries[i].keys = keys
	}
	sort.SliceStable(entries, func(a, b int) bool {
		for j, oi := range stmt.OrderBy {
			c, err := value.Compare(entries[a].keys[j], entries[b].keys[j])
			if err != nil || c == 0 {
				continue
			}
			if oi.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	for i := range entries {
		result.Rows[i] = entries[i].row
	}
	return nil
}

func outputColRefs(names []string) []colRef {
	cols := make([]colRef, len(names))
	for i, n := range names {
		cols[i] = colRef{Name: n}
	}
	return cols
}

func dedupeRows(rows []value.Tuple) []value.Tuple {
	seen := map[string]bool{}
	out := rows[:0:0]
	for _, r := range rows {
		k := value.Tuple(r).Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// applyTop truncates to n rows, or to n percent of rows when perc is set.
// The percentage computation truncates rather than rounds up, matching
// original_source/db/core/Select.cpp's float-multiplier resize.
func applyTop(rows []value.Tuple, n int, perc bool) []value.Tuple {
	limit := n
	if perc {
		limit = n * len(rows) / 100
	}
	if limit < 0 {
		limit = 0
	}
	if limit > len(rows) {
		limit = len(rows)
	}
	return rows[:limit]
}

func materializeInto(env *ExecEnv, name string, rs *ResultSet) error {
	cols := make([]storage.Column, len(rs.Columns))
	for i, n := range rs.Columns {
		ct := storage.VarcharType
		if len(rs.Rows) > 0 {
			ct = colTypeOfValue(rs.Rows[0][i])
		}
		cols[i] = storage.Column{Name: n, Type: ct}
	}
	tbl := storage.NewTable(name, cols, false)
	tbl.Rows = append(tbl.Rows, rs.Rows...)
	env.DB.Put(env.Tenant, tbl)
	return nil
}

func colTypeOfValue(v value.Value) storage.ColType {
	switch v.Type() {
	case value.Int:
		return storage.IntType
	case value.Float:
		return storage.FloatType
	case value.Bool:
		return storage.BoolType
	case value.Time:
		return storage.TimeType
	default:
		return storage.VarcharType
	}
}
