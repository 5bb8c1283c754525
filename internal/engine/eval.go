// This file implements Evaluate for every non-aggregate Expr node.
//
// What: each node type dispatches to the decision tables in internal/value
// (Compare, Add/Sub/Mul/Div, Equal) rather than re-implementing coercion
// rules locally, per the design note that type coercion lives in one place.
// How: grounded on original_source/db/core/AST.cpp's BinaryOperator::
// is_true / ArithmeticOperator::evaluate / BetweenExpression::evaluate /
// InExpression::evaluate / CaseExpression::evaluate for the semantics being
// reproduced, re-expressed against this engine's Value/Tuple model instead
// of translating the C++ directly.
package engine

import (
	"github.com/nanosql/nanosql/internal/value"
)

func (l *Literal) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	return l.Val, nil
}

func (c *ColumnRef) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	if row.Src == nil {
		return value.Value{}, nameError("no such column %q", c.Name)
	}
	idx, err := row.Src.ColumnIndex(c.Table, c.Name)
	if err != nil {
		if i := ctx.Proj.ResolveAlias(c.Name); c.Table == "" && i >= 0 {
			return ctx.Proj.Items[i].Expr.Evaluate(ctx, row)
		}
		return value.Value{}, err
	}
	return row.Row[idx], nil
}

func (s *Star) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	return value.Value{}, semanticError("* cannot be evaluated as a scalar expression")
}

func (u *UnaryExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	v, err := u.X.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	switch u.Op {
	case "NOT":
		if v.IsNull() {
			return value.NewNull(), nil
		}
		b, err := v.ToBool()
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(!b), nil
	case "-":
		switch v.Type() {
		case value.Int:
			n, _ := v.ToInt()
			return value.NewInt(-n), nil
		case value.Float:
			f, _ := v.ToFloat()
			return value.NewFloat(-f), nil
		case value.Null:
			return value.NewNull(), nil
		}
		return value.Value{}, typeErrorf("unary '-' is not defined for %s", v.Type())
	}
	return value.Value{}, semanticError("unknown unary operator %q", u.Op)
}

func (b *BinaryExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	switch b.Op {
	case "AND":
		return evalAnd(ctx, row, b.Left, b.Right)
	case "OR":
		return evalOr(ctx, row, b.Left, b.Right)
	}
	lv, err := b.Left.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	rv, err := b.Right.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	switch b.Op {
	case "+":
		return value.Add(lv, rv)
	case "-":
		return value.Sub(lv, rv)
	case "*":
		return value.Mul(lv, rv)
	case "/":
		return value.Div(lv, rv)
	case "=", "<>", "!=", "<", "<=", ">", ">=":
		return evalCompare(b.Op, lv, rv)
	}
	return value.Value{}, semanticError("unknown binary operator %q", b.Op)
}

// evalAnd/evalOr short-circuit and additionally implement SQL's three-state
// behavior around NULL: AND is false if either side is false even when the
// other is NULL; OR is true if either side is true even when the other is
// NULL; otherwise an operand NULL propagates to a NULL result.
func evalAnd(ctx *EvaluationContext, row TupleWithSource, left, right Expr) (value.Value, error) {
	lv, err := left.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	if !lv.IsNull() {
		lb, err := lv.ToBool()
		if err != nil {
			return value.Value{}, err
		}
		if !lb {
			return value.NewBool(false), nil
		}
	}
	rv, err := right.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	if !rv.IsNull() {
		rb, err := rv.ToBool()
		if err != nil {
			return value.Value{}, err
		}
		if !rb {
			return value.NewBool(false), nil
		}
	}
	if lv.IsNull() || rv.IsNull() {
		return value.NewNull(), nil
	}
	return value.NewBool(true), nil
}

func evalOr(ctx *EvaluationContext, row TupleWithSource, left, right Expr) (value.Value, error) {
	lv, err := left.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	if !lv.IsNull() {
		lb, err := lv.ToBool()
		if err != nil {
			return value.Value{}, err
		}
		if lb {
			return value.NewBool(true), nil
		}
	}
	rv, err := right.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	if !rv.IsNull() {
		rb, err := rv.ToBool()
		if err != nil {
			return value.Value{}, err
		}
		if rb {
			return value.NewBool(true), nil
		}
	}
	if lv.IsNull() || rv.IsNull() {
		return value.NewNull(), nil
	}
	return value.NewBool(false), nil
}

func evalCompare(op string, lv, rv value.Value) (value.Value, error) {
	c, err := value.Compare(lv, rv)
	if err != nil {
		return value.Value{}, err
	}
	switch op {
	case "=":
		return value.NewBool(c == 0), nil
	case "<>", "!=":
		return value.NewBool(c != 0), nil
	case "<":
		return value.NewBool(c < 0), nil
	case "<=":
		return value.NewBool(c <= 0), nil
	case ">":
		return value.NewBool(c > 0), nil
	case ">=":
		return value.NewBool(c >= 0), nil
	}
	return value.Value{}, semanticError("unknown comparison operator %q", op)
}

// Evaluate for BetweenExpr dispatches through value.Compare for whichever
// type X turns out to be, rather than forcing every operand to int the way
// original_source/db/core/AST.cpp's BetweenExpression::evaluate does; this
// is the redesign the specification calls for.
func (b *BetweenExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	xv, err := b.X.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	lov, err := b.Lo.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	hiv, err := b.Hi.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	cLo, err := value.Compare(xv, lov)
	if err != nil {
		return value.Value{}, err
	}
	cHi, err := value.Compare(xv, hiv)
	if err != nil {
		return value.Value{}, err
	}
	result := cLo >= 0 && cHi <= 0
	if b.Not {
		result = !result
	}
	return value.NewBool(result), nil
}

// Evaluate for InExpr coerces every candidate to a string for comparison,
// matching original_source/db/core/AST.cpp's InExpression::evaluate (not
// redesigned — the specification keeps this behavior as-is).
func (in *InExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	xv, err := in.X.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	xs, err := xv.ToString()
	if err != nil {
		return value.Value{}, err
	}
	found := false
	if in.Sub != nil {
		rs, err := in.Sub.evaluateAsRowSet(ctx)
		if err != nil {
			return value.Value{}, err
		}
		for _, r := range rs.Rows {
			if len(r) != 1 {
				return value.Value{}, arityError("IN subquery must return exactly one column")
			}
			s, err := r[0].ToString()
			if err != nil {
				return value.Value{}, err
			}
			if s == xs {
				found = true
				break
			}
		}
	} else {
		for _, item := range in.List {
			v, err := item.Evaluate(ctx, row)
			if err != nil {
				return value.Value{}, err
			}
			s, err := v.ToString()
			if err != nil {
				return value.Value{}, err
			}
			if s == xs {
				found = true
				break
			}
		}
	}
	if in.Not {
		found = !found
	}
	return value.NewBool(found), nil
}

func (lk *LikeExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	xv, err := lk.X.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	pv, err := lk.Pattern.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	if xv.IsNull() || pv.IsNull() {
		return value.NewNull(), nil
	}
	xs, err := xv.ToString()
	if err != nil {
		return value.Value{}, err
	}
	ps, err := pv.ToString()
	if err != nil {
		return value.Value{}, err
	}
	m := likeMatch(xs, ps)
	if lk.Not {
		m = !m
	}
	return value.NewBool(m), nil
}

func (mx *MatchExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	xv, err := mx.X.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	pv, err := mx.Pattern.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	if xv.IsNull() || pv.IsNull() {
		return value.NewNull(), nil
	}
	xs, err := xv.ToString()
	if err != nil {
		return value.Value{}, err
	}
	ps, err := pv.ToString()
	if err != nil {
		return value.Value{}, err
	}
	ok, err := regexpMatch(xs, ps)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(ok), nil
}

func (is *IsExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	xv, err := is.X.Evaluate(ctx, row)
	if err != nil {
		return value.Value{}, err
	}
	result := xv.IsNull()
	if is.Not {
		result = !result
	}
	return value.NewBool(result), nil
}

func (ce *CaseExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	var operand value.Value
	if ce.Operand != nil {
		v, err := ce.Operand.Evaluate(ctx, row)
		if err != nil {
			return value.Value{}, err
		}
		operand = v
	}
	for _, w := range ce.Whens {
		if ce.Operand != nil {
			cv, err := w.Cond.Evaluate(ctx, row)
			if err != nil {
				return value.Value{}, err
			}
			eq, err := value.Equal(operand, cv)
			if err != nil {
				return value.Value{}, err
			}
			if eq {
				return w.Result.Evaluate(ctx, row)
			}
			continue
		}
		cv, err := w.Cond.Evaluate(ctx, row)
		if err != nil {
			return value.Value{}, err
		}
		if cv.IsNull() {
			continue
		}
		b, err := cv.ToBool()
		if err != nil {
			return value.Value{}, err
		}
		if b {
			return w.Result.Evaluate(ctx, row)
		}
	}
	if ce.Else != nil {
		return ce.Else.Evaluate(ctx, row)
	}
	return value.NewNull(), nil
}

func (fc *FuncCallExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	args := make([]value.Value, len(fc.Args))
	for i, a := range fc.Args {
		v, err := a.Evaluate(ctx, row)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	return callScalarFunc(fc.Name, args)
}

func (sq *SubqueryExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	rs, err := executeSelect(ctx.Env, sq.Stmt)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewResultSet(rs), nil
}

// evaluateAsRowSet runs the subquery and returns its raw ResultSet, used by
// InExpr so it can range over every row/column pair without going through
// the scalar-coercion path in value.Value.
func (sq *SubqueryExpr) evaluateAsRowSet(ctx *EvaluationContext) (*ResultSet, error) {
	return executeSelect(ctx.Env, sq.Stmt)
}
