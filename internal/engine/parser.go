// This file implements the recursive-descent parser: token stream -> AST.
//
// What: one parse function per grammar production, following precedence
// climbing for expressions (OR < AND < NOT < comparison/BETWEEN/IN/LIKE/
// MATCH/IS < additive < multiplicative < unary < primary), grounded on the
// teacher's internal/engine/parser.go shape (parseExpr/parseTerm/parseFactor
// chain) but extended with the additional operators this grammar needs.
// How: a parser struct holding the token slice and a cursor; expect()
// advances past an expected token or returns a parseError carrying the
// token's byte offset, matching the teacher's errf-with-position style.
package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/nanosql/nanosql/internal/storage"
	"github.com/nanosql/nanosql/internal/value"
)

type parser struct {
	toks []token
	pos  int
}

// Parse tokenizes and parses a single SQL statement.
func Parse(sql string) (Stmt, error) {
	lx := newLexer(sql)
	var toks []token
	for {
		t := lx.nextToken()
		if t.Typ == tGarbage {
			return nil, lexError(t.Pos, "unexpected character near %q", t.Val)
		}
		toks = append(toks, t)
		if t.Typ == tEOF {
			break
		}
	}
	p := &parser{toks: toks}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.at(tEOF) {
		return nil, parseError(p.cur().Pos, "unexpected token %q after statement", p.cur().Val)
	}
	return stmt, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) at(t tokenType) bool { return p.cur().Typ == t }

// peek returns the token n positions ahead of the cursor, clamped to the
// final token (always tEOF) when that would run past the end — the lexer
// always appends exactly one tEOF, so every statement's token slice is
// non-empty and this never indexes an empty slice.
func (p *parser) peek(n int) token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) atKeyword(kw string) bool {
	return p.cur().Typ == tKeyword && p.cur().Val == kw
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expectKeyword(kw string) (token, error) {
	if !p.atKeyword(kw) {
		return token{}, parseError(p.cur().Pos, "expected %s, got %q", kw, p.cur().Val)
	}
	return p.advance(), nil
}

func (p *parser) expect(t tokenType, what string) (token, error) {
	if !p.at(t) {
		return token{}, parseError(p.cur().Pos, "expected %s, got %q", what, p.cur().Val)
	}
	return p.advance(), nil
}

func (p *parser) expectSymbol(s string) (token, error) {
	if p.cur().Typ != tSymbol || p.cur().Val != s {
		return token{}, parseError(p.cur().Pos, "expected %q, got %q", s, p.cur().Val)
	}
	return p.advance(), nil
}

func (p *parser) parseStatement() (Stmt, error) {
	switch {
	case p.atKeyword("SELECT"):
		return p.parseSelectWithUnion()
	case p.atKeyword("INSERT"):
		return p.parseInsert()
	case p.atKeyword("UPDATE"):
		return p.parseUpdate()
	case p.atKeyword("DELETE"):
		return p.parseDelete()
	case p.atKeyword("CREATE"):
		return p.parseCreateTable()
	case p.atKeyword("ALTER"):
		return p.parseAlterTable()
	case p.atKeyword("DROP"):
		return p.parseDropTable()
	case p.atKeyword("TRUNCATE"):
		return p.parseTruncateTable()
	default:
		return nil, parseError(p.cur().Pos, "expected a statement, got %q", p.cur().Val)
	}
}

// ---- SELECT ----

func (p *parser) parseSelectWithUnion() (*SelectStmt, error) {
	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("UNION") || p.atKeyword("EXCEPT") || p.atKeyword("INTERSECT") {
		op := p.advance().Val
		if op == "UNION" && p.atKeyword("ALL") {
			p.advance()
			op = "UNION ALL"
		}
		rhs, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		cur := sel
		for cur.Union != nil {
			cur = cur.Union.Right
		}
		cur.Union = &UnionClause{Op: op, Right: rhs}
	}
	return sel, nil
}

func (p *parser) parseSelect() (*SelectStmt, error) {
	if _, err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	sel := &SelectStmt{}
	if p.atKeyword("DISTINCT") {
		p.advance()
		sel.Distinct = true
	} else if p.atKeyword("ALL") {
		p.advance()
	}
	if p.atKeyword("TOP") {
		p.advance()
		nTok, err := p.expect(tInt, "integer")
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(nTok.Val)
		sel.Top = &n
		if p.atKeyword("PERC") {
			p.advance()
			sel.TopPerc = true
		}
	}
	cols, err := p.parseProjList()
	if err != nil {
		return nil, err
	}
	sel.Cols = cols

	if p.atKeyword("INTO") {
		p.advance()
		id, err := p.expect(tIdent, "table name")
		if err != nil {
			return nil, err
		}
		sel.Into = id.Val
	}

	if p.atKeyword("FROM") {
		p.advance()
		from, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		sel.From = &from
		joins, err := p.parseJoins()
		if err != nil {
			return nil, err
		}
		sel.Joins = joins
	}

	if p.atKeyword("WHERE") {
		p.advance()
		w, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Where = w
	}

	if p.atKeyword("GROUP") {
		p.advance()
		if _, err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		gb, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		sel.GroupBy = gb
	}

	if p.atKeyword("HAVING") {
		p.advance()
		h, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Having = h
	}

	if p.atKeyword("ORDER") {
		p.advance()
		if _, err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		ob, err := p.parseOrderList()
		if err != nil {
			return nil, err
		}
		sel.OrderBy = ob
	}

	return sel, nil
}

func (p *parser) parseProjList() ([]ProjItem, error) {
	var items []ProjItem
	for {
		item, err := p.parseProjItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur().Typ == tSymbol && p.cur().Val == "," {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *parser) parseProjItem() (ProjItem, error) {
	if p.at(tStar) {
		p.advance()
		return ProjItem{Expr: &Star{}}, nil
	}
	if p.at(tIdent) && p.peek(1).Typ == tSymbol && p.peek(1).Val == "." &&
		p.peek(2).Typ == tStar {
		tbl := p.advance().Val
		p.advance() // .
		p.advance() // *
		return ProjItem{Expr: &Star{Table: tbl}}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return ProjItem{}, err
	}
	alias := ""
	if p.atKeyword("AS") {
		p.advance()
		id, err := p.expect(tIdent, "alias")
		if err != nil {
			return ProjItem{}, err
		}
		alias = id.Val
	} else if p.at(tIdent) {
		alias = p.advance().Val
	}
	return ProjItem{Expr: e, Alias: alias}, nil
}

func (p *parser) parseTableRef() (TableRef, error) {
	if p.cur().Typ == tSymbol && p.cur().Val == "(" {
		p.advance()
		sub, err := p.parseSelect()
		if err != nil {
			return TableRef{}, err
		}
		if _, err := p.expectSymbol(")"); err != nil {
			return TableRef{}, err
		}
		ref := TableRef{Sub: sub}
		if p.atKeyword("AS") {
			p.advance()
		}
		if p.at(tIdent) {
			ref.Alias = p.advance().Val
		}
		return ref, nil
	}
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return TableRef{}, err
	}
	ref := TableRef{Name: id.Val}
	if p.atKeyword("AS") {
		p.advance()
	}
	if p.at(tIdent) {
		ref.Alias = p.advance().Val
	}
	return ref, nil
}

func (p *parser) parseJoins() ([]JoinClause, error) {
	var joins []JoinClause
	for {
		kind := ""
		switch {
		case p.atKeyword("JOIN"):
			kind = "INNER"
			p.advance()
		case p.atKeyword("INNER"):
			p.advance()
			if _, err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "INNER"
		case p.atKeyword("LEFT"):
			p.advance()
			if p.atKeyword("OUTER") {
				p.advance()
			}
			if _, err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "LEFT"
		case p.atKeyword("RIGHT"):
			p.advance()
			if p.atKeyword("OUTER") {
				p.advance()
			}
			if _, err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "RIGHT"
		case p.atKeyword("FULL"):
			p.advance()
			if p.atKeyword("OUTER") {
				p.advance()
			}
			if _, err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "FULL"
		case p.atKeyword("CROSS"):
			p.advance()
			if _, err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "CROSS"
		default:
			return joins, nil
		}
		tbl, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		jc := JoinClause{Kind: kind, Table: tbl}
		if kind != "CROSS" {
			if _, err := p.expectKeyword("ON"); err != nil {
				return nil, err
			}
			on, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			jc.On = on
		}
		joins = append(joins, jc)
	}
}

func (p *parser) parseOrderList() ([]OrderItem, error) {
	var items []OrderItem
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		oi := OrderItem{Expr: e}
		if p.atKeyword("DESC") {
			p.advance()
			oi.Desc = true
		} else if p.atKeyword("ASC") {
			p.advance()
		}
		items = append(items, oi)
		if p.cur().Typ == tSymbol && p.cur().Val == "," {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *parser) parseExprList() ([]Expr, error) {
	var items []Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.cur().Typ == tSymbol && p.cur().Val == "," {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

// ---- expression grammar (lowest to highest precedence) ----
//
// expr      := orExpr
// orExpr    := andExpr (OR andExpr)*
// andExpr   := notExpr (AND notExpr)*
// notExpr   := NOT notExpr | predicate
// predicate := additive ( (= | <> | != | < | <= | > | >=) additive
//            | [NOT] BETWEEN additive AND additive
//            | [NOT] IN ( exprList | subquery )
//            | [NOT] LIKE additive
//            | MATCH additive
//            | IS [NOT] NULL )?
// additive  := term ((+|-) term)*
// term      := unary ((*|/) unary)*
// unary     := (-) unary | primary
// primary   := literal | columnRef | funcCall | case | (expr) | (subquery)

func (p *parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("OR") {
		p.advance()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: "OR", Left: lhs, Right: rhs}
	}
	return lhs, nil
}

func (p *parser) parseAnd() (Expr, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") {
		p.advance()
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: "AND", Left: lhs, Right: rhs}
	}
	return lhs, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.atKeyword("NOT") {
		p.advance()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: "NOT", X: x}, nil
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (Expr, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	not := false
	if p.atKeyword("NOT") {
		p.advance()
		not = true
	}
	switch {
	case p.atKeyword("BETWEEN"):
		p.advance()
		lo, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("AND"); err != nil {
			return nil, err
		}
		hi, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BetweenExpr{X: lhs, Lo: lo, Hi: hi, Not: not}, nil
	case p.atKeyword("IN"):
		p.advance()
		if _, err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		if p.atKeyword("SELECT") {
			sub, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return &InExpr{X: lhs, Sub: &SubqueryExpr{Stmt: sub}, Not: not}, nil
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return &InExpr{X: lhs, List: list, Not: not}, nil
	case p.atKeyword("LIKE"):
		p.advance()
		pat, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &LikeExpr{X: lhs, Pattern: pat, Not: not}, nil
	case p.atKeyword("MATCH"):
		if not {
			return nil, parseError(p.cur().Pos, "NOT MATCH is not supported")
		}
		p.advance()
		pat, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &MatchExpr{X: lhs, Pattern: pat}, nil
	case p.atKeyword("IS"):
		if not {
			return nil, parseError(p.cur().Pos, "unexpected NOT before IS")
		}
		p.advance()
		isNot := false
		if p.atKeyword("NOT") {
			p.advance()
			isNot = true
		}
		if _, err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return &IsExpr{X: lhs, Not: isNot}, nil
	}
	if not {
		// bare NOT consumed but no predicate keyword followed: error.
		return nil, parseError(p.cur().Pos, "expected BETWEEN, IN or LIKE after NOT")
	}
	if op, ok := p.matchCompareOp(); ok {
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: lhs, Right: rhs}, nil
	}
	return lhs, nil
}

func (p *parser) matchCompareOp() (string, bool) {
	if p.cur().Typ == tSymbol {
		switch p.cur().Val {
		case "=", "<>", "!=", "<", "<=", ">", ">=":
			return p.advance().Val, true
		}
	}
	return "", false
}

func (p *parser) parseAdditive() (Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().Typ == tSymbol && (p.cur().Val == "+" || p.cur().Val == "-") {
		op := p.advance().Val
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: op, Left: lhs, Right: rhs}
	}
	return lhs, nil
}

func (p *parser) parseTerm() (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for (p.cur().Typ == tSymbol && p.cur().Val == "/") || p.at(tStar) {
		op := "*"
		if p.cur().Typ == tSymbol {
			op = p.advance().Val
		} else {
			p.advance()
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: op, Left: lhs, Right: rhs}
	}
	return lhs, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.cur().Typ == tSymbol && p.cur().Val == "-" {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: "-", X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch t.Typ {
	case tInt:
		p.advance()
		n, err := strconv.ParseInt(t.Val, 10, 64)
		if err != nil {
			return nil, parseError(t.Pos, "invalid integer literal %q", t.Val)
		}
		return &Literal{Val: value.NewInt(n)}, nil
	case tFloat:
		p.advance()
		f, err := strconv.ParseFloat(t.Val, 64)
		if err != nil {
			return nil, parseError(t.Pos, "invalid float literal %q", t.Val)
		}
		return &Literal{Val: value.NewFloat(f)}, nil
	case tString:
		p.advance()
		return &Literal{Val: value.NewVarchar(t.Val)}, nil
	case tBool:
		p.advance()
		return &Literal{Val: value.NewBool(t.Val == "TRUE")}, nil
	case tDate:
		p.advance()
		tm, err := parseDateLiteral(t.Val)
		if err != nil {
			return nil, parseError(t.Pos, "invalid date literal #%s#: %v", t.Val, err)
		}
		return &Literal{Val: value.NewTime(tm)}, nil
	case tKeyword:
		if t.Val == "NULL" {
			p.advance()
			return &Literal{Val: value.NewNull()}, nil
		}
		if t.Val == "CASE" {
			return p.parseCase()
		}
		if isAggregateName(t.Val) {
			return p.parseAggregate()
		}
		return nil, parseError(t.Pos, "unexpected keyword %q in expression", t.Val)
	case tIdent:
		// func call: ident (
		if p.peek(1).Typ == tSymbol && p.peek(1).Val == "(" {
			return p.parseFuncCall()
		}
		p.advance()
		name := t.Val
		if p.cur().Typ == tSymbol && p.cur().Val == "." {
			p.advance()
			col, err := p.expect(tIdent, "column name")
			if err != nil {
				return nil, err
			}
			return &ColumnRef{Table: name, Name: col.Val}, nil
		}
		return &ColumnRef{Name: name}, nil
	case tSymbol:
		if t.Val == "(" {
			p.advance()
			if p.atKeyword("SELECT") {
				sub, err := p.parseSelect()
				if err != nil {
					return nil, err
				}
				if _, err := p.expectSymbol(")"); err != nil {
					return nil, err
				}
				return &SubqueryExpr{Stmt: sub}, nil
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, parseError(t.Pos, "unexpected token %q in expression", t.Val)
}

func isAggregateName(up string) bool {
	switch up {
	case "COUNT", "SUM", "AVG", "MIN", "MAX":
		return true
	}
	return false
}

func (p *parser) parseAggregate() (Expr, error) {
	name := p.advance().Val
	if _, err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	agg := &AggregateExpr{Name: name}
	if name == "COUNT" && p.at(tStar) {
		p.advance()
		agg.Star = true
	} else {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		agg.Arg = arg
	}
	if _, err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return agg, nil
}

func (p *parser) parseFuncCall() (Expr, error) {
	name := p.advance().Val
	p.advance() // (
	fc := &FuncCallExpr{Name: name}
	if !(p.cur().Typ == tSymbol && p.cur().Val == ")") {
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		fc.Args = args
	}
	if _, err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return fc, nil
}

func (p *parser) parseCase() (Expr, error) {
	p.advance() // CASE
	ce := &CaseExpr{}
	if !p.atKeyword("WHEN") {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Operand = operand
	}
	for p.atKeyword("WHEN") {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		res, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Whens = append(ce.Whens, CaseWhen{Cond: cond, Result: res})
	}
	if len(ce.Whens) == 0 {
		return nil, parseError(p.cur().Pos, "CASE requires at least one WHEN clause")
	}
	if p.atKeyword("ELSE") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Else = e
	}
	if _, err := p.expectKeyword("END"); err != nil {
		return nil, err
	}
	return ce, nil
}

// parseDateLiteral parses the YYYY-MM-DD body of a #...# date literal.
func parseDateLiteral(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, nil
		}
	}
	return time.Time{}, parseError(-1, "unrecognized date format %q", s)
}

// ---- INSERT / UPDATE / DELETE ----

func (p *parser) parseInsert() (Stmt, error) {
	p.advance() // INSERT
	if _, err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return nil, err
	}
	st := &InsertStmt{Table: id.Val}
	if p.cur().Typ == tSymbol && p.cur().Val == "(" {
		p.advance()
		for {
			c, err := p.expect(tIdent, "column name")
			if err != nil {
				return nil, err
			}
			st.Cols = append(st.Cols, c.Val)
			if p.cur().Typ == tSymbol && p.cur().Val == "," {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
	}
	if p.atKeyword("SELECT") {
		sub, err := p.parseSelectWithUnion()
		if err != nil {
			return nil, err
		}
		st.Sub = sub
		return st, nil
	}
	if _, err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	for {
		if _, err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		row, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		st.Rows = append(st.Rows, row)
		if p.cur().Typ == tSymbol && p.cur().Val == "," {
			p.advance()
			continue
		}
		break
	}
	return st, nil
}

func (p *parser) parseUpdate() (Stmt, error) {
	p.advance() // UPDATE
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return nil, err
	}
	st := &UpdateStmt{Table: id.Val}
	if _, err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	for {
		col, err := p.expect(tIdent, "column name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		st.Set = append(st.Set, Assignment{Col: col.Val, Expr: val})
		if p.cur().Typ == tSymbol && p.cur().Val == "," {
			p.advance()
			continue
		}
		break
	}
	if p.atKeyword("WHERE") {
		p.advance()
		w, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		st.Where = w
	}
	return st, nil
}

func (p *parser) parseDelete() (Stmt, error) {
	p.advance() // DELETE
	if _, err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return nil, err
	}
	st := &DeleteStmt{Table: id.Val}
	if p.atKeyword("WHERE") {
		p.advance()
		w, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		st.Where = w
	}
	return st, nil
}

// ---- DDL ----

func (p *parser) parseCreateTable() (Stmt, error) {
	p.advance() // CREATE
	if _, err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	st := &CreateTableStmt{}
	if p.atKeyword("IF") {
		p.advance()
		if _, err := p.expectKeyword("NOT"); err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		st.IfNotExists = true
	}
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return nil, err
	}
	st.Name = id.Val
	if _, err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	for {
		if p.atKeyword("CHECK") || p.atKeyword("CONSTRAINT") {
			chk, err := p.parseTableCheck()
			if err != nil {
				return nil, err
			}
			st.Checks = append(st.Checks, chk)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			st.Cols = append(st.Cols, col)
		}
		if p.cur().Typ == tSymbol && p.cur().Val == "," {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *parser) parseTableCheck() (TableCheck, error) {
	name := ""
	if p.atKeyword("CONSTRAINT") {
		p.advance()
		id, err := p.expect(tIdent, "constraint name")
		if err != nil {
			return TableCheck{}, err
		}
		name = id.Val
	}
	if _, err := p.expectKeyword("CHECK"); err != nil {
		return TableCheck{}, err
	}
	if _, err := p.expectSymbol("("); err != nil {
		return TableCheck{}, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return TableCheck{}, err
	}
	if _, err := p.expectSymbol(")"); err != nil {
		return TableCheck{}, err
	}
	return TableCheck{Name: name, Expr: e}, nil
}

func (p *parser) parseColumnDef() (ColumnDef, error) {
	id, err := p.expect(tIdent, "column name")
	if err != nil {
		return ColumnDef{}, err
	}
	typTok := p.cur()
	if typTok.Typ != tKeyword {
		return ColumnDef{}, parseError(typTok.Pos, "expected column type, got %q", typTok.Val)
	}
	p.advance()
	ct, ok := storage.ColTypeFromName(typTok.Val)
	if !ok {
		return ColumnDef{}, parseError(typTok.Pos, "unknown column type %q", typTok.Val)
	}
	// VARCHAR(n) — the length is accepted and discarded, this engine's
	// Varchar has no fixed capacity.
	if p.cur().Typ == tSymbol && p.cur().Val == "(" {
		p.advance()
		if _, err := p.expect(tInt, "length"); err != nil {
			return ColumnDef{}, err
		}
		if _, err := p.expectSymbol(")"); err != nil {
			return ColumnDef{}, err
		}
	}
	cd := ColumnDef{Name: id.Val, Type: ct}
	for {
		switch {
		case p.atKeyword("NOT"):
			p.advance()
			if _, err := p.expectKeyword("NULL"); err != nil {
				return ColumnDef{}, err
			}
			cd.NotNull = true
		case p.atKeyword("UNIQUE"):
			p.advance()
			cd.Unique = true
		case p.atKeyword("PRIMARY"):
			p.advance()
			if _, err := p.expectKeyword("KEY"); err != nil {
				return ColumnDef{}, err
			}
			cd.PrimaryKey = true
			cd.NotNull = true
			cd.Unique = true
		case p.atKeyword("AUTO_INCREMENT"):
			p.advance()
			cd.AutoIncrement = true
		case p.atKeyword("DEFAULT"):
			p.advance()
			d, err := p.parseExpr()
			if err != nil {
				return ColumnDef{}, err
			}
			cd.Default = d
		case p.atKeyword("REFERENCES"):
			p.advance()
			refTbl, err := p.expect(tIdent, "referenced table")
			if err != nil {
				return ColumnDef{}, err
			}
			if _, err := p.expectSymbol("("); err != nil {
				return ColumnDef{}, err
			}
			refCol, err := p.expect(tIdent, "referenced column")
			if err != nil {
				return ColumnDef{}, err
			}
			if _, err := p.expectSymbol(")"); err != nil {
				return ColumnDef{}, err
			}
			cd.ForeignKey = &storage.ForeignKeyRef{Table: refTbl.Val, Column: refCol.Val}
		default:
			return cd, nil
		}
	}
}

func (p *parser) parseAlterTable() (Stmt, error) {
	p.advance() // ALTER
	if _, err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return nil, err
	}
	st := &AlterTableStmt{Table: id.Val}
	for {
		act, err := p.parseAlterAction()
		if err != nil {
			return nil, err
		}
		st.Actions = append(st.Actions, act)
		if p.cur().Typ == tSymbol && p.cur().Val == "," {
			p.advance()
			continue
		}
		break
	}
	return st, nil
}

func (p *parser) parseAlterAction() (AlterAction, error) {
	switch {
	case p.atKeyword("ADD"):
		p.advance()
		if p.atKeyword("COLUMN") {
			p.advance()
		}
		col, err := p.parseColumnDef()
		if err != nil {
			return AlterAction{}, err
		}
		return AlterAction{Kind: "ADD", Col: col}, nil
	case p.atKeyword("ALTER"):
		p.advance()
		if p.atKeyword("COLUMN") {
			p.advance()
		}
		col, err := p.parseColumnDef()
		if err != nil {
			return AlterAction{}, err
		}
		return AlterAction{Kind: "ALTER", Col: col}, nil
	case p.atKeyword("DROP"):
		p.advance()
		if p.atKeyword("COLUMN") {
			p.advance()
		}
		id, err := p.expect(tIdent, "column name")
		if err != nil {
			return AlterAction{}, err
		}
		return AlterAction{Kind: "DROP", DropOf: id.Val}, nil
	}
	return AlterAction{}, parseError(p.cur().Pos, "expected ADD, ALTER or DROP, got %q", p.cur().Val)
}

func (p *parser) parseDropTable() (Stmt, error) {
	p.advance() // DROP
	if _, err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	st := &DropTableStmt{}
	if p.atKeyword("IF") {
		p.advance()
		if _, err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		st.IfExists = true
	}
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return nil, err
	}
	st.Name = id.Val
	return st, nil
}

func (p *parser) parseTruncateTable() (Stmt, error) {
	p.advance() // TRUNCATE
	if _, err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	id, err := p.expect(tIdent, "table name")
	if err != nil {
		return nil, err
	}
	return &TruncateTableStmt{Name: id.Val}, nil
}
