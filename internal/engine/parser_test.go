package engine

import "testing"

func TestParseSimpleSelect(t *testing.T) {
	stmt, err := Parse("SELECT a, b FROM t WHERE a > 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel, ok := stmt.(*SelectStmt)
	if !ok {
		t.Fatalf("expected *SelectStmt, got %T", stmt)
	}
	if len(sel.Cols) != 2 {
		t.Fatalf("expected 2 projected columns, got %d", len(sel.Cols))
	}
	if sel.From == nil || sel.From.Name != "t" {
		t.Fatalf("expected FROM t, got %+v", sel.From)
	}
	if sel.Where == nil {
		t.Fatalf("expected a WHERE clause")
	}
}

func TestParseBetween(t *testing.T) {
	stmt, err := Parse("SELECT a FROM t WHERE a BETWEEN 1 AND 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if _, ok := sel.Where.(*BetweenExpr); !ok {
		t.Fatalf("expected *BetweenExpr, got %T", sel.Where)
	}
}

func TestParseCaseExpression(t *testing.T) {
	stmt, err := Parse("SELECT CASE WHEN a = 1 THEN 'one' ELSE 'other' END FROM t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if _, ok := sel.Cols[0].Expr.(*CaseExpr); !ok {
		t.Fatalf("expected *CaseExpr, got %T", sel.Cols[0].Expr)
	}
}

func TestParseTopPerc(t *testing.T) {
	stmt, err := Parse("SELECT TOP 10 PERC a FROM t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if sel.Top == nil || *sel.Top != 10 || !sel.TopPerc {
		t.Fatalf("expected TOP 10 PERC, got %+v", sel)
	}
}

func TestParseUnion(t *testing.T) {
	stmt, err := Parse("SELECT a FROM t UNION SELECT a FROM u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if sel.Union == nil || sel.Union.Op != "UNION" {
		t.Fatalf("expected a UNION clause, got %+v", sel.Union)
	}
}

func TestParseInsertValues(t *testing.T) {
	stmt, err := Parse("INSERT INTO t (a, b) VALUES (1, 'x'), (2, 'y')")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ins := stmt.(*InsertStmt)
	if len(ins.Rows) != 2 {
		t.Fatalf("expected 2 value rows, got %d", len(ins.Rows))
	}
}

func TestParseCreateTableWithConstraints(t *testing.T) {
	stmt, err := Parse("CREATE TABLE t (id INT PRIMARY KEY AUTO_INCREMENT, name VARCHAR(32) NOT NULL, CHECK (id > 0))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct := stmt.(*CreateTableStmt)
	if len(ct.Cols) != 2 || len(ct.Checks) != 1 {
		t.Fatalf("expected 2 columns and 1 check, got %+v", ct)
	}
	if !ct.Cols[0].AutoIncrement || !ct.Cols[0].PrimaryKey {
		t.Fatalf("expected id to be PRIMARY KEY AUTO_INCREMENT, got %+v", ct.Cols[0])
	}
}

func TestParseAlterTableOrdersActionsAsWritten(t *testing.T) {
	stmt, err := Parse("ALTER TABLE t DROP a, ADD b INT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	at := stmt.(*AlterTableStmt)
	if len(at.Actions) != 2 || at.Actions[0].Kind != "DROP" || at.Actions[1].Kind != "ADD" {
		t.Fatalf("expected actions parsed in written order, got %+v", at.Actions)
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse("SELECT a FROM t; DROP TABLE t"); err == nil {
		t.Fatalf("expected an error for a second statement after the first")
	}
}

func TestParseJoin(t *testing.T) {
	stmt, err := Parse("SELECT a FROM t LEFT JOIN u ON t.id = u.id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := stmt.(*SelectStmt)
	if len(sel.Joins) != 1 || sel.Joins[0].Kind != "LEFT" {
		t.Fatalf("expected one LEFT join, got %+v", sel.Joins)
	}
}
