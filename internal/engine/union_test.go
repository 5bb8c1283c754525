package engine

import "testing"

func seedUnionTables(t *testing.T, env *ExecEnv) {
	run(t, env, "CREATE TABLE a (n INT)")
	run(t, env, "CREATE TABLE b (n INT)")
	run(t, env, "INSERT INTO a (n) VALUES (1), (2), (3)")
	run(t, env, "INSERT INTO b (n) VALUES (2), (3), (4)")
}

func TestExceptKeepsOnlyLeftOnlyRows(t *testing.T) {
	env := newTestEnv()
	seedUnionTables(t, env)
	res := run(t, env, "SELECT n FROM a EXCEPT SELECT n FROM b")
	if len(res.Rows.Rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d: %+v", len(res.Rows.Rows), res.Rows.Rows)
	}
	n, _ := res.Rows.Rows[0][0].ToInt()
	if n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}
}

func TestIntersectKeepsOnlyCommonRows(t *testing.T) {
	env := newTestEnv()
	seedUnionTables(t, env)
	res := run(t, env, "SELECT n FROM a INTERSECT SELECT n FROM b")
	if len(res.Rows.Rows) != 2 {
		t.Fatalf("expected 2 common rows, got %d: %+v", len(res.Rows.Rows), res.Rows.Rows)
	}
}

func TestUnionArityMismatchErrors(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE a (n INT)")
	run(t, env, "CREATE TABLE b (n INT, m INT)")
	run(t, env, "INSERT INTO a (n) VALUES (1)")
	run(t, env, "INSERT INTO b (n, m) VALUES (1, 2)")
	stmt, err := Parse("SELECT n FROM a UNION SELECT n, m FROM b")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := Execute(env, stmt); err == nil {
		t.Fatalf("expected an arity error for mismatched column counts across UNION arms")
	}
}
