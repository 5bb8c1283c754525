package engine

import "testing"

func TestInsertValuesFillsAutoIncrement(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE t (id INT PRIMARY KEY AUTO_INCREMENT, name VARCHAR(32))")
	res := run(t, env, "INSERT INTO t (name) VALUES ('ada'), ('grace')")
	if res.RowsAffected != 2 {
		t.Fatalf("expected 2 rows affected, got %d", res.RowsAffected)
	}
	q := run(t, env, "SELECT id, name FROM t ORDER BY id")
	if len(q.Rows.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(q.Rows.Rows))
	}
	id0, _ := q.Rows.Rows[0][0].ToInt()
	id1, _ := q.Rows.Rows[1][0].ToInt()
	if id0 != 1 || id1 != 2 {
		t.Fatalf("expected auto-increment ids 1 and 2, got %d and %d", id0, id1)
	}
}

func TestInsertSelectCopiesRows(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE src (n INT)")
	run(t, env, "CREATE TABLE dst (n INT)")
	run(t, env, "INSERT INTO src (n) VALUES (1), (2), (3)")
	res := run(t, env, "INSERT INTO dst (n) SELECT n FROM src WHERE n > 1")
	if res.RowsAffected != 2 {
		t.Fatalf("expected 2 rows copied, got %d", res.RowsAffected)
	}
}

func TestInsertSelectHonorsUnionOnSource(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE a (n INT)")
	run(t, env, "CREATE TABLE b (n INT)")
	run(t, env, "CREATE TABLE dst (n INT)")
	run(t, env, "INSERT INTO a (n) VALUES (1), (2)")
	run(t, env, "INSERT INTO b (n) VALUES (2), (3)")
	res := run(t, env, "INSERT INTO dst (n) SELECT n FROM a UNION SELECT n FROM b")
	if res.RowsAffected != 3 {
		t.Fatalf("expected the UNION'd source to dedupe to 3 rows before copying, got %d", res.RowsAffected)
	}
}

func TestInsertColumnArityMismatchErrors(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE t (a INT, b INT)")
	stmt, err := Parse("INSERT INTO t (a, b) VALUES (1)")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := Execute(env, stmt); err == nil {
		t.Fatalf("expected an arity error for a single value against two columns")
	}
}

func TestUpdateAppliesWhereAndExpressions(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE t (n INT)")
	run(t, env, "INSERT INTO t (n) VALUES (1), (2), (3)")
	res := run(t, env, "UPDATE t SET n = n + 10 WHERE n > 1")
	if res.RowsAffected != 2 {
		t.Fatalf("expected 2 rows updated, got %d", res.RowsAffected)
	}
	q := run(t, env, "SELECT n FROM t ORDER BY n")
	want := []int64{1, 12, 13}
	for i, w := range want {
		n, _ := q.Rows.Rows[i][0].ToInt()
		if n != w {
			t.Fatalf("row %d: expected %d, got %d", i, w, n)
		}
	}
}

func TestUpdateRowAtExcludesItselfFromOwnUniqueCheck(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE t (id INT UNIQUE, name VARCHAR(32))")
	run(t, env, "INSERT INTO t (id, name) VALUES (1, 'ada')")
	res := run(t, env, "UPDATE t SET name = 'ada lovelace' WHERE id = 1")
	if res.RowsAffected != 1 {
		t.Fatalf("expected updating a row against its own unique id to succeed, got %d rows affected", res.RowsAffected)
	}
}

func TestDeleteRemovesMatchingRowsOnly(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE t (n INT)")
	run(t, env, "INSERT INTO t (n) VALUES (1), (2), (3), (4)")
	res := run(t, env, "DELETE FROM t WHERE n = 2 OR n = 4")
	if res.RowsAffected != 2 {
		t.Fatalf("expected 2 rows deleted, got %d", res.RowsAffected)
	}
	q := run(t, env, "SELECT n FROM t ORDER BY n")
	if len(q.Rows.Rows) != 2 {
		t.Fatalf("expected 2 remaining rows, got %d", len(q.Rows.Rows))
	}
}

func TestDeleteWithoutWhereRemovesEverything(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE t (n INT)")
	run(t, env, "INSERT INTO t (n) VALUES (1), (2)")
	res := run(t, env, "DELETE FROM t")
	if res.RowsAffected != 2 {
		t.Fatalf("expected all rows deleted, got %d", res.RowsAffected)
	}
}
