package engine

import (
	"testing"

	"github.com/nanosql/nanosql/internal/storage"
)

func newTestEnv() *ExecEnv {
	return &ExecEnv{DB: storage.NewDatabase(), Tenant: "default"}
}

func run(t *testing.T, env *ExecEnv, sql string) *ExecResult {
	stmt, err := Parse(sql)
	if err != nil {
		t.Fatalf("parse %q: %v", sql, err)
	}
	res, err := Execute(env, stmt)
	if err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
	return res
}

func seedOrders(t *testing.T, env *ExecEnv) {
	run(t, env, "CREATE TABLE orders (id INT PRIMARY KEY AUTO_INCREMENT, customer VARCHAR(32) NOT NULL, amount INT NOT NULL)")
	run(t, env, "INSERT INTO orders (customer, amount) VALUES ('ada', 100), ('ada', 50), ('grace', 75)")
}

func TestSelectGroupByWithAggregateAndHaving(t *testing.T) {
	env := newTestEnv()
	seedOrders(t, env)
	res := run(t, env, "SELECT customer, SUM(amount) FROM orders GROUP BY customer HAVING SUM(amount) > 60 ORDER BY customer")
	if len(res.Rows.Rows) != 2 {
		t.Fatalf("expected 2 groups to pass HAVING, got %d: %+v", len(res.Rows.Rows), res.Rows.Rows)
	}
	customer, _ := res.Rows.Rows[0][0].ToString()
	if customer != "ada" {
		t.Fatalf("expected ada first, got %q", customer)
	}
	sum, _ := res.Rows.Rows[0][1].ToInt()
	if sum != 150 {
		t.Fatalf("expected ada's sum to be 150, got %d", sum)
	}
}

func TestSelectRejectsUngroupedColumnOutsideAggregate(t *testing.T) {
	env := newTestEnv()
	seedOrders(t, env)
	stmt, err := Parse("SELECT id, SUM(amount) FROM orders GROUP BY customer")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := Execute(env, stmt); err == nil {
		t.Fatalf("expected a group-safety error selecting id outside GROUP BY")
	}
}

func TestSelectAggregateOverEmptyTableProducesOneRow(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE empty_t (n INT)")
	res := run(t, env, "SELECT COUNT(*), SUM(n) FROM empty_t")
	if len(res.Rows.Rows) != 1 {
		t.Fatalf("expected exactly one row for an aggregate over an empty table, got %d", len(res.Rows.Rows))
	}
	count, _ := res.Rows.Rows[0][0].ToInt()
	if count != 0 {
		t.Fatalf("expected COUNT(*) = 0, got %d", count)
	}
	if !res.Rows.Rows[0][1].IsNull() {
		t.Fatalf("expected SUM(n) = NULL over an empty table, got %v", res.Rows.Rows[0][1])
	}
}

func TestSelectDistinctAppliesBeforeOrderBy(t *testing.T) {
	env := newTestEnv()
	seedOrders(t, env)
	res := run(t, env, "SELECT DISTINCT customer FROM orders ORDER BY customer")
	if len(res.Rows.Rows) != 2 {
		t.Fatalf("expected 2 distinct customers, got %d: %+v", len(res.Rows.Rows), res.Rows.Rows)
	}
}

func TestSelectTopLimitsRows(t *testing.T) {
	env := newTestEnv()
	seedOrders(t, env)
	res := run(t, env, "SELECT TOP 1 customer FROM orders ORDER BY amount DESC")
	if len(res.Rows.Rows) != 1 {
		t.Fatalf("expected TOP 1 to return exactly 1 row, got %d", len(res.Rows.Rows))
	}
	customer, _ := res.Rows.Rows[0][0].ToString()
	if customer != "ada" {
		t.Fatalf("expected the highest-amount order's customer (ada), got %q", customer)
	}
}

func TestSelectTopPercTruncatesRatherThanRounds(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE five (n INT)")
	run(t, env, "INSERT INTO five (n) VALUES (1), (2), (3), (4), (5)")
	res := run(t, env, "SELECT TOP 50 PERC n FROM five ORDER BY n")
	if len(res.Rows.Rows) != 2 {
		t.Fatalf("expected TOP 50 PERC of 5 rows to truncate to 2, got %d: %+v", len(res.Rows.Rows), res.Rows.Rows)
	}
	n0, _ := res.Rows.Rows[0][0].ToInt()
	n1, _ := res.Rows.Rows[1][0].ToInt()
	if n0 != 1 || n1 != 2 {
		t.Fatalf("expected [1 2], got [%d %d]", n0, n1)
	}
}

func TestSelectAggregateNestedInsideExpressionIsReduced(t *testing.T) {
	env := newTestEnv()
	seedOrders(t, env)
	res := run(t, env, "SELECT customer, SUM(amount) + 1 FROM orders GROUP BY customer HAVING COUNT(*) > 1 ORDER BY customer")
	if len(res.Rows.Rows) != 1 {
		t.Fatalf("expected only ada's group (2 orders) to pass HAVING COUNT(*) > 1, got %d: %+v", len(res.Rows.Rows), res.Rows.Rows)
	}
	customer, _ := res.Rows.Rows[0][0].ToString()
	if customer != "ada" {
		t.Fatalf("expected ada, got %q", customer)
	}
	sum, _ := res.Rows.Rows[0][1].ToInt()
	if sum != 151 {
		t.Fatalf("expected SUM(amount) + 1 = 151, got %d", sum)
	}
}

func TestSelectLeftJoinPadsUnmatchedWithNull(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE customers (id INT PRIMARY KEY, name VARCHAR(32))")
	run(t, env, "INSERT INTO customers (id, name) VALUES (1, 'ada'), (2, 'lonely')")
	run(t, env, "CREATE TABLE purchases (customer_id INT, item VARCHAR(32))")
	run(t, env, "INSERT INTO purchases (customer_id, item) VALUES (1, 'book')")
	res := run(t, env, "SELECT customers.name, purchases.item FROM customers LEFT JOIN purchases ON customers.id = purchases.customer_id ORDER BY customers.name")
	if len(res.Rows.Rows) != 2 {
		t.Fatalf("expected 2 rows from a LEFT JOIN, got %d", len(res.Rows.Rows))
	}
	name, _ := res.Rows.Rows[0][0].ToString()
	if name != "ada" || res.Rows.Rows[0][1].IsNull() {
		t.Fatalf("expected ada's matched purchase, got %+v", res.Rows.Rows[0])
	}
	name2, _ := res.Rows.Rows[1][0].ToString()
	if name2 != "lonely" || !res.Rows.Rows[1][1].IsNull() {
		t.Fatalf("expected lonely's unmatched purchase to be NULL, got %+v", res.Rows.Rows[1])
	}
}

func TestSelectIntoMaterializesNewTable(t *testing.T) {
	env := newTestEnv()
	seedOrders(t, env)
	run(t, env, "SELECT customer, amount INTO big_orders FROM orders WHERE amount >= 75")
	if !env.DB.Has(env.Tenant, "big_orders") {
		t.Fatalf("expected SELECT INTO to create big_orders")
	}
	res := run(t, env, "SELECT customer FROM big_orders ORDER BY customer")
	if len(res.Rows.Rows) != 2 {
		t.Fatalf("expected 2 rows with amount >= 75, got %d", len(res.Rows.Rows))
	}
}

func TestSelectScalarSubqueryInWhere(t *testing.T) {
	env := newTestEnv()
	seedOrders(t, env)
	res := run(t, env, "SELECT customer FROM orders WHERE amount = (SELECT MAX(amount) FROM orders)")
	if len(res.Rows.Rows) != 1 {
		t.Fatalf("expected 1 row matching the max amount, got %d", len(res.Rows.Rows))
	}
	customer, _ := res.Rows.Rows[0][0].ToString()
	if customer != "ada" {
		t.Fatalf("expected ada (amount 100), got %q", customer)
	}
}

func TestUnionDeduplicatesRows(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE a (n INT)")
	run(t, env, "CREATE TABLE b (n INT)")
	run(t, env, "INSERT INTO a (n) VALUES (1), (2)")
	run(t, env, "INSERT INTO b (n) VALUES (2), (3)")
	res := run(t, env, "SELECT n FROM a UNION SELECT n FROM b")
	if len(res.Rows.Rows) != 3 {
		t.Fatalf("expected 3 distinct rows from UNION, got %d: %+v", len(res.Rows.Rows), res.Rows.Rows)
	}
}

func TestUnionAllKeepsDuplicates(t *testing.T) {
	env := newTestEnv()
	run(t, env, "CREATE TABLE a (n INT)")
	run(t, env, "CREATE TABLE b (n INT)")
	run(t, env, "INSERT INTO a (n) VALUES (1), (2)")
	run(t, env, "INSERT INTO b (n) VALUES (2), (3)")
	res := run(t, env, "SELECT n FROM a UNION ALL SELECT n FROM b")
	if len(res.Rows.Rows) != 4 {
		t.Fatalf("expected 4 rows from UNION ALL, got %d", len(res.Rows.Rows))
	}
}
