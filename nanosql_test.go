package nanosql

import (
	"strings"
	"testing"
)

func TestEndToEndCreateInsertQuery(t *testing.T) {
	db := NewDB()
	if _, err := db.Exec(`CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(64) NOT NULL)`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (id, name) VALUES (1, 'ada'), (2, 'grace')`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := db.Query(`SELECT name FROM users WHERE id = 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	name, _ := res.Rows[0][0].ToString()
	if name != "ada" {
		t.Fatalf("expected ada, got %q", name)
	}
}

func TestQueryOnNonSelectErrors(t *testing.T) {
	db := NewDB()
	db.Exec(`CREATE TABLE t (n INT)`)
	if _, err := db.Query(`INSERT INTO t (n) VALUES (1)`); err == nil {
		t.Fatalf("expected Query to reject a non-SELECT statement")
	}
}

func TestWithTenantIsolatesTables(t *testing.T) {
	db := NewDB()
	a := db.WithTenant("tenant-a")
	b := db.WithTenant("tenant-b")
	if _, err := a.Exec(`CREATE TABLE t (n INT)`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Query(`SELECT n FROM t`); err == nil {
		t.Fatalf("expected tenant-b to not see tenant-a's table")
	}
}

func TestListTablesReturnsSortedNames(t *testing.T) {
	db := NewDB()
	db.Exec(`CREATE TABLE zebra (n INT)`)
	db.Exec(`CREATE TABLE apple (n INT)`)
	names := db.ListTables()
	if len(names) != 2 || names[0] != "apple" || names[1] != "zebra" {
		t.Fatalf("expected sorted [apple zebra], got %v", names)
	}
}

func TestImportCSVCreatesQueryableTable(t *testing.T) {
	db := NewDB()
	csv := "id,name\n1,ada\n2,grace\n"
	if err := db.ImportCSV("people", strings.NewReader(csv)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := db.Query(`SELECT name FROM people ORDER BY name`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	name, _ := res.Rows[0][0].ToString()
	if name != "ada" {
		t.Fatalf("expected ada, got %q", name)
	}
}

func TestRepeatedExecReusesCompiledStatement(t *testing.T) {
	db := NewDB()
	db.Exec(`CREATE TABLE t (n INT)`)
	for i := 0; i < 3; i++ {
		if _, err := db.Exec(`INSERT INTO t (n) VALUES (1)`); err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
	}
	res, err := db.Query(`SELECT COUNT(*) FROM t`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := res.Rows[0][0].ToInt()
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
}
