package engine

import "testing"

func TestQueryCacheReturnsEquivalentStatementOnHit(t *testing.T) {
	qc, err := NewQueryCache(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cq1, err := qc.Compile("SELECT 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cq2, err := qc.Compile("SELECT 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cq1.Stmt != cq2.Stmt {
		t.Fatalf("expected the cached Stmt pointer to be reused on a cache hit")
	}
}

func TestQueryCachePropagatesParseErrors(t *testing.T) {
	qc, err := NewQueryCache(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := qc.Compile("SELEKT 1"); err == nil {
		t.Fatalf("expected a parse error for malformed SQL")
	}
}

func TestQueryCacheEvictsOnOverflow(t *testing.T) {
	qc, err := NewQueryCache(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := qc.Compile("SELECT 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := qc.Compile("SELECT 2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qc.cache.Contains("SELECT 1") {
		t.Fatalf("expected SELECT 1 to be evicted once SELECT 2 filled the capacity-1 cache")
	}
	cq, err := qc.Compile("SELECT 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cq.SQL != "SELECT 1" {
		t.Fatalf("expected re-parsing SELECT 1 after eviction, got %q", cq.SQL)
	}
}
