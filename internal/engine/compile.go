// This file implements the compiled-statement cache.
//
// What: CompiledQuery pairs the original SQL text with its parsed Stmt so
// a caller issuing the same statement text repeatedly skips re-lexing and
// re-parsing. Keyed on the literal SQL string, the way the teacher's
// QueryCache does it.
// How: the teacher's own internal/engine/compile.go backs its QueryCache
// with a hand-rolled FIFO slice; this engine swaps that for
// github.com/hashicorp/golang-lru/v2, which gives the same bounded-size
// eviction with real recency tracking instead of pure insertion order,
// grounded on its use in the lsmacedo-go-dbms-adjacent corpus for exactly
// this kind of bounded lookaside cache.
package engine

import lru "github.com/hashicorp/golang-lru/v2"

// CompiledQuery is a parsed statement ready for execution.
type CompiledQuery struct {
	SQL  string
	Stmt Stmt
}

// QueryCache memoizes Parse by SQL text.
type QueryCache struct {
	cache *lru.Cache[string, *CompiledQuery]
}

// NewQueryCache returns a cache holding up to size compiled statements.
func NewQueryCache(size int) (*QueryCache, error) {
	c, err := lru.New[string, *CompiledQuery](size)
	if err != nil {
		return nil, err
	}
	return &QueryCache{cache: c}, nil
}

// Compile returns the cached CompiledQuery for sql, parsing and caching it
// on a miss.
func (qc *QueryCache) Compile(sql string) (*CompiledQuery, error) {
	if cq, ok := qc.cache.Get(sql); ok {
		return cq, nil
	}
	stmt, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	cq := &CompiledQuery{SQL: sql, Stmt: stmt}
	qc.cache.Add(sql, cq)
	return cq, nil
}
