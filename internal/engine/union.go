// This file implements UNION/UNION ALL/EXCEPT/INTERSECT set semantics.
//
// What: every arm of a union chain must produce the same number of output
// columns (column names are taken from the first arm); UNION deduplicates
// the combined row set, UNION ALL does not. EXCEPT and INTERSECT apply the
// conventional set-difference/set-intersection reading against the
// left-hand accumulator, extending what original_source/db/core/Select.cpp's
// Union::execute defines (which only covers plain UNION, with an optional
// DISTINCT pass that filters the right-hand rows against the left).
// How: executeWithUnion folds arms left to right so a three-way
// `A UNION B EXCEPT C` reads as `(A UNION B) EXCEPT C`.
package engine

import "github.com/nanosql/nanosql/internal/value"

func executeWithUnion(env *ExecEnv, stmt *SelectStmt) (*ResultSet, error) {
	acc, err := executeSelect(env, stmt)
	if err != nil {
		return nil, err
	}
	chain := stmt.Union
	// executeSelect ignores stmt.Union, so each arm, the left one included,
	// runs with its own WHERE/ORDER BY/TOP; the arms' results are then
	// combined in chain order.
	for chain != nil {
		right, err := executeSelect(env, chain.Right)
		if err != nil {
			return nil, err
		}
		if len(acc.Columns) != len(right.Columns) {
			return nil, arityError("union arms must select the same number of columns, got %d and %d", len(acc.Columns), len(right.Columns))
		}
		switch chain.Op {
		case "UNION":
			acc = &ResultSet{Columns: acc.Columns, Rows: dedupeRows(append(append([]value.Tuple{}, acc.Rows...), right.Rows...))}
		case "UNION ALL":
			acc = &ResultSet{Columns: acc.Columns, Rows: append(append([]value.Tuple{}, acc.Rows...), right.Rows...)}
		case "EXCEPT":
			acc = &ResultSet{Columns: acc.Columns, Rows: setDifference(acc.Rows, right.Rows)}
		case "INTERSECT":
			acc = &ResultSet{Columns: acc.Columns, Rows: setIntersect(acc.Rows, right.Rows)}
		}
		chain = chain.Right.Union
	}
	return acc, nil
}

func setDifference(left, right []value.Tuple) []value.Tuple {
	exclude := map[string]bool{}
	for _, r := range right {
		exclude[value.Tuple(r).Key()] = true
	}
	var out []value.Tuple
	seen := map[string]bool{}
	for _, r := range left {
		k := value.Tuple(r).Key()
		if exclude[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func setIntersect(left, right []value.Tuple) []value.Tuple {
	present := map[string]bool{}
	for _, r := range right {
		present[value.Tuple(r).Key()] = true
	}
	var out []value.Tuple
	seen := map[string]bool{}
	for _, r := range left {
		k := value.Tuple(r).Key()
		if !present[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
