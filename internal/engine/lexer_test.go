package engine

import "testing"

func lexAll(t *testing.T, sql string) []token {
	lx := newLexer(sql)
	var toks []token
	for {
		tok := lx.nextToken()
		toks = append(toks, tok)
		if tok.Typ == tEOF {
			break
		}
	}
	return toks
}

func TestLexerKeywordsAreCaseInsensitive(t *testing.T) {
	toks := lexAll(t, "select * from t")
	if toks[0].Typ != tKeyword || toks[0].Val != "SELECT" {
		t.Fatalf("expected SELECT keyword, got %+v", toks[0])
	}
}

func TestLexerIdentifierCasePreserved(t *testing.T) {
	toks := lexAll(t, "MyTable")
	if toks[0].Typ != tIdent || toks[0].Val != "MyTable" {
		t.Fatalf("expected identifier MyTable, got %+v", toks[0])
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `'it''s'`)
	if toks[0].Typ != tString || toks[0].Val != "it's" {
		t.Fatalf("expected it's, got %+v", toks[0])
	}
}

func TestLexerDateLiteral(t *testing.T) {
	toks := lexAll(t, "#2024-01-15#")
	if toks[0].Typ != tDate || toks[0].Val != "2024-01-15" {
		t.Fatalf("expected date literal 2024-01-15, got %+v", toks[0])
	}
}

func TestLexerComparisonOperators(t *testing.T) {
	toks := lexAll(t, "<= >= <> !=")
	want := []string{"<=", ">=", "<>", "!="}
	for i, w := range want {
		if toks[i].Val != w {
			t.Fatalf("token %d: expected %q, got %q", i, w, toks[i].Val)
		}
	}
}

func TestLexerSkipsComments(t *testing.T) {
	toks := lexAll(t, "SELECT 1 -- trailing comment\n/* block */ FROM t")
	var kinds []string
	for _, tok := range toks {
		if tok.Typ != tEOF {
			kinds = append(kinds, tok.Val)
		}
	}
	want := []string{"SELECT", "1", "FROM", "t"}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
	}
}

func TestLexerFloatVsInt(t *testing.T) {
	toks := lexAll(t, "3.14 42")
	if toks[0].Typ != tFloat {
		t.Fatalf("expected float, got %+v", toks[0])
	}
	if toks[1].Typ != tInt {
		t.Fatalf("expected int, got %+v", toks[1])
	}
}
