// This file implements the lexer: character stream -> token stream.
//
// What: recognizes keywords (case-insensitive), identifiers (case
// preserved), integer/float/string/date/bool literals, operators, and
// punctuation. No whitespace or comment tokens are emitted; -- and /* */
// comments are skipped like the teacher's lexer does.
// How: a single-pass rune-based scanner dispatching on the first character,
// following the teacher's internal/engine/lexer.go shape closely. Keyword
// case-folding uses golang.org/x/text/cases instead of a hand-rolled
// byte-range upper() helper (golang.org/x/text is already a direct teacher
// dependency); keyword set membership uses golang.org/x/exp/slices, grounded
// on lsmacedo-go-dbms/lexer_utils.go's stringIsKeyword.
// Why: a compact, dependency-thin tokenizer keeps parser error messages
// local and actionable.
package engine

import (
	"strings"
	"unicode"

	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldUpper = cases.Upper(language.Und)

type tokenType int

const (
	tEOF tokenType = iota
	tIdent
	tKeyword
	tInt
	tFloat
	tString
	tDate
	tBool
	tSymbol
	tStar
	tGarbage
)

type token struct {
	Typ tokenType
	Val string
	Pos int
}

type lexer struct {
	s   string
	pos int
}

func newLexer(s string) *lexer { return &lexer{s: s} }

func (lx *lexer) peek() byte {
	if lx.pos >= len(lx.s) {
		return 0
	}
	return lx.s[lx.pos]
}

func (lx *lexer) peekN(n int) byte {
	p := lx.pos + n
	if p >= len(lx.s) {
		return 0
	}
	return lx.s[p]
}

func (lx *lexer) skipWS() {
	for lx.pos < len(lx.s) {
		r := lx.s[lx.pos]
		if unicode.IsSpace(rune(r)) {
			lx.pos++
			continue
		}
		if r == '-' && lx.peekN(1) == '-' {
			lx.pos += 2
			for lx.pos < len(lx.s) && lx.s[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}
		if r == '/' && lx.peekN(1) == '*' {
			lx.pos += 2
			for lx.pos < len(lx.s) {
				if lx.s[lx.pos] == '*' && lx.peekN(1) == '/' {
					lx.pos += 2
					break
				}
				lx.pos++
			}
			continue
		}
		return
	}
}

func (lx *lexer) nextToken() token {
	lx.skipWS()
	start := lx.pos
	if start >= len(lx.s) {
		return token{Typ: tEOF, Pos: start}
	}
	r := lx.peek()
	switch {
	case r == '\'' || r == '"':
		return lx.tokenizeString(start, r)
	case r == '#':
		return lx.tokenizeDate(start)
	case unicode.IsDigit(rune(r)):
		return lx.tokenizeNumber(start)
	case unicode.IsLetter(rune(r)) || r == '_':
		return lx.tokenizeIdentOrKeyword(start)
	default:
		return lx.tokenizeSymbol(start)
	}
}

func (lx *lexer) tokenizeString(start int, quote byte) token {
	lx.pos++ // consume opening quote
	var val strings.Builder
	for lx.pos < len(lx.s) {
		ch := lx.s[lx.pos]
		lx.pos++
		if ch == quote {
			if lx.peek() == quote {
				lx.pos++
				val.WriteByte(quote)
				continue
			}
			return token{Typ: tString, Val: val.String(), Pos: start}
		}
		if ch == '\\' && lx.pos < len(lx.s) {
			esc := lx.s[lx.pos]
			lx.pos++
			switch esc {
			case 'n':
				val.WriteByte('\n')
			case 't':
				val.WriteByte('\t')
			case '\\':
				val.WriteByte('\\')
			default:
				val.WriteByte(esc)
			}
			continue
		}
		val.WriteByte(ch)
	}
	return token{Typ: tGarbage, Val: "unterminated string literal", Pos: start}
}

// tokenizeDate consumes a #YYYY-MM-DD# literal.
func (lx *lexer) tokenizeDate(start int) token {
	lx.pos++ // consume opening '#'
	var val strings.Builder
	for lx.pos < len(lx.s) && lx.s[lx.pos] != '#' {
		val.WriteByte(lx.s[lx.pos])
		lx.pos++
	}
	if lx.pos >= len(lx.s) {
		return token{Typ: tGarbage, Val: "unterminated date literal", Pos: start}
	}
	lx.pos++ // consume closing '#'
	return token{Typ: tDate, Val: val.String(), Pos: start}
}

func (lx *lexer) tokenizeNumber(start int) token {
	var val strings.Builder
	isFloat := false
	for lx.pos < len(lx.s) {
		ch := lx.s[lx.pos]
		if unicode.IsDigit(rune(ch)) {
			val.WriteByte(ch)
			lx.pos++
			continue
		}
		if ch == '.' && !isFloat && unicode.IsDigit(rune(lx.peekN(1))) {
			isFloat = true
			val.WriteByte(ch)
			lx.pos++
			continue
		}
		break
	}
	if isFloat {
		return token{Typ: tFloat, Val: val.String(), Pos: start}
	}
	return token{Typ: tInt, Val: val.String(), Pos: start}
}

func (lx *lexer) tokenizeIdentOrKeyword(start int) token {
	var val strings.Builder
	for lx.pos < len(lx.s) {
		ch := lx.s[lx.pos]
		if unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_' {
			val.WriteByte(ch)
			lx.pos++
			continue
		}
		break
	}
	word := val.String()
	up := foldUpper.String(word)
	switch up {
	case "TRUE", "FALSE":
		return token{Typ: tBool, Val: up, Pos: start}
	}
	if isKeyword(up) {
		return token{Typ: tKeyword, Val: up, Pos: start}
	}
	return token{Typ: tIdent, Val: word, Pos: start}
}

func (lx *lexer) tokenizeSymbol(start int) token {
	r := lx.peek()
	switch r {
	case '*':
		lx.pos++
		return token{Typ: tStar, Val: "*", Pos: start}
	case '(', ')', ',', '+', '-', '/', '.', ';', '?', '[', ']':
		lx.pos++
		return token{Typ: tSymbol, Val: string(r), Pos: start}
	case '=', '<', '>', '!':
		lx.pos++
		b := lx.peek()
		if (r == '<' && (b == '=' || b == '>')) || (r == '>' && b == '=') || (r == '!' && b == '=') {
			lx.pos++
			return token{Typ: tSymbol, Val: string(r) + string(b), Pos: start}
		}
		return token{Typ: tSymbol, Val: string(r), Pos: start}
	default:
		lx.pos++
		return token{Typ: tGarbage, Val: string(r), Pos: start}
	}
}

// keywords is the fixed allow-list of recognized SQL words (spec.md §6).
var keywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "ASC", "DESC",
	"TOP", "PERC", "DISTINCT", "UNION", "ALL", "CASE", "WHEN", "THEN", "ELSE",
	"END", "AS", "INTO", "INSERT", "VALUES", "UPDATE", "SET", "DELETE",
	"CREATE", "DROP", "TRUNCATE", "ALTER", "TABLE", "ADD", "COLUMN", "CHECK",
	"CONSTRAINT", "DEFAULT", "NOT", "NULL", "UNIQUE", "PRIMARY", "FOREIGN",
	"KEY", "REFERENCES", "IF", "EXISTS", "LIKE", "MATCH", "IS", "IN",
	"BETWEEN", "AND", "OR", "JOIN", "INNER", "OUTER", "FULL", "LEFT", "RIGHT",
	"ON", "CROSS", "PARTITION", "OVER", "ENGINE", "SHOW", "TABLES", "PRINT",
	"IMPORT", "AUTO_INCREMENT", "EXCEPT", "INTERSECT",
	"INT", "FLOAT", "VARCHAR", "BOOL", "TIME",
	"COUNT", "SUM", "AVG", "MIN", "MAX",
}

func isKeyword(up string) bool {
	return slices.Contains(keywords, up)
}
