// This file implements LIKE pattern matching.
//
// What: supports the wildcard grammar `*` (zero or more of any character),
// `?` (exactly one character), `#` (exactly one digit), and character sets
// `[abc]` / `[!abc]` / `[a-z]`, matched case-sensitively over the full
// string (implicit anchors at both ends, as in classic SQL LIKE).
// How: a small recursive matcher. original_source/db/core/AST.cpp's
// wildcard_parser attempts the same grammar but is explicitly broken for
// character ranges (its own comment: "FIXME: char ranges doesn't work in
// row"); this implementation is written fresh against the corrected
// grammar rather than porting that bug forward.
package engine

import "strings"

// likeMatch reports whether s matches the LIKE pattern pat.
func likeMatch(s, pat string) bool {
	return likeMatchRec(s, pat)
}

func likeMatchRec(s, pat string) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '*':
			// Try every possible split; consuming greedily first is an
			// optimization, not a semantic requirement, so try from zero.
			for i := 0; i <= len(s); i++ {
				if likeMatchRec(s[i:], pat[1:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			s = s[1:]
			pat = pat[1:]
		case '#':
			if len(s) == 0 || s[0] < '0' || s[0] > '9' {
				return false
			}
			s = s[1:]
			pat = pat[1:]
		case '[':
			end := strings.IndexByte(pat, ']')
			if end < 0 {
				// malformed set: treat '[' as a literal.
				if len(s) == 0 || s[0] != '[' {
					return false
				}
				s = s[1:]
				pat = pat[1:]
				continue
			}
			set := pat[1:end]
			if len(s) == 0 || !matchSet(s[0], set) {
				return false
			}
			s = s[1:]
			pat = pat[end+1:]
		default:
			if len(s) == 0 || s[0] != pat[0] {
				return false
			}
			s = s[1:]
			pat = pat[1:]
		}
	}
	return len(s) == 0
}

// matchSet reports whether ch satisfies a `[...]` character set body,
// supporting negation with a leading '!' and ranges like a-z.
func matchSet(ch byte, set string) bool {
	negate := false
	if strings.HasPrefix(set, "!") {
		negate = true
		set = set[1:]
	}
	matched := false
	for i := 0; i < len(set); i++ {
		if i+2 < len(set) && set[i+1] == '-' {
			lo, hi := set[i], set[i+2]
			if lo <= ch && ch <= hi {
				matched = true
			}
			i += 2
			continue
		}
		if set[i] == ch {
			matched = true
		}
	}
	if negate {
		return !matched
	}
	return matched
}
