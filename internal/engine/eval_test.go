package engine

import (
	"testing"

	"github.com/nanosql/nanosql/internal/value"
)

func lit(v value.Value) Expr { return &Literal{Val: v} }

func evalLit(t *testing.T, e Expr) value.Value {
	v, err := e.Evaluate(&EvaluationContext{}, TupleWithSource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func TestUnaryMinusPreservesFloatPrecision(t *testing.T) {
	v := evalLit(t, &UnaryExpr{Op: "-", X: lit(value.NewFloat(3.5))})
	f, err := v.ToFloat()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != -3.5 {
		t.Fatalf("expected -3.5, got %v", f)
	}
}

func TestUnaryMinusOnInt(t *testing.T) {
	v := evalLit(t, &UnaryExpr{Op: "-", X: lit(value.NewInt(7))})
	n, _ := v.ToInt()
	if n != -7 {
		t.Fatalf("expected -7, got %d", n)
	}
}

func TestUnaryMinusOnNullStaysNull(t *testing.T) {
	v := evalLit(t, &UnaryExpr{Op: "-", X: lit(value.NewNull())})
	if !v.IsNull() {
		t.Fatalf("expected NULL, got %v", v)
	}
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	v := evalLit(t, &BinaryExpr{Op: "AND", Left: lit(value.NewBool(false)), Right: lit(value.NewNull())})
	b, err := v.ToBool()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b {
		t.Fatalf("expected false AND NULL = false")
	}
}

func TestOrWithNullPropagatesWhenNeitherTrue(t *testing.T) {
	v := evalLit(t, &BinaryExpr{Op: "OR", Left: lit(value.NewBool(false)), Right: lit(value.NewNull())})
	if !v.IsNull() {
		t.Fatalf("expected false OR NULL = NULL, got %v", v)
	}
}

func TestBetweenIsTypeAware(t *testing.T) {
	v := evalLit(t, &BetweenExpr{
		X:  lit(value.NewFloat(2.5)),
		Lo: lit(value.NewInt(2)),
		Hi: lit(value.NewInt(3)),
	})
	b, _ := v.ToBool()
	if !b {
		t.Fatalf("expected 2.5 BETWEEN 2 AND 3 to be true")
	}
}

func TestBetweenNotInverts(t *testing.T) {
	v := evalLit(t, &BetweenExpr{
		X: lit(value.NewInt(5)), Lo: lit(value.NewInt(1)), Hi: lit(value.NewInt(3)), Not: true,
	})
	b, _ := v.ToBool()
	if !b {
		t.Fatalf("expected 5 NOT BETWEEN 1 AND 3 to be true")
	}
}

func TestInListStringCoerced(t *testing.T) {
	v := evalLit(t, &InExpr{
		X:    lit(value.NewInt(1)),
		List: []Expr{lit(value.NewVarchar("1")), lit(value.NewVarchar("2"))},
	})
	b, _ := v.ToBool()
	if !b {
		t.Fatalf("expected int 1 to match string \"1\" in IN-list")
	}
}

func TestLikeWildcards(t *testing.T) {
	cases := []struct {
		s, pat string
		want   bool
	}{
		{"hello", "h*o", true},
		{"hello", "h?llo", true},
		{"hello", "h?lo", false},
		{"abc", "[a-c]bc", true},
		{"xbc", "[!a-c]bc", true},
		{"abc", "[!a-c]bc", false},
	}
	for _, c := range cases {
		if got := likeMatch(c.s, c.pat); got != c.want {
			t.Errorf("likeMatch(%q,%q) = %v, want %v", c.s, c.pat, got, c.want)
		}
	}
}

func TestLikeNullPropagates(t *testing.T) {
	v := evalLit(t, &LikeExpr{X: lit(value.NewNull()), Pattern: lit(value.NewVarchar("a*"))})
	if !v.IsNull() {
		t.Fatalf("expected NULL LIKE pattern to be NULL")
	}
}

func TestIsNull(t *testing.T) {
	v := evalLit(t, &IsExpr{X: lit(value.NewNull())})
	b, _ := v.ToBool()
	if !b {
		t.Fatalf("expected NULL IS NULL to be true")
	}
}

func TestIsNotNull(t *testing.T) {
	v := evalLit(t, &IsExpr{X: lit(value.NewInt(1)), Not: true})
	b, _ := v.ToBool()
	if !b {
		t.Fatalf("expected 1 IS NOT NULL to be true")
	}
}

func TestSearchedCase(t *testing.T) {
	ce := &CaseExpr{
		Whens: []CaseWhen{
			{Cond: lit(value.NewBool(false)), Result: lit(value.NewVarchar("no"))},
			{Cond: lit(value.NewBool(true)), Result: lit(value.NewVarchar("yes"))},
		},
		Else: lit(value.NewVarchar("else")),
	}
	v := evalLit(t, ce)
	s, _ := v.ToString()
	if s != "yes" {
		t.Fatalf("expected yes, got %q", s)
	}
}

func TestSimpleCaseFallsThroughToElse(t *testing.T) {
	ce := &CaseExpr{
		Operand: lit(value.NewInt(3)),
		Whens: []CaseWhen{
			{Cond: lit(value.NewInt(1)), Result: lit(value.NewVarchar("one"))},
		},
		Else: lit(value.NewVarchar("other")),
	}
	v := evalLit(t, ce)
	s, _ := v.ToString()
	if s != "other" {
		t.Fatalf("expected other, got %q", s)
	}
}

func TestScalarFunctionDispatch(t *testing.T) {
	v := evalLit(t, &FuncCallExpr{Name: "UPPER", Args: []Expr{lit(value.NewVarchar("abc"))}})
	s, _ := v.ToString()
	if s != "ABC" {
		t.Fatalf("expected ABC, got %q", s)
	}
}

func TestCoalesceReturnsFirstNonNull(t *testing.T) {
	v := evalLit(t, &FuncCallExpr{Name: "COALESCE", Args: []Expr{lit(value.NewNull()), lit(value.NewInt(5))}})
	n, _ := v.ToInt()
	if n != 5 {
		t.Fatalf("expected 5, got %d", n)
	}
}
