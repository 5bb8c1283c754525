// This file implements the builtin scalar function surface and the
// aggregate reducers.
//
// What: scalar functions dispatch on the upper-cased name, following the
// teacher's internal/engine/extended_functions.go and io_functions.go
// pattern of a single switch over function name rather than a registry of
// closures — appropriate here since the set is fixed and small.
// How: MATCH's regular-expression test reuses stdlib regexp the same way
// the teacher's REGEXP_MATCH/REGEXP_EXTRACT/REGEXP_REPLACE builtins do.
package engine

import (
	"regexp"
	"strings"

	"github.com/nanosql/nanosql/internal/value"
)

func regexpMatch(s, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, typeErrorf("invalid MATCH pattern %q: %v", pattern, err)
	}
	return re.MatchString(s), nil
}

// callScalarFunc dispatches a non-aggregate builtin function call by name.
func callScalarFunc(name string, args []value.Value) (value.Value, error) {
	switch strings.ToUpper(name) {
	case "UPPER":
		s, err := arg1String(name, args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewVarchar(strings.ToUpper(s)), nil
	case "LOWER":
		s, err := arg1String(name, args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewVarchar(strings.ToLower(s)), nil
	case "LENGTH":
		s, err := arg1String(name, args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewInt(int64(len(s))), nil
	case "TRIM":
		s, err := arg1String(name, args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewVarchar(strings.TrimSpace(s)), nil
	case "LTRIM":
		s, err := arg1String(name, args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewVarchar(strings.TrimLeft(s, " \t\n\r")), nil
	case "RTRIM":
		s, err := arg1String(name, args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewVarchar(strings.TrimRight(s, " \t\n\r")), nil
	case "SUBSTRING":
		if len(args) != 3 {
			return value.Value{}, arityError("SUBSTRING expects 3 arguments, got %d", len(args))
		}
		s, err := args[0].ToString()
		if err != nil {
			return value.Value{}, err
		}
		start, err := args[1].ToInt()
		if err != nil {
			return value.Value{}, err
		}
		length, err := args[2].ToInt()
		if err != nil {
			return value.Value{}, err
		}
		return value.NewVarchar(substring(s, start, length)), nil
	case "CONCAT":
		var b strings.Builder
		for _, a := range args {
			s, err := a.ToString()
			if err != nil {
				return value.Value{}, err
			}
			b.WriteString(s)
		}
		return value.NewVarchar(b.String()), nil
	case "REPLACE":
		if len(args) != 3 {
			return value.Value{}, arityError("REPLACE expects 3 arguments, got %d", len(args))
		}
		s, err := args[0].ToString()
		if err != nil {
			return value.Value{}, err
		}
		old, err := args[1].ToString()
		if err != nil {
			return value.Value{}, err
		}
		nw, err := args[2].ToString()
		if err != nil {
			return value.Value{}, err
		}
		return value.NewVarchar(strings.ReplaceAll(s, old, nw)), nil
	case "ABS":
		if len(args) != 1 {
			return value.Value{}, arityError("ABS expects 1 argument, got %d", len(args))
		}
		if args[0].Type() == value.Float {
			f, _ := args[0].ToFloat()
			if f < 0 {
				f = -f
			}
			return value.NewFloat(f), nil
		}
		n, err := args[0].ToInt()
		if err != nil {
			return value.Value{}, err
		}
		if n < 0 {
			n = -n
		}
		return value.NewInt(n), nil
	case "ROUND":
		f, err := arg1Float(name, args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewInt(int64(f + signOf(f)*0.5)), nil
	case "FLOOR":
		f, err := arg1Float(name, args)
		if err != nil {
			return value.Value{}, err
		}
		n := int64(f)
		if f < 0 && float64(n) != f {
			n--
		}
		return value.NewInt(n), nil
	case "CEIL":
		f, err := arg1Float(name, args)
		if err != nil {
			return value.Value{}, err
		}
		n := int64(f)
		if f > 0 && float64(n) != f {
			n++
		}
		return value.NewInt(n), nil
	case "MOD":
		if len(args) != 2 {
			return value.Value{}, arityError("MOD expects 2 arguments, got %d", len(args))
		}
		a, err := args[0].ToInt()
		if err != nil {
			return value.Value{}, err
		}
		b, err := args[1].ToInt()
		if err != nil {
			return value.Value{}, err
		}
		if b == 0 {
			return value.Value{}, typeErrorf("MOD by zero")
		}
		return value.NewInt(a % b), nil
	case "COALESCE":
		for _, a := range args {
			if !a.IsNull() {
				return a, nil
			}
		}
		return value.NewNull(), nil
	case "NULLIF":
		if len(args) != 2 {
			return value.Value{}, arityError("NULLIF expects 2 arguments, got %d", len(args))
		}
		eq, err := value.Equal(args[0], args[1])
		if err != nil {
			return value.Value{}, err
		}
		if eq {
			return value.NewNull(), nil
		}
		return args[0], nil
	}
	return value.Value{}, nameError("unknown function %q", name)
}

func arg1String(name string, args []value.Value) (string, error) {
	if len(args) != 1 {
		return "", arityError("%s expects 1 argument, got %d", name, len(args))
	}
	return args[0].ToString()
}

func arg1Float(name string, args []value.Value) (float64, error) {
	if len(args) != 1 {
		return 0, arityError("%s expects 1 argument, got %d", name, len(args))
	}
	return args[0].ToFloat()
}

func signOf(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// substring implements 1-based, clamped SQL SUBSTRING(s, start, length).
func substring(s string, start, length int64) string {
	r := []rune(s)
	if start < 1 {
		start = 1
	}
	begin := int(start - 1)
	if begin >= len(r) {
		return ""
	}
	end := begin + int(length)
	if length < 0 || end > len(r) {
		end = len(r)
	}
	if end < begin {
		return ""
	}
	return string(r[begin:end])
}

// aggregateReduce computes one of COUNT/SUM/AVG/MIN/MAX over a group's rows
// for the given AggregateExpr, skipping NULL evaluations for every
// aggregate except COUNT(*).
func aggregateReduce(ctx *EvaluationContext, agg *AggregateExpr, group []TupleWithSource) (value.Value, error) {
	if agg.Star {
		return value.NewInt(int64(len(group))), nil
	}
	var vals []value.Value
	for _, row := range group {
		v, err := agg.Arg.Evaluate(ctx, row)
		if err != nil {
			return value.Value{}, err
		}
		if v.IsNull() {
			continue
		}
		vals = append(vals, v)
	}
	switch agg.Name {
	case "COUNT":
		return value.NewInt(int64(len(vals))), nil
	case "SUM":
		if len(vals) == 0 {
			return value.NewNull(), nil
		}
		return reduceNumeric(vals, func(acc, v float64) float64 { return acc + v }, 0)
	case "AVG":
		if len(vals) == 0 {
			return value.NewNull(), nil
		}
		sum, err := reduceNumeric(vals, func(acc, v float64) float64 { return acc + v }, 0)
		if err != nil {
			return value.Value{}, err
		}
		f, _ := sum.ToFloat()
		return value.NewFloat(f / float64(len(vals))), nil
	case "MIN":
		if len(vals) == 0 {
			return value.NewNull(), nil
		}
		best := vals[0]
		for _, v := range vals[1:] {
			c, err := value.Compare(v, best)
			if err != nil {
				return value.Value{}, err
			}
			if c < 0 {
				best = v
			}
		}
		return best, nil
	case "MAX":
		if len(vals) == 0 {
			return value.NewNull(), nil
		}
		best := vals[0]
		for _, v := range vals[1:] {
			c, err := value.Compare(v, best)
			if err != nil {
				return value.Value{}, err
			}
			if c > 0 {
				best = v
			}
		}
		return best, nil
	}
	return value.Value{}, semanticError("unknown aggregate function %q", agg.Name)
}

// reduceNumeric folds vals, producing a Float result if any operand is
// Float and an Int result otherwise.
func reduceNumeric(vals []value.Value, f func(acc, v float64) float64, init float64) (value.Value, error) {
	acc := init
	isFloat := false
	for _, v := range vals {
		if v.Type() == value.Float {
			isFloat = true
		}
		n, err := v.ToFloat()
		if err != nil {
			return value.Value{}, err
		}
		acc = f(acc, n)
	}
	if isFloat {
		return value.NewFloat(acc), nil
	}
	return value.NewInt(int64(acc)), nil
}
