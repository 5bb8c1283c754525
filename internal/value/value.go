// Package value implements the runtime Value and Tuple types shared by the
// storage and engine packages.
//
// What: Value is a tagged union over {Null, Int, Float, Varchar, Bool, Time,
// ResultSet}; Tuple is a fixed-arity, positionally-comparable sequence of
// Values used as both table rows and grouping keys.
// How: Coercion (ToInt/ToFloat/ToString/ToBool) and the arithmetic/
// comparison operators are implemented as single decision tables keyed on
// the left-hand operand's type tag, rather than scattered across per-type
// methods, so every type pairing is defined in one place.
// Why: Keeping the value model closed and table-driven is what lets the
// expression evaluator stay small — every AST node defers type questions to
// this package instead of re-deriving coercion rules itself.
package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type tags the payload carried by a Value.
type Type int

const (
	Null Type = iota
	Int
	Float
	Varchar
	Bool
	Time
	ResultSetType
)

func (t Type) String() string {
	switch t {
	case Null:
		return "NULL"
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Varchar:
		return "VARCHAR"
	case Bool:
		return "BOOL"
	case Time:
		return "TIME"
	case ResultSetType:
		return "RESULTSET"
	default:
		return "UNKNOWN"
	}
}

// ResultSetLike is satisfied by *engine.ResultSet. Declared here (rather
// than importing the engine package, which would create an import cycle)
// because Value must be able to hold a result set as an ordinary operand.
type ResultSetLike interface {
	ColumnNames() []string
	RowCount() int
	ColCount() int
	CellAt(row, col int) Value
}

// Value is a tagged union. The zero Value is Null.
type Value struct {
	typ Type
	i   int64
	f   float64
	s   string
	b   bool
	t   time.Time
	rs  ResultSetLike
}

func NewNull() Value                       { return Value{typ: Null} }
func NewInt(i int64) Value                 { return Value{typ: Int, i: i} }
func NewFloat(f float64) Value             { return Value{typ: Float, f: f} }
func NewVarchar(s string) Value            { return Value{typ: Varchar, s: s} }
func NewBool(b bool) Value                 { return Value{typ: Bool, b: b} }
func NewTime(t time.Time) Value            { return Value{typ: Time, t: t} }
func NewResultSet(rs ResultSetLike) Value  { return Value{typ: ResultSetType, rs: rs} }

func (v Value) Type() Type   { return v.typ }
func (v Value) IsNull() bool { return v.typ == Null }

// coercionError reports a disallowed coercion in the spec's error-category
// vocabulary ("type error").
func coercionError(from Type, to string) error {
	return fmt.Errorf("cannot convert %s to %s", from, to)
}

// scalarCell reduces a single-row, single-column ResultSet to its one cell,
// per spec: "ResultSet→scalar requires exactly one row and one column".
func (v Value) scalarCell() (Value, error) {
	rs := v.rs
	if rs.RowCount() != 1 {
		return Value{}, fmt.Errorf("result set must have exactly one row to be used as a scalar, got %d", rs.RowCount())
	}
	if rs.ColCount() != 1 {
		return Value{}, fmt.Errorf("result set must have exactly one column to be used as a scalar, got %d", rs.ColCount())
	}
	return rs.CellAt(0, 0), nil
}

// ToInt coerces the value to an int64. Null coerces to numeric zero (the
// documented quirk carried forward from the reference implementation, see
// SPEC_FULL.md / DESIGN.md).
func (v Value) ToInt() (int64, error) {
	switch v.typ {
	case Null:
		return 0, nil
	case Int:
		return v.i, nil
	case Float:
		return int64(v.f), nil
	case Varchar:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a valid int", v.s)
		}
		return n, nil
	case Bool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case Time:
		return v.t.Unix(), nil
	case ResultSetType:
		cell, err := v.scalarCell()
		if err != nil {
			return 0, err
		}
		return cell.ToInt()
	}
	return 0, coercionError(v.typ, "INT")
}

// ToFloat coerces the value to a float64. Time has no defined coercion to
// float and is a type error, per spec.
func (v Value) ToFloat() (float64, error) {
	switch v.typ {
	case Null:
		return 0, nil
	case Int:
		return float64(v.i), nil
	case Float:
		return v.f, nil
	case Varchar:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a valid float", v.s)
		}
		return f, nil
	case Bool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case Time:
		return 0, coercionError(Time, "FLOAT")
	case ResultSetType:
		cell, err := v.scalarCell()
		if err != nil {
			return 0, err
		}
		return cell.ToFloat()
	}
	return 0, coercionError(v.typ, "FLOAT")
}

// ToString renders the value in its canonical textual form.
func (v Value) ToString() (string, error) {
	switch v.typ {
	case Null:
		return "null", nil
	case Int:
		return strconv.FormatInt(v.i, 10), nil
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64), nil
	case Varchar:
		return v.s, nil
	case Bool:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case Time:
		return v.t.UTC().Format("2006-01-02T15:04:05Z"), nil
	case ResultSetType:
		cell, err := v.scalarCell()
		if err != nil {
			return "", err
		}
		return cell.ToString()
	}
	return "", coercionError(v.typ, "VARCHAR")
}

// ToBool coerces via ToInt, consistent with the reference's numeric-zero
// semantics: any nonzero integral representation is true.
func (v Value) ToBool() (bool, error) {
	if v.typ == Bool {
		return v.b, nil
	}
	n, err := v.ToInt()
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// ToResultSet unwraps a ResultSet-typed value.
func (v Value) ToResultSet() (ResultSetLike, error) {
	if v.typ != ResultSetType {
		return nil, fmt.Errorf("value of type %s is not a result set", v.typ)
	}
	return v.rs, nil
}

// ToTime coerces to time.Time; only Time values carry one directly.
func (v Value) ToTime() (time.Time, error) {
	if v.typ == Time {
		return v.t, nil
	}
	return time.Time{}, coercionError(v.typ, "TIME")
}

// DebugString renders a type-tagged form useful for diagnostics.
func (v Value) DebugString() string {
	s, err := v.ToString()
	if err != nil {
		return fmt.Sprintf("<%s: unprintable>", v.typ)
	}
	switch v.typ {
	case Varchar:
		return fmt.Sprintf("varchar '%s'", s)
	case Null:
		return "null"
	default:
		return fmt.Sprintf("%s %s", strings.ToLower(v.typ.String()), s)
	}
}

func (v Value) String() string {
	s, err := v.ToString()
	if err != nil {
		return "<invalid>"
	}
	return s
}

// Add implements ArithmeticOperator '+', dispatching on the lhs type.
func Add(lhs, rhs Value) (Value, error) {
	switch lhs.typ {
	case Bool:
		l, _ := lhs.ToInt()
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewBool((l + r) != 0), nil
	case Int:
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewInt(lhs.i + r), nil
	case Float:
		r, err := rhs.ToFloat()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(lhs.f + r), nil
	case Null:
		return NewNull(), nil
	case Varchar:
		r, err := rhs.ToString()
		if err != nil {
			return Value{}, err
		}
		return NewVarchar(lhs.s + r), nil
	case Time:
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewTime(lhs.t.Add(time.Duration(r) * time.Second)), nil
	case ResultSetType:
		return Value{}, fmt.Errorf("no matching operator '+' for RESULTSET type")
	}
	return Value{}, coercionError(lhs.typ, "operand of '+'")
}

// Sub implements ArithmeticOperator '-'.
func Sub(lhs, rhs Value) (Value, error) {
	switch lhs.typ {
	case Bool:
		l, _ := lhs.ToInt()
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewBool((l - r) != 0), nil
	case Int:
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewInt(lhs.i - r), nil
	case Float:
		r, err := rhs.ToFloat()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(lhs.f - r), nil
	case Null:
		return NewNull(), nil
	case Varchar:
		return Value{}, fmt.Errorf("no matching operator '-' for VARCHAR type")
	case Time:
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewTime(lhs.t.Add(-time.Duration(r) * time.Second)), nil
	case ResultSetType:
		return Value{}, fmt.Errorf("no matching operator '-' for RESULTSET type")
	}
	return Value{}, coercionError(lhs.typ, "operand of '-'")
}

// Mul implements ArithmeticOperator '*'.
func Mul(lhs, rhs Value) (Value, error) {
	switch lhs.typ {
	case Bool:
		l, _ := lhs.ToInt()
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewBool((l * r) != 0), nil
	case Int:
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		return NewInt(lhs.i * r), nil
	case Float:
		r, err := rhs.ToFloat()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(lhs.f * r), nil
	case Null:
		return NewNull(), nil
	case Varchar:
		return Value{}, fmt.Errorf("no matching operator '*' for VARCHAR type")
	case Time:
		return Value{}, fmt.Errorf("no matching operator '*' for TIME type")
	case ResultSetType:
		return Value{}, fmt.Errorf("no matching operator '*' for RESULTSET type")
	}
	return Value{}, coercionError(lhs.typ, "operand of '*'")
}

// Div implements ArithmeticOperator '/'. Division by zero is a type/arity
// error, matching the reference's behavior of failing the statement.
func Div(lhs, rhs Value) (Value, error) {
	switch lhs.typ {
	case Bool:
		l, _ := lhs.ToInt()
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		if r == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return NewBool((l / r) != 0), nil
	case Int:
		r, err := rhs.ToInt()
		if err != nil {
			return Value{}, err
		}
		if r == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return NewInt(lhs.i / r), nil
	case Float:
		r, err := rhs.ToFloat()
		if err != nil {
			return Value{}, err
		}
		if r == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return NewFloat(lhs.f / r), nil
	case Null:
		return NewNull(), nil
	case Varchar:
		return Value{}, fmt.Errorf("no matching operator '/' for VARCHAR type")
	case Time:
		return Value{}, fmt.Errorf("no matching operator '/' for TIME type")
	case ResultSetType:
		return Value{}, fmt.Errorf("no matching operator '/' for RESULTSET type")
	}
	return Value{}, coercionError(lhs.typ, "operand of '/'")
}

// Compare returns -1, 0, or 1 for lhs<rhs, lhs==rhs, lhs>rhs, dispatching on
// the lhs type in a single decision table. A Null lhs compares through
// ToInt on both sides (numeric zero); a Null rhs is coerced by the lhs
// type's rule, so it reads as zero against a number and as the string
// "null" against a VARCHAR. This replaces three-valued SQL NULL logic — a
// deliberate, documented simplification (see DESIGN.md).
func Compare(lhs, rhs Value) (int, error) {
	switch lhs.typ {
	case Bool, Int, Null, Time:
		l, err := lhs.ToInt()
		if err != nil {
			return 0, err
		}
		r, err := rhs.ToInt()
		if err != nil {
			return 0, err
		}
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		default:
			return 0, nil
		}
	case Float:
		l, err := lhs.ToFloat()
		if err != nil {
			return 0, err
		}
		r, err := rhs.ToFloat()
		if err != nil {
			return 0, err
		}
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		default:
			return 0, nil
		}
	case Varchar:
		l, err := lhs.ToString()
		if err != nil {
			return 0, err
		}
		r, err := rhs.ToString()
		if err != nil {
			return 0, err
		}
		return strings.Compare(l, r), nil
	case ResultSetType:
		return 0, fmt.Errorf("no matching comparison operator for RESULTSET type")
	}
	return 0, coercionError(lhs.typ, "comparable operand")
}

// Equal reports whether lhs and rhs compare equal under Compare's rules.
func Equal(lhs, rhs Value) (bool, error) {
	c, err := Compare(lhs, rhs)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// Tuple is a fixed-arity, ordered sequence of Values used as table rows and
// grouping keys. Tuples are cheap to copy (a Go slice header) and compared
// positionally.
type Tuple []Value

// Equal reports positional equality using numeric-zero/lexicographic
// Compare semantics; a comparison error is treated as inequality so that
// grouping never panics on heterogeneous, partially-incomparable rows.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		eq, err := Equal(t[i], other[i])
		if err != nil || !eq {
			return false
		}
	}
	return true
}

// Key returns a canonical string encoding of the tuple suitable for use as
// a Go map key when grouping rows by equal tuples. Each value is prefixed
// with its type tag so that, e.g., the int 1 and the varchar "1" never
// collide.
func (t Tuple) Key() string {
	var b strings.Builder
	for i, v := range t {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		s, err := v.ToString()
		if err != nil {
			s = "<error>"
		}
		fmt.Fprintf(&b, "%d:%s", v.typ, s)
	}
	return b.String()
}

// Clone returns a shallow copy of the tuple (Values themselves are
// immutable value types, so this is a full logical copy).
func (t Tuple) Clone() Tuple {
	out := make(Tuple, len(t))
	copy(out, t)
	return out
}
