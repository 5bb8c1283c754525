// This file defines every expression and statement AST node the parser
// produces and the executors consume.
//
// What: Expr nodes implement Evaluate(ctx, row) (value.Value, error);
// AggregateExpr additionally implements Aggregate(ctx, group) and reports
// true from IsAggregate() so the executor can tell aggregate and scalar
// expressions apart without a type switch at every call site, per the
// explicit-discriminator design note. Statement nodes carry just enough
// structure for the executors in exec_select.go/exec_dml.go/exec_ddl.go to
// walk without re-parsing anything.
// How: plain structs, grounded on the teacher's internal/engine/parser.go
// node shapes (SelectStmt, InsertStmt, ...), generalized with the
// additional clauses this engine supports (BETWEEN, IN, CASE, subqueries,
// TOP PERC, SELECT INTO, UNION).
package engine

import (
	"github.com/nanosql/nanosql/internal/storage"
	"github.com/nanosql/nanosql/internal/value"
)

// Expr is any node that can be evaluated against a single row.
type Expr interface {
	Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error)
	IsAggregate() bool
}

// baseExpr gives every non-aggregate node a default IsAggregate() of false.
type baseExpr struct{}

func (baseExpr) IsAggregate() bool { return false }

// Literal is a constant value parsed directly from the SQL text.
type Literal struct {
	baseExpr
	Val value.Value
}

// ColumnRef names a (possibly table-qualified) column.
type ColumnRef struct {
	baseExpr
	Table string // empty when unqualified
	Name  string
}

// Star represents SELECT * or table.* ; only legal as a top-level
// projection item, never nested inside another expression.
type Star struct {
	baseExpr
	Table string // empty means every source
}

// UnaryExpr is NOT x or -x.
type UnaryExpr struct {
	baseExpr
	Op string // "NOT", "-"
	X  Expr
}

// BinaryExpr covers arithmetic, comparison, and AND/OR.
type BinaryExpr struct {
	baseExpr
	Op          string
	Left, Right Expr
}

// BetweenExpr is `X [NOT] BETWEEN Lo AND Hi`.
type BetweenExpr struct {
	baseExpr
	X      Expr
	Lo, Hi Expr
	Not    bool
}

// InExpr is `X [NOT] IN (expr, ...)` or `X [NOT] IN (subquery)`.
type InExpr struct {
	baseExpr
	X    Expr
	List []Expr // nil when Sub is set
	Sub  *SubqueryExpr
	Not  bool
}

// LikeExpr is `X [NOT] LIKE pattern`.
type LikeExpr struct {
	baseExpr
	X       Expr
	Pattern Expr
	Not     bool
}

// MatchExpr is `X MATCH pattern`, a regular-expression test.
type MatchExpr struct {
	baseExpr
	X       Expr
	Pattern Expr
}

// IsExpr is `X IS [NOT] NULL`.
type IsExpr struct {
	baseExpr
	X   Expr
	Not bool
}

// CaseWhen is one WHEN cond THEN result arm of a CaseExpr.
type CaseWhen struct {
	Cond   Expr
	Result Expr
}

// CaseExpr is the searched or simple CASE expression. When Operand is
// non-nil this is a simple CASE (Operand = value in each WHEN); otherwise
// each When.Cond is a boolean predicate.
type CaseExpr struct {
	baseExpr
	Operand Expr
	Whens   []CaseWhen
	Else    Expr // nil means implicit NULL
}

// FuncCallExpr is a scalar builtin function call, e.g. UPPER(x).
type FuncCallExpr struct {
	baseExpr
	Name string
	Args []Expr
}

// AggregateExpr is COUNT/SUM/AVG/MIN/MAX applied over a group of rows.
// Evaluate refuses per-row evaluation; the executor must call Aggregate on
// the full set of rows belonging to a group instead.
type AggregateExpr struct {
	Name string // "COUNT", "SUM", "AVG", "MIN", "MAX"
	Arg  Expr   // nil for COUNT(*)
	Star bool
}

func (a *AggregateExpr) IsAggregate() bool { return true }

func (a *AggregateExpr) Evaluate(ctx *EvaluationContext, row TupleWithSource) (value.Value, error) {
	return value.Value{}, semanticError("aggregate function %s cannot be evaluated per row", a.Name)
}

// SubqueryExpr wraps a nested SELECT used as a scalar or IN-list producer.
type SubqueryExpr struct {
	baseExpr
	Stmt *SelectStmt
}

// OrderItem is one ORDER BY term.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// ProjItem is one SELECT list entry.
type ProjItem struct {
	Expr  Expr
	Alias string // empty when unaliased
}

// JoinClause is one JOIN in a FROM clause.
type JoinClause struct {
	Kind  string // "INNER", "LEFT", "RIGHT", "FULL", "CROSS"
	Table TableRef
	On    Expr // nil for CROSS JOIN
}

// TableRef is one FROM-clause source: a named table, or a derived subquery.
type TableRef struct {
	Name  string        // table name, empty when Sub is set
	Alias string        // empty means use Name
	Sub   *SelectStmt   // derived table, nil for a plain table reference
}

// SelectStmt is a full SELECT, including its optional UNION continuation.
type SelectStmt struct {
	Distinct bool
	Top      *int    // nil means no TOP clause
	TopPerc  bool    // true means Top is a percentage
	Cols     []ProjItem
	From     *TableRef // nil means SELECT with no FROM
	Joins    []JoinClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderItem
	Into     string // SELECT INTO target table name, empty when absent

	Union     *UnionClause // nil when this is not a set operation
}

// UnionClause chains a set operator and its right-hand SELECT.
type UnionClause struct {
	Op    string // "UNION", "UNION ALL", "EXCEPT", "INTERSECT"
	Right *SelectStmt
}

// Stmt is any top-level statement the parser can produce.
type Stmt interface{}

// InsertStmt is INSERT INTO table (cols) VALUES (...), ... | INSERT INTO
// table (cols) SELECT ...
type InsertStmt struct {
	Table  string
	Cols   []string // empty means "all columns, in declaration order"
	Rows   [][]Expr // nil when Sub is set
	Sub    *SelectStmt
}

// Assignment is one `col = expr` pair in an UPDATE's SET clause.
type Assignment struct {
	Col  string
	Expr Expr
}

// UpdateStmt is UPDATE table SET ... [WHERE ...].
type UpdateStmt struct {
	Table string
	Set   []Assignment
	Where Expr
}

// DeleteStmt is DELETE FROM table [WHERE ...].
type DeleteStmt struct {
	Table string
	Where Expr
}

// ColumnDef is one column definition inside CREATE TABLE or ALTER TABLE ADD.
type ColumnDef struct {
	Name          string
	Type          storage.ColType
	AutoIncrement bool
	Unique        bool
	NotNull       bool
	PrimaryKey    bool
	Default       Expr
	ForeignKey    *storage.ForeignKeyRef
}

// TableCheck is a table-level CHECK(...) or CONSTRAINT name CHECK(...).
type TableCheck struct {
	Name string
	Expr Expr
}

// CreateTableStmt is CREATE TABLE [IF NOT EXISTS] name (...).
type CreateTableStmt struct {
	Name        string
	IfNotExists bool
	Cols        []ColumnDef
	Checks      []TableCheck
}

// AlterAction is one clause of an ALTER TABLE statement, applied in the
// order ADD -> ALTER -> DROP regardless of how the user wrote them.
type AlterAction struct {
	Kind   string // "ADD", "ALTER", "DROP"
	Col    ColumnDef
	DropOf string // column name, used when Kind == "DROP"
}

// AlterTableStmt is ALTER TABLE name action, action, ...
type AlterTableStmt struct {
	Table   string
	Actions []AlterAction
}

// DropTableStmt is DROP TABLE [IF EXISTS] name.
type DropTableStmt struct {
	Name     string
	IfExists bool
}

// TruncateTableStmt is TRUNCATE TABLE name.
type TruncateTableStmt struct {
	Name string
}
