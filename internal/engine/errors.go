// Package engine implements the SQL lexer, parser, expression/statement AST,
// and statement executors for the embeddable engine.
//
// This file defines the single error kind propagated through every
// fallible operation in the engine: SQLError{Message, Offset}. Category is
// conveyed by message prefix, not by distinct Go types, per the error model
// in SPEC_FULL.md §7 — grounded on original_source/db/core's
// DbError{message, source_offset} and the teacher's "parse error near %q"
// style (internal/engine/parser.go's errf).
package engine

import "fmt"

// SQLError is the one error kind the engine ever returns. Offset is a byte
// offset into the original SQL text, or -1 when no specific location
// applies (e.g. a runtime constraint violation discovered mid-statement).
type SQLError struct {
	Message string
	Offset  int
	cause   error
}

func (e *SQLError) Error() string {
	return e.Message
}

func (e *SQLError) Unwrap() error { return e.cause }

func newErr(offset int, format string, a ...any) *SQLError {
	return &SQLError{Message: fmt.Sprintf(format, a...), Offset: offset}
}

func wrapErr(offset int, cause error, format string, a ...any) *SQLError {
	return &SQLError{Message: fmt.Sprintf(format, a...), Offset: offset, cause: cause}
}

// lexError reports an unrecognized character or malformed literal.
func lexError(offset int, format string, a ...any) *SQLError { return newErr(offset, format, a...) }

// parseError reports "expected X, got Y" style grammar violations.
func parseError(offset int, format string, a ...any) *SQLError { return newErr(offset, format, a...) }

// nameError reports unknown/ambiguous column, table, or alias references.
func nameError(format string, a ...any) *SQLError { return newErr(-1, format, a...) }

// typeErrorf reports a disallowed coercion or operator for a type.
func typeErrorf(format string, a ...any) *SQLError { return newErr(-1, format, a...) }

// constraintError reports NOT NULL / UNIQUE / FOREIGN KEY / CHECK
// violations.
func constraintError(format string, a ...any) *SQLError { return newErr(-1, format, a...) }

// arityError reports INSERT column/value mismatch, UNION column-set
// mismatch, or scalar-subquery rows/columns != 1.
func arityError(format string, a ...any) *SQLError { return newErr(-1, format, a...) }

// semanticError reports non-aggregate-outside-GROUP-BY, ORDER BY ordinal
// out of range, bad TOP PERC, SELECT * without FROM, and similar.
func semanticError(format string, a ...any) *SQLError { return newErr(-1, format, a...) }

// ioErrorf reports CSV open/parse failures and similar collaborator errors.
func ioErrorf(cause error, format string, a ...any) *SQLError {
	return wrapErr(-1, cause, format, a...)
}
