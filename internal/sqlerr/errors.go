// Package sqlerr defines the error taxonomy shared by the translator packages.
package sqlerr

import (
	"errors"
	"fmt"
)

// Code categorizes translator errors.
type Code string

const (
	// CodeMalformedStatement indicates the input is not a SELECT ... FROM ... statement
	// in the supported shape.
	CodeMalformedStatement Code = "MALFORMED_STATEMENT"

	// CodeMalformedCondition indicates a WHERE leaf is not <field> <operator> [<value>]
	// or uses an unsupported operator.
	CodeMalformedCondition Code = "MALFORMED_CONDITION"

	// CodeInvalidCollection indicates a query model was built without a collection.
	CodeInvalidCollection Code = "INVALID_COLLECTION"
)

// Error represents a translation failure.
//
// Errors are fatal to the call that produced them; there is never a partial result.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Input is the text that failed (statement, clause or collection name).
	Input string

	// Pos is the byte offset into Input where the problem was found, or -1.
	Pos int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (at offset %d)", e.Code, e.Message, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MalformedStatement creates an Error for a statement that does not match the grammar.
func MalformedStatement(input string, pos int, format string, args ...any) *Error {
	return &Error{
		Code:    CodeMalformedStatement,
		Message: fmt.Sprintf(format, args...),
		Input:   input,
		Pos:     pos,
	}
}

// MalformedCondition creates an Error for an unparseable WHERE condition.
func MalformedCondition(input string, pos int, format string, args ...any) *Error {
	return &Error{
		Code:    CodeMalformedCondition,
		Message: fmt.Sprintf(format, args...),
		Input:   input,
		Pos:     pos,
	}
}

// InvalidCollection creates an Error for a blank collection name.
func InvalidCollection(name string) *Error {
	return &Error{
		Code:    CodeInvalidCollection,
		Message: fmt.Sprintf("collection must be set, got %q", name),
		Input:   name,
		Pos:     -1,
	}
}

// CodeOf returns the Code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// IsMalformedStatement returns true if err is a MALFORMED_STATEMENT error.
// Uses errors.As to handle wrapped errors.
func IsMalformedStatement(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeMalformedStatement
}

// IsMalformedCondition returns true if err is a MALFORMED_CONDITION error.
func IsMalformedCondition(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeMalformedCondition
}

// IsInvalidCollection returns true if err is an INVALID_COLLECTION error.
func IsInvalidCollection(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeInvalidCollection
}
