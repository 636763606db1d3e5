package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrIndexOutOfRange indicates a list or string index outside its bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDivideByZero indicates a division or modulo with a zero divisor.
	ErrDivideByZero = errors.New("division by zero")

	// ErrNotCallable indicates a free call on a value that is not a function.
	ErrNotCallable = errors.New("value is not callable")
)

// LexError reports a malformed token.
type LexError struct {
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at position %d: %s", e.Pos, e.Msg)
}

// SyntaxError reports a grammar mismatch.
type SyntaxError struct {
	Pos      int
	Expected string
	Found    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// NullTargetError indicates member access, a call or an indexer on null.
type NullTargetError struct {
	Name string
}

// Error implements the error interface.
func (e *NullTargetError) Error() string {
	return fmt.Sprintf("target of %s is null", e.Name)
}

// MissingMemberError indicates no member matched the name and arity.
type MissingMemberError struct {
	TargetKind  string
	Name        string
	Arity       int
	Suggestions []string
}

// Error implements the error interface.
func (e *MissingMemberError) Error() string {
	msg := fmt.Sprintf("%s has no member %s with %d argument(s)", e.TargetKind, e.Name, e.Arity)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

// ArgumentConversionError indicates an argument could not be converted to
// the selected parameter type.
type ArgumentConversionError struct {
	Index int
	From  string
	To    string
	Err   error
}

// Error implements the error interface.
func (e *ArgumentConversionError) Error() string {
	return fmt.Sprintf("cannot convert argument #%d from %s to %s", e.Index, e.From, e.To)
}

// Unwrap returns the underlying conversion error.
func (e *ArgumentConversionError) Unwrap() error {
	return e.Err
}

// InvocationError wraps a failure raised inside a host member.
type InvocationError struct {
	Member string
	Err    error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s: %v", e.Member, e.Err)
}

// Unwrap returns the inner cause.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// IncomparableTypesError indicates two values have no common ordering.
type IncomparableTypesError struct {
	Left  string
	Right string
}

// Error implements the error interface.
func (e *IncomparableTypesError) Error() string {
	return fmt.Sprintf("cannot compare %s and %s", e.Left, e.Right)
}

// ArithmeticError reports a failed arithmetic operation.
type ArithmeticError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause, usually ErrDivideByZero.
func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// RankMismatchError indicates the indexer argument count does not match the
// dimensionality of the target.
type RankMismatchError struct {
	Rank    int
	Indices int
}

// Error implements the error interface.
func (e *RankMismatchError) Error() string {
	return fmt.Sprintf("rank (%d) doesn't match number of indices (%d)", e.Rank, e.Indices)
}

// ConversionError is returned by the conversion service.
type ConversionError struct {
	From string
	To   string
	Err  error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %s to %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}
