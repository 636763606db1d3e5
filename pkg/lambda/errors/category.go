// Package errors defines the error taxonomy of the expression engine.
//
// Every failure is reported as exactly one typed error:
//   - Compile phase: LexError, SyntaxError
//   - Evaluate phase: NullTargetError, MissingMemberError, ArgumentConversionError,
//     IncomparableTypesError, ArithmeticError, RankMismatchError, ConversionError
//   - Host phase: InvocationError (the failure came from inside a host member)
//
// Use errors.As from the standard library to inspect a specific type, or
// Categorize to find out which phase produced the failure.
package errors

import (
	"errors"
)

// Phase identifies which stage of an evaluation produced an error.
type Phase int

const (
	// PhaseUnknown indicates the error is not part of the taxonomy.
	PhaseUnknown Phase = iota

	// PhaseCompile indicates a tokenizer or parser failure.
	// Compile failures are never cached.
	PhaseCompile

	// PhaseEvaluate indicates a failure while walking the tree.
	PhaseEvaluate

	// PhaseHost indicates a failure raised by a host member.
	PhaseHost
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCompile:
		return "compile"
	case PhaseEvaluate:
		return "evaluate"
	case PhaseHost:
		return "host"
	default:
		return "unknown"
	}
}

// Categorize determines which phase produced err.
func Categorize(err error) Phase {
	if err == nil {
		return PhaseUnknown
	}

	var lexErr *LexError
	if errors.As(err, &lexErr) {
		return PhaseCompile
	}
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return PhaseCompile
	}

	// Host failures can wrap anything, so they are checked before the
	// evaluation errors they might contain.
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return PhaseHost
	}

	var (
		nullErr  *NullTargetError
		missErr  *MissingMemberError
		argErr   *ArgumentConversionError
		cmpErr   *IncomparableTypesError
		arithErr *ArithmeticError
		rankErr  *RankMismatchError
		convErr  *ConversionError
	)
	switch {
	case errors.As(err, &nullErr),
		errors.As(err, &missErr),
		errors.As(err, &argErr),
		errors.As(err, &cmpErr),
		errors.As(err, &arithErr),
		errors.As(err, &rankErr),
		errors.As(err, &convErr):
		return PhaseEvaluate
	}

	return PhaseUnknown
}

// IsCompileError reports whether err came from tokenizing or parsing.
func IsCompileError(err error) bool {
	return Categorize(err) == PhaseCompile
}
