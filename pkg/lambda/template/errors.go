package template

import (
	"errors"
	"fmt"
	"strings"
)

var errUnclosed = errors.New("unclosed placeholder")

// UndefinedVariableError is returned when MissingError is set and
// one or more placeholders had no value.
type UndefinedVariableError struct {
	// Names holds the variable names or expression sources.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// ExpressionError reports a placeholder that failed to compile or
// evaluate.
type ExpressionError struct {
	Expr string
	// Offset is the position of the placeholder's '$'.
	Offset int
	Err    error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression %q at offset %d: %v", e.Expr, e.Offset, e.Err)
}

func (e *ExpressionError) Unwrap() error {
	return e.Err
}
