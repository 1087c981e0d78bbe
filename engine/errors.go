/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The host layer surfaces these messages verbatim, so they carry the
  offending expression text and concrete cause.

ERROR CATEGORIES:
  1. Evaluation errors - bad syntax, unknown symbols/functions, wrong arity
  2. Division by zero - distinguished so callers can give a specific diagnostic
  3. Formula errors - wrap an evaluation error with the failing formula's
     name and expression

USAGE:
  Callers can branch with errors.Is():

    if errors.Is(err, engine.ErrDivisionByZero) {
        ...
    }

  Condition evaluation never returns errors: malformed rules degrade to
  false by design, because rule configuration is data, not code.
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEvaluation is the base class for all expression evaluation failures:
	// invalid syntax, unknown identifiers, unknown functions, wrong arity,
	// or a non-numeric result.
	ErrEvaluation = errors.New("expression evaluation failed")

	// ErrDivisionByZero is returned when an expression divides by zero.
	// Kept distinct from ErrEvaluation so hosts can report it specifically.
	ErrDivisionByZero = errors.New("division by zero")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EvalError describes why an expression could not be evaluated.
type EvalError struct {
	Expression string
	Reason     string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("invalid expression '%s': %s", e.Expression, e.Reason)
}

func (e *EvalError) Unwrap() error { return ErrEvaluation }

// DivisionByZeroError reports a zero divisor, with the offending expression.
type DivisionByZeroError struct {
	Expression string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("divide by zero in expression '%s'", e.Expression)
}

func (e *DivisionByZeroError) Unwrap() error { return ErrDivisionByZero }

// FormulaError wraps a lower-level evaluation error with the failing
// formula's name and source expression for diagnostics.
type FormulaError struct {
	FormulaName string
	Expression  string
	Err         error
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("error evaluating formula '%s' ('%s'): %v",
		e.FormulaName, e.Expression, e.Err)
}

func (e *FormulaError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsEvaluationError reports whether err originated in expression evaluation,
// including division by zero.
func IsEvaluationError(err error) bool {
	return errors.Is(err, ErrEvaluation) || errors.Is(err, ErrDivisionByZero)
}
