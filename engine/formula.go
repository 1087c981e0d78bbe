/*
formula.go - Ordered evaluation of named formulas

PURPOSE:
  Runs a product version's formulas in execution order against input
  parameters. Each result is written back into the working context under
  the formula's name, so later formulas can reference earlier results:

    GMB = AP * 11.5          (order 1)
    GSV = GMB * 0.30         (order 2, sees GMB)

  Evaluation is strictly single-pass: a formula can never reference a
  result with a later execution order, no matter how the list is named.

FAILURE MODE:
  Fail-fast. The first formula that errors aborts the whole batch and no
  partial result map is returned. The error carries the formula name,
  expression text, and the underlying cause verbatim.
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// FormulaEngine evaluates ordered formula batches. It holds no per-call
// state; concurrent use is safe.
type FormulaEngine struct{}

// NewFormulaEngine creates a formula engine.
func NewFormulaEngine() *FormulaEngine { return &FormulaEngine{} }

// Evaluate runs formulas in ascending ExecutionOrder (stable on ties)
// against inputs and returns only the formula-produced values, keyed by
// each formula's declared name. Input names are excluded from the result.
func (fe *FormulaEngine) Evaluate(formulas []Formula, inputs *Context) (map[string]decimal.Decimal, error) {
	ordered := make([]Formula, len(formulas))
	copy(ordered, formulas)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExecutionOrder < ordered[j].ExecutionOrder
	})

	working := NewContext()
	if inputs != nil {
		working = inputs.Clone()
	}

	for _, f := range ordered {
		value, err := EvaluateExpression(f.Expression, working)
		if err != nil {
			return nil, &FormulaError{
				FormulaName: f.Name,
				Expression:  f.Expression,
				Err:         err,
			}
		}
		working.Set(f.Name, value)
	}

	results := make(map[string]decimal.Decimal, len(ordered))
	for _, f := range ordered {
		if v, ok := working.Get(f.Name); ok {
			results[f.Name] = v
		}
	}
	return results, nil
}

// EvaluateExpression evaluates a single ad-hoc expression against inputs.
// Used by interactive "test this formula" workflows; no stored Formula
// record is required.
func (fe *FormulaEngine) EvaluateExpression(expression string, inputs *Context) (decimal.Decimal, error) {
	return EvaluateExpression(expression, inputs)
}
