/*
eval.go - Expression evaluation and the built-in function table

PURPOSE:
  Interprets a parsed expression tree against a named-value context. All
  arithmetic is decimal; POWER alone routes through float64, matching how
  non-integer exponents are conventionally computed for these products.

BUILT-IN FUNCTIONS (case-insensitive):
  MAX(a, b, ...)   largest argument (at least one required)
  MIN(a, b, ...)   smallest argument
  SUM(a, b, ...)   arithmetic sum
  ROUND(x [, d])   x rounded to d digits, half away from zero; d defaults to 0
  IF(cond, a, b)   a if cond is non-zero, else b; only the chosen branch runs
  POWER(base, exp) base raised to exp

TRUTHINESS:
  Comparisons and logical connectives produce 1 or 0. Any non-zero value
  is truthy, so IF(AP > 100000, x, y) composes naturally.

ERROR BEHAVIOR:
  Unknown identifiers and functions, wrong arity, and malformed syntax all
  return *EvalError. A zero divisor returns *DivisionByZeroError carrying
  the full expression text. Names are never silently defaulted to zero.
*/
package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// EvaluateExpression parses and evaluates a single expression against ctx.
// A nil ctx is treated as empty.
func EvaluateExpression(expression string, ctx *Context) (decimal.Decimal, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	node, err := parseExpression(expression)
	if err != nil {
		return decimal.Zero, err
	}
	ev := &evaluator{source: expression, ctx: ctx}
	return ev.eval(node)
}

type evaluator struct {
	source string
	ctx    *Context
}

func (ev *evaluator) eval(node exprNode) (decimal.Decimal, error) {
	switch n := node.(type) {
	case *numberNode:
		return n.value, nil

	case *identNode:
		v, ok := ev.ctx.Get(n.name)
		if !ok {
			return decimal.Zero, &EvalError{
				Expression: ev.source,
				Reason:     fmt.Sprintf("unknown symbol '%s'", n.name),
			}
		}
		return v, nil

	case *unaryNode:
		v, err := ev.eval(n.operand)
		if err != nil {
			return decimal.Zero, err
		}
		if n.op == "!" {
			return boolToDecimal(v.IsZero()), nil
		}
		return v.Neg(), nil

	case *binaryNode:
		return ev.evalBinary(n)

	case *callNode:
		fn, ok := builtins[n.name]
		if !ok {
			return decimal.Zero, &EvalError{
				Expression: ev.source,
				Reason:     fmt.Sprintf("unknown function '%s'", n.name),
			}
		}
		if len(n.args) < fn.minArgs || (fn.maxArgs >= 0 && len(n.args) > fn.maxArgs) {
			return decimal.Zero, &EvalError{
				Expression: ev.source,
				Reason:     fmt.Sprintf("function %s called with %d argument(s), expects %s", n.name, len(n.args), fn.arity),
			}
		}
		return fn.apply(ev, n.args)

	}
	return decimal.Zero, &EvalError{Expression: ev.source, Reason: "unsupported expression node"}
}

func (ev *evaluator) evalBinary(n *binaryNode) (decimal.Decimal, error) {
	// Logical connectives short-circuit.
	switch n.op {
	case "&&":
		left, err := ev.eval(n.left)
		if err != nil {
			return decimal.Zero, err
		}
		if left.IsZero() {
			return decimal.Zero, nil
		}
		right, err := ev.eval(n.right)
		if err != nil {
			return decimal.Zero, err
		}
		return boolToDecimal(!right.IsZero()), nil

	case "||":
		left, err := ev.eval(n.left)
		if err != nil {
			return decimal.Zero, err
		}
		if !left.IsZero() {
			return decimal.NewFromInt(1), nil
		}
		right, err := ev.eval(n.right)
		if err != nil {
			return decimal.Zero, err
		}
		return boolToDecimal(!right.IsZero()), nil
	}

	left, err := ev.eval(n.left)
	if err != nil {
		return decimal.Zero, err
	}
	right, err := ev.eval(n.right)
	if err != nil {
		return decimal.Zero, err
	}

	switch n.op {
	case "+":
		return left.Add(right), nil
	case "-":
		return left.Sub(right), nil
	case "*":
		return left.Mul(right), nil
	case "/":
		if right.IsZero() {
			return decimal.Zero, &DivisionByZeroError{Expression: ev.source}
		}
		return left.Div(right), nil
	case "<":
		return boolToDecimal(left.LessThan(right)), nil
	case "<=":
		return boolToDecimal(left.LessThanOrEqual(right)), nil
	case ">":
		return boolToDecimal(left.GreaterThan(right)), nil
	case ">=":
		return boolToDecimal(left.GreaterThanOrEqual(right)), nil
	case "=":
		return boolToDecimal(left.Equal(right)), nil
	case "!=":
		return boolToDecimal(!left.Equal(right)), nil
	}
	return decimal.Zero, &EvalError{Expression: ev.source, Reason: fmt.Sprintf("unsupported operator '%s'", n.op)}
}

func boolToDecimal(b bool) decimal.Decimal {
	if b {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

// =============================================================================
// BUILT-IN FUNCTION TABLE
// =============================================================================

// builtin receives unevaluated argument nodes so IF can stay lazy.
// Variadic functions set maxArgs to -1.
type builtin struct {
	minArgs int
	maxArgs int
	arity   string // for error messages
	apply   func(ev *evaluator, args []exprNode) (decimal.Decimal, error)
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"MAX": {minArgs: 1, maxArgs: -1, arity: "at least 1", apply: evalMax},
		"MIN": {minArgs: 1, maxArgs: -1, arity: "at least 1", apply: evalMin},
		"SUM": {minArgs: 1, maxArgs: -1, arity: "at least 1", apply: evalSum},
		"ROUND": {minArgs: 1, maxArgs: 2, arity: "1 or 2", apply: evalRound},
		"IF": {minArgs: 3, maxArgs: 3, arity: "exactly 3", apply: evalIf},
		"POWER": {minArgs: 2, maxArgs: 2, arity: "exactly 2", apply: evalPower},
	}
}

func (ev *evaluator) evalAll(args []exprNode) ([]decimal.Decimal, error) {
	values := make([]decimal.Decimal, len(args))
	for i, arg := range args {
		v, err := ev.eval(arg)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func evalMax(ev *evaluator, args []exprNode) (decimal.Decimal, error) {
	values, err := ev.evalAll(args)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(values[0], values[1:]...), nil
}

func evalMin(ev *evaluator, args []exprNode) (decimal.Decimal, error) {
	values, err := ev.evalAll(args)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Min(values[0], values[1:]...), nil
}

func evalSum(ev *evaluator, args []exprNode) (decimal.Decimal, error) {
	values, err := ev.evalAll(args)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(values[0], values[1:]...), nil
}

func evalRound(ev *evaluator, args []exprNode) (decimal.Decimal, error) {
	value, err := ev.eval(args[0])
	if err != nil {
		return decimal.Zero, err
	}
	digits := int32(0)
	if len(args) == 2 {
		d, err := ev.eval(args[1])
		if err != nil {
			return decimal.Zero, err
		}
		digits = int32(d.IntPart())
	}
	// decimal.Round is half away from zero, the required midpoint rule.
	return value.Round(digits), nil
}

func evalIf(ev *evaluator, args []exprNode) (decimal.Decimal, error) {
	cond, err := ev.eval(args[0])
	if err != nil {
		return decimal.Zero, err
	}
	if !cond.IsZero() {
		return ev.eval(args[1])
	}
	return ev.eval(args[2])
}

func evalPower(ev *evaluator, args []exprNode) (decimal.Decimal, error) {
	base, err := ev.eval(args[0])
	if err != nil {
		return decimal.Zero, err
	}
	exp, err := ev.eval(args[1])
	if err != nil {
		return decimal.Zero, err
	}
	result := math.Pow(base.InexactFloat64(), exp.InexactFloat64())
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return decimal.Zero, &EvalError{
			Expression: ev.source,
			Reason:     fmt.Sprintf("POWER(%s, %s) did not return a numeric value", base, exp),
		}
	}
	return decimal.NewFromFloat(result), nil
}
