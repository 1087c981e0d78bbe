/*
condition.go - Boolean rule tree evaluation

PURPOSE:
  Evaluates nested condition groups against string-typed parameters to gate
  product eligibility and behavior. Rule configuration is data, not code,
  so evaluation NEVER errors: a missing parameter, a non-numeric operand in
  a numeric comparison, or an unrecognized operator all evaluate to false.

SEMANTICS:
  - A group collects the results of its direct conditions and its child
    groups into one list, then combines with its logical operator.
  - An empty group (no conditions, no children) is vacuously true.
  - Operator "OR" (case-insensitive) means any result passes; anything
    else, including the default empty string, means all must pass.
*/
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ConditionEvaluator evaluates condition group trees. Stateless;
// concurrent use is safe.
type ConditionEvaluator struct{}

// NewConditionEvaluator creates a condition evaluator.
func NewConditionEvaluator() *ConditionEvaluator { return &ConditionEvaluator{} }

// Evaluate returns the combined result of the group's conditions and
// child groups against parameters.
func (ce *ConditionEvaluator) Evaluate(group ConditionGroup, parameters map[string]string) bool {
	var results []bool
	for _, c := range group.Conditions {
		results = append(results, ce.evaluateCondition(c, parameters))
	}
	for _, child := range group.Groups {
		results = append(results, ce.Evaluate(child, parameters))
	}

	if len(results) == 0 {
		return true
	}

	if strings.EqualFold(group.LogicalOperator, "OR") {
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}
	for _, r := range results {
		if !r {
			return false
		}
	}
	return true
}

func (ce *ConditionEvaluator) evaluateCondition(c Condition, parameters map[string]string) bool {
	paramValue, ok := parameters[c.ParameterName]
	if !ok {
		return false
	}

	switch c.Operator {
	case OpEqual:
		return strings.EqualFold(paramValue, c.Value)
	case OpNotEqual:
		return !strings.EqualFold(paramValue, c.Value)
	case OpGreaterThan:
		return numericCompare(paramValue, c.Value, func(cmp int) bool { return cmp > 0 })
	case OpGreaterThanOrEqual:
		return numericCompare(paramValue, c.Value, func(cmp int) bool { return cmp >= 0 })
	case OpLessThan:
		return numericCompare(paramValue, c.Value, func(cmp int) bool { return cmp < 0 })
	case OpLessThanOrEqual:
		return numericCompare(paramValue, c.Value, func(cmp int) bool { return cmp <= 0 })
	case OpBetween:
		v, err1 := decimal.NewFromString(strings.TrimSpace(paramValue))
		lo, err2 := decimal.NewFromString(strings.TrimSpace(c.Value))
		hi, err3 := decimal.NewFromString(strings.TrimSpace(c.Value2))
		if err1 != nil || err2 != nil || err3 != nil {
			return false
		}
		return v.GreaterThanOrEqual(lo) && v.LessThanOrEqual(hi)
	case OpIn:
		for _, candidate := range strings.Split(c.Value, ",") {
			if strings.EqualFold(paramValue, strings.TrimSpace(candidate)) {
				return true
			}
		}
		return false
	case OpContains:
		return strings.Contains(strings.ToLower(paramValue), strings.ToLower(c.Value))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(paramValue), strings.ToLower(c.Value))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(paramValue), strings.ToLower(c.Value))
	}
	return false
}

// numericCompare parses both operands as decimals and applies test to the
// comparison result. Non-numeric operands make the condition false.
func numericCompare(left, right string, test func(cmp int) bool) bool {
	l, err1 := decimal.NewFromString(strings.TrimSpace(left))
	r, err2 := decimal.NewFromString(strings.TrimSpace(right))
	if err1 != nil || err2 != nil {
		return false
	}
	return test(l.Cmp(r))
}
