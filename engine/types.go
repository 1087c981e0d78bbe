/*
Package engine provides the core insurance calculation engine.

PURPOSE:
  This package contains the data-driven calculation primitives: an algebraic
  expression evaluator, a formula engine that runs ordered named expressions,
  and a condition evaluator for nested boolean rule trees. Product behavior
  is configuration, not code - the engine faithfully executes whatever
  formulas and conditions it is given.

KEY CONCEPTS IN THIS FILE (types.go):
  - Context: A case-insensitive name -> decimal value mapping
  - Formula: A named expression with an execution order
  - Condition/ConditionGroup: Boolean predicates combined by AND/OR

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Purity: Evaluation never mutates its inputs; a fresh working context
     is built per run
  3. Case-insensitivity: Parameter and formula names compare case-insensitively,
     matching how product configuration is authored

SEE ALSO:
  - expression.go: Expression parsing
  - eval.go: Expression evaluation and the built-in function table
  - formula.go: Ordered formula evaluation
  - condition.go: Condition group evaluation
*/
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTEXT - Case-insensitive named values
// =============================================================================

// Context maps parameter/formula names to decimal values. Names compare
// case-insensitively: Set("AP", x) and Get("ap") address the same entry.
// The display casing of the first Set wins for Names().
type Context struct {
	values map[string]decimal.Decimal
	names  map[string]string // lower -> original casing
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		values: make(map[string]decimal.Decimal),
		names:  make(map[string]string),
	}
}

// NewContextFrom creates a context seeded with the given values.
func NewContextFrom(values map[string]decimal.Decimal) *Context {
	c := NewContext()
	for name, v := range values {
		c.Set(name, v)
	}
	return c
}

// Set stores a value under name, replacing any existing entry that matches
// case-insensitively.
func (c *Context) Set(name string, v decimal.Decimal) {
	key := strings.ToLower(name)
	if _, seen := c.names[key]; !seen {
		c.names[key] = name
	}
	c.values[key] = v
}

// Get looks up a value by name, case-insensitively.
func (c *Context) Get(name string) (decimal.Decimal, bool) {
	v, ok := c.values[strings.ToLower(name)]
	return v, ok
}

// Has reports whether name is present.
func (c *Context) Has(name string) bool {
	_, ok := c.values[strings.ToLower(name)]
	return ok
}

// Len returns the number of entries.
func (c *Context) Len() int { return len(c.values) }

// Clone returns an independent copy. Used to seed a working context without
// mutating caller-supplied inputs.
func (c *Context) Clone() *Context {
	out := NewContext()
	for key, v := range c.values {
		out.values[key] = v
		out.names[key] = c.names[key]
	}
	return out
}

// ToMap exports all entries keyed by their original casing.
func (c *Context) ToMap() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.values))
	for key, v := range c.values {
		out[c.names[key]] = v
	}
	return out
}

// =============================================================================
// FORMULA - Named expression owned by a product version
// =============================================================================

// Formula is a single named algebraic expression. Formulas run in ascending
// ExecutionOrder; each result becomes visible under Name to later formulas.
type Formula struct {
	Name           string
	Expression     string
	ExecutionOrder int
	Description    string
}

// =============================================================================
// CONDITIONS - Boolean rule trees for product eligibility/gating
// =============================================================================

// Operator names accepted by the condition evaluator. Comparisons are
// case-sensitive on the operator name itself; an unrecognized operator
// evaluates to false rather than erroring.
const (
	OpEqual              = "Equal"
	OpNotEqual           = "NotEqual"
	OpGreaterThan        = "GreaterThan"
	OpGreaterThanOrEqual = "GreaterThanOrEqual"
	OpLessThan           = "LessThan"
	OpLessThanOrEqual    = "LessThanOrEqual"
	OpBetween            = "Between"
	OpIn                 = "In"
	OpContains           = "Contains"
	OpStartsWith         = "StartsWith"
	OpEndsWith           = "EndsWith"
)

// Condition is a single predicate against a string-typed parameter.
// Value2 is only meaningful for the Between operator.
type Condition struct {
	ParameterName string
	Operator      string
	Value         string
	Value2        string
}

// ConditionGroup combines conditions and child groups with one logical
// operator (AND/OR, case-insensitive; empty means AND). Children are held
// by value - the tree has no parent back-references, so recursive
// evaluation cannot cycle.
type ConditionGroup struct {
	Name            string
	LogicalOperator string
	Conditions      []Condition
	Groups          []ConditionGroup
}
