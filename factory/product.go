/*
Package factory provides JSON to Go product definition conversion.

PURPOSE:
  Converts JSON product definitions into typed records the engine consumes:
  parameters, ordered formulas, and eligibility condition groups. Products
  are configuration, not code - actuarial teams define a product version in
  JSON, and the factory produces the records the calculation engine runs.

JSON SCHEMA:
  {
    "code": "CENTURY_INCOME",
    "name": "Century Income Plan",
    "product_type": "Traditional",
    "insurer": "Sample Life Insurance Co.",
    "version": "1.0",
    "is_active": true,
    "effective_date": "2024-01-01",
    "parameters": [
      {"name": "AP", "data_type": "decimal", "required": true}
    ],
    "formulas": [
      {"name": "GMB", "expression": "AP * 11.5", "order": 1}
    ],
    "eligibility": [
      {
        "operator": "AND",
        "conditions": [
          {"parameter": "Age", "op": "Between", "value": "0", "value2": "65"}
        ],
        "groups": []
      }
    ]
  }

SEE ALSO:
  - century.go: The built-in Century Income sample product and factor tables
  - store/sqlite: Persists definitions and reassembles them on load
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/warp/benefit-engine/engine"
)

// =============================================================================
// DEFINITION - A complete product version
// =============================================================================

// Parameter describes one named input a product version expects.
type Parameter struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"` // decimal, int, string
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// Definition is a fully specified product version: identity, input
// parameters, ordered formulas, and eligibility rules.
type Definition struct {
	Code          string
	Name          string
	ProductType   string
	Insurer       string
	Version       string
	IsActive      bool
	EffectiveDate time.Time
	Parameters    []Parameter
	Formulas      []engine.Formula
	Eligibility   []engine.ConditionGroup
}

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// DefinitionJSON is the JSON representation of a product definition.
type DefinitionJSON struct {
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	ProductType   string                `json:"product_type,omitempty"`
	Insurer       string                `json:"insurer,omitempty"`
	Version       string                `json:"version"`
	IsActive      *bool                 `json:"is_active,omitempty"`
	EffectiveDate string                `json:"effective_date,omitempty"` // YYYY-MM-DD
	Parameters    []Parameter           `json:"parameters,omitempty"`
	Formulas      []FormulaJSON         `json:"formulas"`
	Eligibility   []ConditionGroupJSON  `json:"eligibility,omitempty"`
}

// FormulaJSON represents one formula.
type FormulaJSON struct {
	Name        string `json:"name"`
	Expression  string `json:"expression"`
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
}

// ConditionGroupJSON represents a condition group node.
type ConditionGroupJSON struct {
	Name       string               `json:"name,omitempty"`
	Operator   string               `json:"operator,omitempty"` // AND (default) or OR
	Conditions []ConditionJSON      `json:"conditions,omitempty"`
	Groups     []ConditionGroupJSON `json:"groups,omitempty"`
}

// ConditionJSON represents one predicate.
type ConditionJSON struct {
	Parameter string `json:"parameter"`
	Op        string `json:"op"`
	Value     string `json:"value"`
	Value2    string `json:"value2,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// ProductFactory parses JSON product definitions.
type ProductFactory struct{}

// NewProductFactory creates a product factory.
func NewProductFactory() *ProductFactory { return &ProductFactory{} }

// ParseDefinition converts a JSON document into a Definition, validating
// the minimum structure a calculation needs.
func (pf *ProductFactory) ParseDefinition(jsonStr string) (*Definition, error) {
	var doc DefinitionJSON
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return nil, fmt.Errorf("invalid product JSON: %w", err)
	}

	if doc.Code == "" {
		return nil, fmt.Errorf("product code is required")
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("product version is required")
	}
	if len(doc.Formulas) == 0 {
		return nil, fmt.Errorf("product '%s' has no formulas", doc.Code)
	}

	def := &Definition{
		Code:        doc.Code,
		Name:        doc.Name,
		ProductType: doc.ProductType,
		Insurer:     doc.Insurer,
		Version:     doc.Version,
		IsActive:    true,
	}
	if doc.IsActive != nil {
		def.IsActive = *doc.IsActive
	}
	if doc.ProductType == "" {
		def.ProductType = "Traditional"
	}
	if doc.EffectiveDate != "" {
		d, err := time.Parse("2006-01-02", doc.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("invalid effective_date %q (use YYYY-MM-DD): %w", doc.EffectiveDate, err)
		}
		def.EffectiveDate = d
	}

	def.Parameters = doc.Parameters

	seen := make(map[string]bool, len(doc.Formulas))
	for _, f := range doc.Formulas {
		if f.Name == "" || f.Expression == "" {
			return nil, fmt.Errorf("formula in product '%s' is missing name or expression", doc.Code)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate formula name '%s' in product '%s'", f.Name, doc.Code)
		}
		seen[f.Name] = true
		def.Formulas = append(def.Formulas, engine.Formula{
			Name:           f.Name,
			Expression:     f.Expression,
			ExecutionOrder: f.Order,
			Description:    f.Description,
		})
	}

	for _, g := range doc.Eligibility {
		def.Eligibility = append(def.Eligibility, buildGroup(g))
	}

	return def, nil
}

func buildGroup(g ConditionGroupJSON) engine.ConditionGroup {
	out := engine.ConditionGroup{
		Name:            g.Name,
		LogicalOperator: g.Operator,
	}
	if out.LogicalOperator == "" {
		out.LogicalOperator = "AND"
	}
	for _, c := range g.Conditions {
		out.Conditions = append(out.Conditions, engine.Condition{
			ParameterName: c.Parameter,
			Operator:      c.Op,
			Value:         c.Value,
			Value2:        c.Value2,
		})
	}
	for _, child := range g.Groups {
		out.Groups = append(out.Groups, buildGroup(child))
	}
	return out
}
