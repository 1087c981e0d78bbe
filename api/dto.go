/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calculation core from the external API contract. Monetary values are
  decimal inside the core and float64 only here, at the serialization edge.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response types returned to clients
  - *DTO: Resource representations

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - benefit/types.go: The core request/response these mirror
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/benefit-engine/benefit"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// TRADITIONAL CALCULATION
// =============================================================================

// CalculationRequest runs a product version's formulas against inputs.
type CalculationRequest struct {
	ProductCode string             `json:"product_code"`
	Version     string             `json:"version,omitempty"` // empty = latest active
	Parameters  map[string]float64 `json:"parameters"`
}

// CalculationResponse carries the computed formula results.
type CalculationResponse struct {
	ProductCode string             `json:"product_code"`
	Version     string             `json:"version"`
	Results     map[string]float64 `json:"results"`
}

// FormulaTestRequest evaluates one ad-hoc expression.
type FormulaTestRequest struct {
	Expression string             `json:"expression"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
}

// FormulaTestResponse reports the outcome of an ad-hoc evaluation.
// Errors are part of the envelope rather than an HTTP failure so the
// formula editor can show them inline.
type FormulaTestResponse struct {
	Result  float64 `json:"result"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// EligibilityRequest evaluates a version's condition groups against
// string-typed parameters.
type EligibilityRequest struct {
	Version    string            `json:"version,omitempty"`
	Parameters map[string]string `json:"parameters"`
}

// EligibilityResponse reports the combined result. Eligible is the AND of
// every root group (an ineligible product fails at least one group).
type EligibilityResponse struct {
	ProductCode string `json:"product_code"`
	Version     string `json:"version"`
	Eligible    bool   `json:"eligible"`
	Groups      int    `json:"groups_evaluated"`
}

// =============================================================================
// BENEFIT ILLUSTRATION
// =============================================================================

// IllustrationRequest is the policy-level input for a benefit illustration.
type IllustrationRequest struct {
	AnnualPremium float64 `json:"annual_premium"`
	Ppt           int     `json:"ppt"`
	PolicyTerm    int     `json:"policy_term"`
	EntryAge      int     `json:"entry_age"`
	Option        string  `json:"option"`
	Channel       string  `json:"channel"`
	PremiumsPaid  *int    `json:"premiums_paid,omitempty"`
}

// IllustrationResponse mirrors benefit.Response for JSON clients.
type IllustrationResponse struct {
	AnnualPremium             float64           `json:"annual_premium"`
	Ppt                       int               `json:"ppt"`
	PolicyTerm                int               `json:"policy_term"`
	EntryAge                  int               `json:"entry_age"`
	Option                    string            `json:"option"`
	Channel                   string            `json:"channel"`
	SumAssuredOnDeath         float64           `json:"sum_assured_on_death"`
	GuaranteedMaturityBenefit float64           `json:"guaranteed_maturity_benefit"`
	MaxLoanAmount             float64           `json:"max_loan_amount"`
	YearlyTable               []IllustrationRow `json:"yearly_table"`
}

// IllustrationRow is one policy-year line.
type IllustrationRow struct {
	PolicyYear                 int     `json:"policy_year"`
	AnnualPremium              float64 `json:"annual_premium"`
	TotalPremiumsPaid          float64 `json:"total_premiums_paid"`
	GuaranteedIncome           float64 `json:"guaranteed_income"`
	LoyaltyIncome              float64 `json:"loyalty_income"`
	TotalIncome                float64 `json:"total_income"`
	CumulativeSurvivalBenefits float64 `json:"cumulative_survival_benefits"`
	Gsv                        float64 `json:"gsv"`
	Ssv                        float64 `json:"ssv"`
	SurrenderValue             float64 `json:"surrender_value"`
	DeathBenefit               float64 `json:"death_benefit"`
	MaturityBenefit            float64 `json:"maturity_benefit"`
	IsPaidUp                   bool    `json:"is_paid_up"`
}

func toIllustrationResponse(r benefit.Response) IllustrationResponse {
	out := IllustrationResponse{
		AnnualPremium:             r.AnnualPremium.InexactFloat64(),
		Ppt:                       r.Ppt,
		PolicyTerm:                r.PolicyTerm,
		EntryAge:                  r.EntryAge,
		Option:                    r.Option,
		Channel:                   r.Channel,
		SumAssuredOnDeath:         r.SumAssuredOnDeath.InexactFloat64(),
		GuaranteedMaturityBenefit: r.GuaranteedMaturityBenefit.InexactFloat64(),
		MaxLoanAmount:             r.MaxLoanAmount.InexactFloat64(),
		YearlyTable:               make([]IllustrationRow, len(r.YearlyTable)),
	}
	for i, row := range r.YearlyTable {
		out.YearlyTable[i] = IllustrationRow{
			PolicyYear:                 row.PolicyYear,
			AnnualPremium:              row.AnnualPremium.InexactFloat64(),
			TotalPremiumsPaid:          row.TotalPremiumsPaid.InexactFloat64(),
			GuaranteedIncome:           row.GuaranteedIncome.InexactFloat64(),
			LoyaltyIncome:              row.LoyaltyIncome.InexactFloat64(),
			TotalIncome:                row.TotalIncome.InexactFloat64(),
			CumulativeSurvivalBenefits: row.CumulativeSurvivalBenefits.InexactFloat64(),
			Gsv:                        row.Gsv.InexactFloat64(),
			Ssv:                        row.Ssv.InexactFloat64(),
			SurrenderValue:             row.SurrenderValue.InexactFloat64(),
			DeathBenefit:               row.DeathBenefit.InexactFloat64(),
			MaturityBenefit:            row.MaturityBenefit.InexactFloat64(),
			IsPaidUp:                   row.IsPaidUp,
		}
	}
	return out
}

// =============================================================================
// PRODUCT CATALOG
// =============================================================================

// ProductDTO represents a catalog entry.
type ProductDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ProductType string `json:"product_type"`
	Insurer     string `json:"insurer,omitempty"`
}

// ProductDetailDTO adds the resolved version's configuration.
type ProductDetailDTO struct {
	ProductDTO
	Version    string        `json:"version"`
	IsActive   bool          `json:"is_active"`
	Parameters []ParameterDTO `json:"parameters"`
	Formulas   []FormulaDTO   `json:"formulas"`
}

// ParameterDTO represents a declared input parameter.
type ParameterDTO struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// FormulaDTO represents one stored formula.
type FormulaDTO struct {
	Name        string `json:"name"`
	Expression  string `json:"expression"`
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
}

// decimalFromFloat converts one JSON number into a core decimal.
func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// decimalParams converts a float64 JSON map into core decimals.
func decimalParams(params map[string]float64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(params))
	for name, v := range params {
		out[name] = decimal.NewFromFloat(v)
	}
	return out
}
