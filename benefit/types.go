/*
Package benefit implements the Century Income benefit illustration engine.

PURPOSE:
  Produces the full year-by-year benefit illustration for an income-linked
  savings policy: guaranteed maturity benefit, guaranteed/special surrender
  values, guaranteed/loyalty income, death and maturity benefits. The
  calculation is pure - factor tables come in as a read-only snapshot, and
  no I/O happens inside the engine.

KEY CONCEPTS IN THIS FILE (types.go):
  - Request/Response/Row: Policy inputs and the per-policy-year output table
  - FactorTables: The five lookup tables the calculation draws rates from
  - Income options (Immediate/Deferred/Twin) and sales channels

SEE ALSO:
  - factors.go: Table lookup with exact/nearest/default fallback policies
  - illustration.go: The year-by-year projection algorithm
*/
package benefit

import "github.com/shopspring/decimal"

// =============================================================================
// INCOME OPTIONS AND CHANNELS
// =============================================================================

// Income option determines when guaranteed income pays out.
const (
	OptionImmediate = "Immediate"
	OptionDeferred  = "Deferred"
	OptionTwin      = "Twin"
)

// Sales channels carrying a benefit loading. Anything else gets none.
const (
	ChannelOnline      = "Online"
	ChannelStaffDirect = "StaffDirect"
	ChannelOther       = "Other"
)

// =============================================================================
// REQUEST / RESPONSE
// =============================================================================

// Request holds the policy-level inputs for one illustration. Structural
// validation (ranges, option/channel spelling) is the caller's concern.
type Request struct {
	AnnualPremium decimal.Decimal
	Ppt           int // premium payment term, years
	PolicyTerm    int // total policy duration, years
	EntryAge      int
	Option        string
	Channel       string

	// PremiumsPaid is the number of premiums actually paid, for reduced
	// paid-up calculations. Nil means fully paid (equal to Ppt).
	PremiumsPaid *int
}

// Response is the computed illustration: summary figures plus one row per
// policy year from 1 to PolicyTerm inclusive.
type Response struct {
	AnnualPremium decimal.Decimal
	Ppt           int
	PolicyTerm    int
	EntryAge      int
	Option        string
	Channel       string

	SumAssuredOnDeath         decimal.Decimal // 10 x AP
	GuaranteedMaturityBenefit decimal.Decimal // after high-premium + channel loadings
	MaxLoanAmount             decimal.Decimal // 70% of final-year surrender value

	YearlyTable []Row
}

// Row is a single policy-year line of the illustration.
type Row struct {
	PolicyYear                 int
	AnnualPremium              decimal.Decimal // premium due this year (0 after PPT)
	TotalPremiumsPaid          decimal.Decimal
	GuaranteedIncome           decimal.Decimal
	LoyaltyIncome              decimal.Decimal
	TotalIncome                decimal.Decimal
	CumulativeSurvivalBenefits decimal.Decimal
	Gsv                        decimal.Decimal
	Ssv                        decimal.Decimal
	SurrenderValue             decimal.Decimal // MAX(GSV, SSV)
	DeathBenefit               decimal.Decimal
	MaturityBenefit            decimal.Decimal // non-zero only in the final year
	IsPaidUp                   bool
}

// =============================================================================
// FACTOR TABLES
// =============================================================================

// GMBFactor is keyed by PPT, PT, entry-age band, and income option.
type GMBFactor struct {
	Ppt         int
	Pt          int
	EntryAgeMin int
	EntryAgeMax int
	Option      string
	Factor      decimal.Decimal
}

// GSVFactor is a percentage of total premiums paid, per PPT and policy year.
type GSVFactor struct {
	Ppt           int
	PolicyYear    int
	FactorPercent decimal.Decimal
}

// SSVFactor carries two percentages per PPT and policy year: Factor1 applies
// to the paid-up GMB, Factor2 to the income component.
type SSVFactor struct {
	Ppt        int
	PolicyYear int
	Factor1    decimal.Decimal
	Factor2    decimal.Decimal
}

// LoyaltyFactor is a rate valid over an inclusive policy-year range.
// PolicyYearTo nil means no upper bound.
type LoyaltyFactor struct {
	Ppt            int
	PolicyYearFrom int
	PolicyYearTo   *int
	RatePercent    decimal.Decimal
}

// DeferredIncomeFactor is the deferred-option GI rate per PPT, PT, and
// policy year.
type DeferredIncomeFactor struct {
	Ppt         int
	Pt          int
	PolicyYear  int
	RatePercent decimal.Decimal
}

// FactorTables is the read-only snapshot of all five lookup tables used for
// one calculation. Callers must not mutate it mid-calculation.
type FactorTables struct {
	GMB            []GMBFactor
	GSV            []GSVFactor
	SSV            []SSVFactor
	Loyalty        []LoyaltyFactor
	DeferredIncome []DeferredIncomeFactor
}
