package benefit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func intp(v int) *int { return &v }

// =============================================================================
// GMB FACTOR LOOKUP
// =============================================================================

func TestLookupGMBFactor(t *testing.T) {
	table := []GMBFactor{
		{Ppt: 7, Pt: 15, EntryAgeMin: 0, EntryAgeMax: 40, Option: OptionImmediate, Factor: d(11.5)},
		{Ppt: 7, Pt: 15, EntryAgeMin: 41, EntryAgeMax: 65, Option: OptionImmediate, Factor: d(10.8)},
	}

	// Exact age band match
	assert.True(t, lookupGMBFactor(table, 7, 15, 30, OptionImmediate).Equal(d(11.5)))
	assert.True(t, lookupGMBFactor(table, 7, 15, 50, OptionImmediate).Equal(d(10.8)))

	// Age band boundaries are inclusive
	assert.True(t, lookupGMBFactor(table, 7, 15, 40, OptionImmediate).Equal(d(11.5)))
	assert.True(t, lookupGMBFactor(table, 7, 15, 41, OptionImmediate).Equal(d(10.8)))

	// Age outside every band falls back to the first (ppt, pt, option) row
	assert.True(t, lookupGMBFactor(table, 7, 15, 70, OptionImmediate).Equal(d(11.5)))

	// No (ppt, pt, option) match at all falls back to the default
	assert.True(t, lookupGMBFactor(table, 10, 20, 30, OptionImmediate).Equal(d(11.5)))
	assert.True(t, lookupGMBFactor(table, 7, 15, 30, OptionTwin).Equal(defaultGMBFactor))
	assert.True(t, lookupGMBFactor(nil, 7, 15, 30, OptionImmediate).Equal(d(11.5)))
}

// =============================================================================
// GSV / SSV LOOKUPS - exact year, then nearest, then zero
// =============================================================================

func TestLookupGSVFactor(t *testing.T) {
	table := []GSVFactor{
		{Ppt: 7, PolicyYear: 2, FactorPercent: d(30)},
		{Ppt: 7, PolicyYear: 5, FactorPercent: d(45)},
		{Ppt: 7, PolicyYear: 10, FactorPercent: d(64)},
	}

	// Exact match
	assert.True(t, lookupGSVFactor(table, 7, 5).Equal(d(45)))

	// No exact row: nearest year wins (12 -> 10)
	assert.True(t, lookupGSVFactor(table, 7, 12).Equal(d(64)))

	// Below the table: nearest is the first year (1 -> 2)
	assert.True(t, lookupGSVFactor(table, 7, 1).Equal(d(30)))

	// Year 4 is equidistant from 2 and 6; the earlier row in table order wins
	tie := []GSVFactor{
		{Ppt: 7, PolicyYear: 2, FactorPercent: d(30)},
		{Ppt: 7, PolicyYear: 6, FactorPercent: d(50)},
	}
	assert.True(t, lookupGSVFactor(tie, 7, 4).Equal(d(30)), "tie at distance 2 keeps first row")

	// Different ppt or empty table is zero
	assert.True(t, lookupGSVFactor(table, 10, 5).IsZero())
	assert.True(t, lookupGSVFactor(nil, 7, 5).IsZero())
}

func TestLookupSSVFactors(t *testing.T) {
	table := []SSVFactor{
		{Ppt: 7, PolicyYear: 2, Factor1: d(40), Factor2: d(20)},
		{Ppt: 7, PolicyYear: 6, Factor1: d(60), Factor2: d(40)},
	}

	f1, f2 := lookupSSVFactors(table, 7, 6)
	assert.True(t, f1.Equal(d(60)))
	assert.True(t, f2.Equal(d(40)))

	// Nearest fallback
	f1, f2 = lookupSSVFactors(table, 7, 9)
	assert.True(t, f1.Equal(d(60)))
	assert.True(t, f2.Equal(d(40)))

	// Empty
	f1, f2 = lookupSSVFactors(nil, 7, 6)
	assert.True(t, f1.IsZero())
	assert.True(t, f2.IsZero())
}

// =============================================================================
// LOYALTY LOOKUP - range rows, never before year 2
// =============================================================================

func TestLookupLoyaltyRate(t *testing.T) {
	table := []LoyaltyFactor{
		{Ppt: 7, PolicyYearFrom: 2, PolicyYearTo: intp(2), RatePercent: d(3)},
		{Ppt: 7, PolicyYearFrom: 3, PolicyYearTo: intp(6), RatePercent: d(6)},
		{Ppt: 7, PolicyYearFrom: 7, PolicyYearTo: nil, RatePercent: d(18)},
	}

	// Years below 2 never pay, even when a row would match
	assert.True(t, lookupLoyaltyRate(table, 7, 1).IsZero())

	// Closed ranges are inclusive both ends
	assert.True(t, lookupLoyaltyRate(table, 7, 2).Equal(d(3)))
	assert.True(t, lookupLoyaltyRate(table, 7, 3).Equal(d(6)))
	assert.True(t, lookupLoyaltyRate(table, 7, 6).Equal(d(6)))

	// Open-ended row matches every later year
	assert.True(t, lookupLoyaltyRate(table, 7, 7).Equal(d(18)))
	assert.True(t, lookupLoyaltyRate(table, 7, 15).Equal(d(18)))

	// No matching range is zero
	assert.True(t, lookupLoyaltyRate(table, 10, 5).IsZero())
}

// =============================================================================
// DEFERRED INCOME LOOKUP
// =============================================================================

func TestLookupDeferredRate(t *testing.T) {
	table := []DeferredIncomeFactor{
		{Ppt: 7, Pt: 15, PolicyYear: 8, RatePercent: d(30)},
		{Ppt: 7, Pt: 15, PolicyYear: 9, RatePercent: d(33)},
		{Ppt: 7, Pt: 15, PolicyYear: 15, RatePercent: d(51)},
	}

	assert.True(t, lookupDeferredRate(table, 7, 15, 9).Equal(d(33)))

	// Past the table: nearest year
	assert.True(t, lookupDeferredRate(table, 7, 15, 20).Equal(d(51)))

	// Wrong (ppt, pt) pair is zero
	assert.True(t, lookupDeferredRate(table, 10, 20, 9).IsZero())
}

// =============================================================================
// TWIN INCOME YEARS
// =============================================================================

func TestTwinIncomeYears(t *testing.T) {
	// Standard shape: two years ending at ppt-2, two starting at ppt+3
	years := twinIncomeYears(7, 15)
	assert.Equal(t, map[int]bool{5: true, 6: true, 10: true, 11: true}, years)

	years = twinIncomeYears(10, 20)
	assert.Equal(t, map[int]bool{8: true, 9: true, 13: true, 14: true}, years)

	// Short ppt floors the first pair at year 1
	years = twinIncomeYears(2, 10)
	assert.Equal(t, map[int]bool{1: true, 2: true, 5: true, 6: true}, years)

	// Years beyond the policy term are clipped
	years = twinIncomeYears(2, 3)
	assert.Equal(t, map[int]bool{1: true, 2: true}, years)
}
