/*
factors.go - Factor table lookups

PURPOSE:
  Resolves rates from the five factor tables with the exact fallback
  policies the product files define. The fallbacks decide benefit
  continuity for policy years outside the tabulated ranges, so they are
  preserved precisely:

  GMB:      exact (ppt, pt, option, age band) -> first (ppt, pt, option)
            ignoring age -> fixed default 11.5
  GSV/SSV:  exact policy year -> nearest policy year -> zero if empty
  Deferred: exact (ppt, pt, policy year) -> nearest policy year -> zero
  Loyalty:  range containing the policy year -> zero; years below 2 are
            always zero before any lookup

  Nearest means smallest absolute distance to the requested year, first
  row in table order on ties. No interpolation.
*/
package benefit

import "github.com/shopspring/decimal"

// defaultGMBFactor is the last-resort maturity factor when no table row
// matches even on (ppt, pt, option).
var defaultGMBFactor = decimal.NewFromFloat(11.5)

// lookupGMBFactor resolves the base maturity factor for a policy.
func lookupGMBFactor(table []GMBFactor, ppt, pt, entryAge int, option string) decimal.Decimal {
	for _, row := range table {
		if row.Ppt == ppt && row.Pt == pt && row.Option == option &&
			row.EntryAgeMin <= entryAge && entryAge <= row.EntryAgeMax {
			return row.Factor
		}
	}
	for _, row := range table {
		if row.Ppt == ppt && row.Pt == pt && row.Option == option {
			return row.Factor
		}
	}
	return defaultGMBFactor
}

// lookupGSVFactor returns the GSV percentage for a policy year.
func lookupGSVFactor(table []GSVFactor, ppt, policyYear int) decimal.Decimal {
	var candidates []GSVFactor
	for _, row := range table {
		if row.Ppt == ppt {
			if row.PolicyYear == policyYear {
				return row.FactorPercent
			}
			candidates = append(candidates, row)
		}
	}
	best, ok := selectNearest(len(candidates), policyYear, func(i int) int { return candidates[i].PolicyYear })
	if !ok {
		return decimal.Zero
	}
	return candidates[best].FactorPercent
}

// lookupSSVFactors returns the (GMB-component, income-component)
// percentages for a policy year.
func lookupSSVFactors(table []SSVFactor, ppt, policyYear int) (decimal.Decimal, decimal.Decimal) {
	var candidates []SSVFactor
	for _, row := range table {
		if row.Ppt == ppt {
			if row.PolicyYear == policyYear {
				return row.Factor1, row.Factor2
			}
			candidates = append(candidates, row)
		}
	}
	best, ok := selectNearest(len(candidates), policyYear, func(i int) int { return candidates[i].PolicyYear })
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	return candidates[best].Factor1, candidates[best].Factor2
}

// lookupLoyaltyRate returns the loyalty income percentage for a policy
// year. Loyalty income never pays before policy year 2.
func lookupLoyaltyRate(table []LoyaltyFactor, ppt, policyYear int) decimal.Decimal {
	if policyYear < 2 {
		return decimal.Zero
	}
	for _, row := range table {
		if row.Ppt != ppt {
			continue
		}
		if row.PolicyYearFrom <= policyYear && (row.PolicyYearTo == nil || *row.PolicyYearTo >= policyYear) {
			return row.RatePercent
		}
	}
	return decimal.Zero
}

// lookupDeferredRate returns the deferred-option GI percentage for a
// policy year.
func lookupDeferredRate(table []DeferredIncomeFactor, ppt, pt, policyYear int) decimal.Decimal {
	var candidates []DeferredIncomeFactor
	for _, row := range table {
		if row.Ppt == ppt && row.Pt == pt {
			if row.PolicyYear == policyYear {
				return row.RatePercent
			}
			candidates = append(candidates, row)
		}
	}
	best, ok := selectNearest(len(candidates), policyYear, func(i int) int { return candidates[i].PolicyYear })
	if !ok {
		return decimal.Zero
	}
	return candidates[best].RatePercent
}

// selectNearest picks the index whose policy year is closest to target.
// Ties keep the earliest index. ok is false when n is zero.
func selectNearest(n, target int, yearAt func(i int) int) (best int, ok bool) {
	if n == 0 {
		return 0, false
	}
	bestDist := -1
	for i := 0; i < n; i++ {
		dist := yearAt(i) - target
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best, true
}
