/*
illustration.go - Year-by-year benefit illustration

PURPOSE:
  Assembles the full illustration table for one policy: GMB with
  high-premium and channel loadings, yearly guaranteed and loyalty income
  with paid-up reduction, GSV/SSV/surrender value, death and maturity
  benefits, and the loan ceiling.

ROUNDING:
  Every intermediate monetary value is rounded to 2 decimal places, half
  away from zero, at exactly the enumerated points. The rounding points
  are contractual - reordering them changes published benefit figures.

PAID-UP POLICIES:
  When fewer premiums were paid than contracted (t < n), income and the
  paid-up GMB scale by t/n. The reduction applies to the pre-rounding
  base amounts, then each derived figure rounds once.
*/
package benefit

import "github.com/shopspring/decimal"

var (
	one            = decimal.NewFromInt(1)
	ten            = decimal.NewFromInt(10)
	hundred        = decimal.NewFromInt(100)
	immediateRate  = decimal.NewFromFloat(0.10) // GI: 10% of AP per year
	twinRate       = decimal.NewFromFloat(1.05) // GI: 105% of AP in twin years
	deathFloorRate = decimal.NewFromFloat(1.05) // death benefit floor on premiums paid
	loanRate       = decimal.NewFromFloat(0.70)
)

// Calculator computes benefit illustrations from a factor table snapshot.
// It holds no per-call state; concurrent use is safe as long as the tables
// are not mutated mid-calculation.
type Calculator struct {
	Tables FactorTables
}

// NewCalculator creates a calculator over the given table snapshot.
func NewCalculator(tables FactorTables) *Calculator {
	return &Calculator{Tables: tables}
}

// Calculate produces the illustration for a structurally valid request.
func (c *Calculator) Calculate(req Request) Response {
	ap := req.AnnualPremium
	ppt := req.Ppt
	pt := req.PolicyTerm

	// t premiums paid of n payable; t < n means reduced paid-up.
	n := ppt
	t := n
	if req.PremiumsPaid != nil {
		t = *req.PremiumsPaid
	}
	isPaidUp := t < n
	reductionRatio := one
	if isPaidUp {
		reductionRatio = decimal.NewFromInt(int64(t)).Div(decimal.NewFromInt(int64(n)))
	}

	gmbFactor := lookupGMBFactor(c.Tables.GMB, ppt, pt, req.EntryAge, req.Option)
	highPremiumPct := highPremiumLoading(ap, req.Option)
	channelPct := channelLoading(req.Channel, req.Option)

	baseGMB := ap.Mul(gmbFactor)
	gmb1 := baseGMB.Mul(one.Add(highPremiumPct))
	finalGMB := round2(gmb1.Mul(one.Add(channelPct)))

	sad := round2(ten.Mul(ap))

	twinYears := twinIncomeYears(ppt, pt)

	rows := make([]Row, 0, pt)
	cumulativeSurvivalBenefits := decimal.Zero

	for py := 1; py <= pt; py++ {
		annualPremiumRow := decimal.Zero
		if py <= ppt {
			annualPremiumRow = ap
		}
		paidYears := py
		if paidYears > ppt {
			paidYears = ppt
		}
		totalPremiumsPaid := decimal.NewFromInt(int64(paidYears)).Mul(ap)

		giBase := c.guaranteedIncomeBase(py, ppt, pt, ap, req.Option, twinYears)
		liBase := c.loyaltyIncomeBase(py, ppt, ap)

		gi := round2(giBase.Mul(reductionRatio))
		li := round2(liBase.Mul(reductionRatio))
		totalIncome := round2(gi.Add(li))
		cumulativeSurvivalBenefits = round2(cumulativeSurvivalBenefits.Add(totalIncome))

		gsvPct := lookupGSVFactor(c.Tables.GSV, ppt, py)
		gsv := floorZero(round2(gsvPct.Div(hundred).Mul(totalPremiumsPaid).Sub(cumulativeSurvivalBenefits)))

		paidUpGMB := finalGMB
		if isPaidUp {
			paidUpGMB = round2(reductionRatio.Mul(finalGMB))
		}

		ssvF1, ssvF2 := lookupSSVFactors(c.Tables.SSV, ppt, py)
		ssvIncomeComponent := round2(giBase.Mul(reductionRatio).Add(li))
		ssv := floorZero(round2(ssvF1.Div(hundred).Mul(paidUpGMB).Add(ssvF2.Div(hundred).Mul(ssvIncomeComponent))))

		surrenderValue := floorZero(decimal.Max(gsv, ssv))

		deathBenefit := round2(decimal.Max(ten.Mul(ap), decimal.Max(surrenderValue, deathFloorRate.Mul(totalPremiumsPaid))))

		maturityBenefit := decimal.Zero
		if py == pt {
			maturityBenefit = finalGMB
		}

		rows = append(rows, Row{
			PolicyYear:                 py,
			AnnualPremium:              round2(annualPremiumRow),
			TotalPremiumsPaid:          round2(totalPremiumsPaid),
			GuaranteedIncome:           gi,
			LoyaltyIncome:              li,
			TotalIncome:                totalIncome,
			CumulativeSurvivalBenefits: cumulativeSurvivalBenefits,
			Gsv:                        gsv,
			Ssv:                        ssv,
			SurrenderValue:             surrenderValue,
			DeathBenefit:               deathBenefit,
			MaturityBenefit:            round2(maturityBenefit),
			IsPaidUp:                   isPaidUp,
		})
	}

	lastSV := decimal.Zero
	if len(rows) > 0 {
		lastSV = rows[len(rows)-1].SurrenderValue
	}

	return Response{
		AnnualPremium:             round2(ap),
		Ppt:                       ppt,
		PolicyTerm:                pt,
		EntryAge:                  req.EntryAge,
		Option:                    req.Option,
		Channel:                   req.Channel,
		SumAssuredOnDeath:         sad,
		GuaranteedMaturityBenefit: finalGMB,
		MaxLoanAmount:             round2(loanRate.Mul(lastSV)),
		YearlyTable:               rows,
	}
}

// guaranteedIncomeBase returns the full (pre-reduction) GI for a policy year.
func (c *Calculator) guaranteedIncomeBase(py, ppt, pt int, ap decimal.Decimal, option string, twinYears map[int]bool) decimal.Decimal {
	switch option {
	case OptionImmediate:
		return immediateRate.Mul(ap)
	case OptionDeferred:
		if py <= ppt {
			return decimal.Zero
		}
		rate := lookupDeferredRate(c.Tables.DeferredIncome, ppt, pt, py)
		return rate.Div(hundred).Mul(ap)
	case OptionTwin:
		if twinYears[py] {
			return twinRate.Mul(ap)
		}
		return decimal.Zero
	}
	return decimal.Zero
}

// loyaltyIncomeBase returns the full (pre-reduction) LI for a policy year.
func (c *Calculator) loyaltyIncomeBase(py, ppt int, ap decimal.Decimal) decimal.Decimal {
	rate := lookupLoyaltyRate(c.Tables.Loyalty, ppt, py)
	return ap.Mul(rate).Div(hundred)
}

// highPremiumLoading returns the premium-tier percentage addend.
func highPremiumLoading(ap decimal.Decimal, option string) decimal.Decimal {
	if ap.GreaterThanOrEqual(decimal.NewFromInt(200000)) {
		switch option {
		case OptionImmediate:
			return decimal.NewFromFloat(0.035)
		case OptionDeferred:
			return decimal.NewFromFloat(0.030)
		case OptionTwin:
			return decimal.NewFromFloat(0.045)
		}
		return decimal.Zero
	}
	if ap.GreaterThanOrEqual(decimal.NewFromInt(100000)) {
		switch option {
		case OptionImmediate:
			return decimal.NewFromFloat(0.03)
		case OptionDeferred:
			return decimal.NewFromFloat(0.0225)
		case OptionTwin:
			return decimal.NewFromFloat(0.0325)
		}
		return decimal.Zero
	}
	return decimal.Zero
}

// channelLoading returns the sales-channel percentage addend.
func channelLoading(channel, option string) decimal.Decimal {
	switch channel {
	case ChannelOnline:
		switch option {
		case OptionImmediate:
			return decimal.NewFromFloat(0.0425)
		case OptionDeferred:
			return decimal.NewFromFloat(0.035)
		case OptionTwin:
			return decimal.NewFromFloat(0.0425)
		}
	case ChannelStaffDirect:
		switch option {
		case OptionImmediate:
			return decimal.NewFromFloat(0.085)
		case OptionDeferred:
			return decimal.NewFromFloat(0.07)
		case OptionTwin:
			return decimal.NewFromFloat(0.085)
		}
	}
	return decimal.Zero
}

// twinIncomeYears returns the four policy years the Twin option pays in:
// the two years ending at ppt-2 (floored at year 1) and the two starting
// at ppt+3, clipped to [1, pt].
func twinIncomeYears(ppt, pt int) map[int]bool {
	firstPairStart := ppt - 2
	if firstPairStart < 1 {
		firstPairStart = 1
	}
	secondPairStart := ppt + 3

	years := make(map[int]bool, 4)
	for _, y := range []int{firstPairStart, firstPairStart + 1, secondPairStart, secondPairStart + 1} {
		if y >= 1 && y <= pt {
			years[y] = true
		}
	}
	return years
}

func round2(v decimal.Decimal) decimal.Decimal { return v.Round(2) }

func floorZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
