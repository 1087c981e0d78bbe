/*
century.go - Built-in Century Income sample product

PURPOSE:
  The sample product and its five factor tables, used to seed an empty
  database on first boot. Values come from the product's rate annexures:
  GMB factors (Annexure-1), GSV percentages (Annexure-2), SSV factor
  pairs (Annexure-3), loyalty income rates, and deferred income rates.

  Rate curves are arithmetic ramps, so they are generated rather than
  spelled out row by row; the generated rows match the annexure tables
  exactly.
*/
package factory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/engine"
)

// CenturyIncome returns the sample traditional product definition.
func CenturyIncome() Definition {
	return Definition{
		Code:          "CENTURY_INCOME",
		Name:          "Century Income Plan",
		ProductType:   "Traditional",
		Insurer:       "Sample Life Insurance Co.",
		Version:       "1.0",
		IsActive:      true,
		EffectiveDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Parameters: []Parameter{
			{Name: "AP", DataType: "decimal", Required: true, Description: "Annual Premium"},
			{Name: "SA", DataType: "decimal", Required: true, Description: "Sum Assured"},
			{Name: "PPT", DataType: "int", Required: true, Description: "Premium Payment Term"},
			{Name: "PT", DataType: "int", Required: true, Description: "Policy Term"},
			{Name: "Age", DataType: "int", Required: true, Description: "Age at entry"},
			{Name: "TotalPremiumPaid", DataType: "decimal", Required: true, Description: "Total Premium Paid"},
			{Name: "SurrenderValue", DataType: "decimal", Required: true, Description: "Surrender Value"},
		},
		Formulas: []engine.Formula{
			{Name: "GMB", Expression: "AP * 11.5", ExecutionOrder: 1, Description: "Guaranteed Maturity Benefit"},
			{Name: "GSV", Expression: "GMB * 0.30", ExecutionOrder: 2, Description: "Guaranteed Surrender Value"},
			{Name: "SSV", Expression: "AP * 12", ExecutionOrder: 3, Description: "Special Surrender Value"},
			{Name: "MATURITY_BENEFIT", Expression: "GMB", ExecutionOrder: 4, Description: "Maturity Benefit"},
			{Name: "DEATH_BENEFIT", Expression: "MAX(10*AP, 1.05*TotalPremiumPaid, SurrenderValue)", ExecutionOrder: 5, Description: "Death Benefit"},
		},
		Eligibility: []engine.ConditionGroup{
			{
				Name:            "Entry criteria",
				LogicalOperator: "AND",
				Conditions: []engine.Condition{
					{ParameterName: "Age", Operator: engine.OpBetween, Value: "0", Value2: "65"},
					{ParameterName: "Option", Operator: engine.OpIn, Value: "Immediate, Deferred, Twin"},
				},
			},
		},
	}
}

// CenturyIncomeTables returns the sample product's factor tables.
func CenturyIncomeTables() benefit.FactorTables {
	return benefit.FactorTables{
		GMB:            centuryGMBFactors(),
		GSV:            centuryGSVFactors(),
		SSV:            centurySSVFactors(),
		Loyalty:        centuryLoyaltyFactors(),
		DeferredIncome: centuryDeferredFactors(),
	}
}

func centuryGMBFactors() []benefit.GMBFactor {
	gmb := func(ppt, pt, ageMin, ageMax int, option string, factor float64) benefit.GMBFactor {
		return benefit.GMBFactor{
			Ppt: ppt, Pt: pt, EntryAgeMin: ageMin, EntryAgeMax: ageMax,
			Option: option, Factor: decimal.NewFromFloat(factor),
		}
	}
	return []benefit.GMBFactor{
		gmb(7, 15, 0, 40, benefit.OptionImmediate, 11.50),
		gmb(7, 15, 41, 65, benefit.OptionImmediate, 10.80),
		gmb(7, 15, 0, 40, benefit.OptionDeferred, 12.50),
		gmb(7, 15, 41, 65, benefit.OptionDeferred, 11.80),
		gmb(7, 15, 0, 40, benefit.OptionTwin, 13.00),
		gmb(7, 15, 41, 65, benefit.OptionTwin, 12.30),
		gmb(10, 20, 0, 40, benefit.OptionImmediate, 12.00),
		gmb(10, 20, 41, 65, benefit.OptionImmediate, 11.20),
		gmb(10, 20, 0, 40, benefit.OptionDeferred, 13.50),
		gmb(10, 20, 41, 65, benefit.OptionDeferred, 12.80),
		gmb(10, 20, 0, 40, benefit.OptionTwin, 14.00),
		gmb(10, 20, 41, 65, benefit.OptionTwin, 13.20),
		gmb(12, 25, 0, 40, benefit.OptionImmediate, 13.00),
		gmb(12, 25, 41, 65, benefit.OptionImmediate, 12.20),
		gmb(15, 25, 0, 40, benefit.OptionImmediate, 14.00),
		gmb(15, 25, 41, 65, benefit.OptionImmediate, 13.20),
	}
}

// gsvCurve expands per-year GSV percentages starting at policy year 1.
func gsvCurve(ppt int, pcts ...float64) []benefit.GSVFactor {
	rows := make([]benefit.GSVFactor, len(pcts))
	for i, pct := range pcts {
		rows[i] = benefit.GSVFactor{Ppt: ppt, PolicyYear: i + 1, FactorPercent: decimal.NewFromFloat(pct)}
	}
	return rows
}

func centuryGSVFactors() []benefit.GSVFactor {
	var rows []benefit.GSVFactor
	rows = append(rows, gsvCurve(7, 0, 30, 35, 40, 45, 50, 55, 58, 61, 64, 67, 70, 75, 80, 90)...)
	rows = append(rows, gsvCurve(10, 0, 0, 30, 35, 40, 45, 50, 55, 57, 60, 63, 66, 69, 72, 75, 78, 81, 84, 87, 90)...)
	rows = append(rows, gsvCurve(12, 0, 0, 0, 30, 35, 40, 45, 50, 55, 60, 62, 65, 68, 71, 74, 77, 80, 83, 86, 89, 91, 93, 95, 97, 100)...)
	rows = append(rows, gsvCurve(15, 0, 0, 0, 0, 30, 35, 40, 45, 50, 55, 58, 61, 64, 67, 70, 73, 76, 79, 82, 85, 88, 91, 93, 96, 100)...)
	return rows
}

// ssvCurve pairs per-year SSV factors starting at policy year 1.
// f1 and f2 must be the same length.
func ssvCurve(ppt int, f1, f2 []float64) []benefit.SSVFactor {
	rows := make([]benefit.SSVFactor, len(f1))
	for i := range f1 {
		rows[i] = benefit.SSVFactor{
			Ppt: ppt, PolicyYear: i + 1,
			Factor1: decimal.NewFromFloat(f1[i]),
			Factor2: decimal.NewFromFloat(f2[i]),
		}
	}
	return rows
}

func centurySSVFactors() []benefit.SSVFactor {
	var rows []benefit.SSVFactor
	rows = append(rows, ssvCurve(7,
		[]float64{0, 40, 45, 50, 55, 60, 65, 68, 71, 74, 77, 80, 84, 90, 100},
		[]float64{0, 20, 25, 30, 35, 40, 45, 48, 51, 54, 57, 60, 64, 70, 80})...)
	rows = append(rows, ssvCurve(10,
		[]float64{0, 0, 35, 40, 45, 50, 55, 60, 63, 66, 69, 72, 75, 78, 81, 84, 87, 90, 95, 100},
		[]float64{0, 0, 15, 20, 25, 30, 35, 40, 43, 46, 49, 52, 55, 58, 61, 64, 67, 70, 75, 80})...)
	rows = append(rows, ssvCurve(12,
		[]float64{0, 0, 0, 35, 40, 45, 50, 55, 60, 63, 66, 69, 72, 75, 78, 81, 84, 87, 90, 93, 95, 97, 98, 99, 100},
		[]float64{0, 0, 0, 15, 20, 25, 30, 35, 40, 43, 46, 49, 52, 55, 58, 61, 64, 67, 70, 73, 75, 77, 78, 79, 80})...)
	rows = append(rows, ssvCurve(15,
		[]float64{0, 0, 0, 0, 35, 40, 45, 50, 55, 60, 63, 66, 69, 72, 75, 78, 81, 84, 87, 90, 92, 94, 96, 98, 100},
		[]float64{0, 0, 0, 0, 15, 20, 25, 30, 35, 40, 43, 46, 49, 52, 55, 58, 61, 64, 67, 70, 72, 74, 76, 78, 80})...)
	return rows
}

// loyaltyRamp builds single-year loyalty rows from policy year 2 up to
// openYear-1, rates stepping arithmetically, then one open-ended row at
// openYear continuing the ramp.
func loyaltyRamp(ppt int, start, step float64, openYear int) []benefit.LoyaltyFactor {
	var rows []benefit.LoyaltyFactor
	for y := 2; y < openYear; y++ {
		to := y
		rows = append(rows, benefit.LoyaltyFactor{
			Ppt: ppt, PolicyYearFrom: y, PolicyYearTo: &to,
			RatePercent: decimal.NewFromFloat(start + step*float64(y-2)),
		})
	}
	rows = append(rows, benefit.LoyaltyFactor{
		Ppt: ppt, PolicyYearFrom: openYear, PolicyYearTo: nil,
		RatePercent: decimal.NewFromFloat(start + step*float64(openYear-2)),
	})
	return rows
}

func centuryLoyaltyFactors() []benefit.LoyaltyFactor {
	var rows []benefit.LoyaltyFactor
	rows = append(rows, loyaltyRamp(7, 3, 3, 7)...)       // 3% .. 15%, then 18% from year 7
	rows = append(rows, loyaltyRamp(10, 2, 2, 11)...)     // 2% .. 18%, then 20% from year 11
	rows = append(rows, loyaltyRamp(12, 2, 2, 13)...)     // 2% .. 22%, then 24% from year 13
	rows = append(rows, loyaltyRamp(15, 1.5, 1.5, 16)...) // 1.5% .. 21%, then 22.5% from year 16
	return rows
}

// deferredRamp builds deferred income rows from fromYear to toYear, rates
// starting at 30% and stepping 3% per year.
func deferredRamp(ppt, pt, fromYear, toYear int) []benefit.DeferredIncomeFactor {
	var rows []benefit.DeferredIncomeFactor
	for y := fromYear; y <= toYear; y++ {
		rows = append(rows, benefit.DeferredIncomeFactor{
			Ppt: ppt, Pt: pt, PolicyYear: y,
			RatePercent: decimal.NewFromInt(int64(30 + 3*(y-fromYear))),
		})
	}
	return rows
}

func centuryDeferredFactors() []benefit.DeferredIncomeFactor {
	var rows []benefit.DeferredIncomeFactor
	rows = append(rows, deferredRamp(7, 15, 8, 15)...)
	rows = append(rows, deferredRamp(10, 20, 11, 20)...)
	rows = append(rows, deferredRamp(12, 25, 13, 25)...)
	rows = append(rows, deferredRamp(15, 25, 16, 25)...)
	return rows
}
