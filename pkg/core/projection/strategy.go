package projection

import (
	"math"
)

// =============================================================================
// YEARLY DRIVERS
// =============================================================================

// EscalationFactor returns the compounding readjustment multiplier for a
// 1-indexed year: (1 + AdjustmentRate/100)^(year-1).
//
// AdjustmentType is recorded on FinancialParams but both IPCA and Energy
// use this same formula.
func EscalationFactor(params FinancialParams, year int) float64 {
	return math.Pow(1+params.AdjustmentRate/100, float64(year-1))
}

// DegradedGeneration returns the year's generation after geometric decay.
// Year 1 carries no degradation.
func DegradedGeneration(annualGeneration, degradationPercent float64, year int) float64 {
	return annualGeneration * math.Pow(1-degradationPercent/100, float64(year-1))
}

// InitialInvestment resolves the CAPEX input: the total when set (and
// non-zero), otherwise R$/Wp x kWp x 1000.
func InitialInvestment(system SystemData, costs CostsData) float64 {
	if costs.CapexTotal != nil && *costs.CapexTotal != 0 {
		return *costs.CapexTotal
	}
	if costs.CapexPerWp != nil && *costs.CapexPerWp != 0 {
		return *costs.CapexPerWp * system.PowerDC * 1000
	}
	return 0
}
