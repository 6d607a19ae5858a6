package valuation

import (
	"math"
)

// DiscountFactor returns 1/(1+rate/100)^year (year-end convention, rate in %)
func DiscountFactor(ratePercent float64, year int) float64 {
	return 1 / math.Pow(1+ratePercent/100, float64(year))
}

// PresentValue discounts an amount received at the end of year
func PresentValue(amount, ratePercent float64, year int) float64 {
	return amount / math.Pow(1+ratePercent/100, float64(year))
}

// NPV discounts a series where cashFlows[0] falls at t=0 (undiscounted)
func NPV(ratePercent float64, cashFlows []float64) float64 {
	if len(cashFlows) == 0 {
		return 0
	}
	total := cashFlows[0]
	for t := 1; t < len(cashFlows); t++ {
		total += PresentValue(cashFlows[t], ratePercent, t)
	}
	return total
}
