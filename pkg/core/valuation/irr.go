package valuation

import (
	"math"
)

const (
	irrInitialGuess  = 0.10
	irrTolerance     = 1e-5
	irrMaxIterations = 1000
)

// IRRResult is the outcome of the Newton-Raphson search
type IRRResult struct {
	Rate       float64 // % (last guess when not converged)
	Converged  bool
	Iterations int
}

// SolveIRR finds the rate that zeroes the NPV of cashFlows, where cashFlows[0]
// is the (negative) outlay at t=0 and cashFlows[t] falls at the end of year t.
//
// Newton-Raphson from 10%, no bracketing. After irrMaxIterations the last
// guess is returned with Converged=false. Series without a sign change may
// diverge or return a meaningless rate.
func SolveIRR(cashFlows []float64) IRRResult {
	if len(cashFlows) == 0 {
		return IRRResult{Rate: math.NaN()}
	}

	guess := irrInitialGuess
	for i := 1; i <= irrMaxIterations; i++ {
		npv, derivative := npvAndDerivative(cashFlows, guess)

		next := guess - npv/derivative
		if math.Abs(next-guess) < irrTolerance {
			return IRRResult{Rate: next * 100, Converged: true, Iterations: i}
		}
		guess = next
	}

	return IRRResult{Rate: guess * 100, Converged: false, Iterations: irrMaxIterations}
}

// IRR returns only the rate (%) of SolveIRR
func IRR(cashFlows []float64) float64 {
	return SolveIRR(cashFlows).Rate
}

// npvAndDerivative evaluates f(r) = CF0 + sum CFt/(1+r)^t and
// f'(r) = -sum t*CFt/(1+r)^(t+1) in one pass
func npvAndDerivative(cashFlows []float64, r float64) (float64, float64) {
	npv := cashFlows[0]
	derivative := 0.0
	for t := 1; t < len(cashFlows); t++ {
		discountFactor := math.Pow(1+r, float64(t))
		npv += cashFlows[t] / discountFactor
		derivative -= float64(t) * cashFlows[t] / (discountFactor * (1 + r))
	}
	return npv, derivative
}
