package valuation

import (
	"math"
	"testing"
)

func TestSolveIRR_SinglePeriod(t *testing.T) {
	res := SolveIRR([]float64{-1000, 1100})

	if !res.Converged {
		t.Fatalf("Expected convergence, got %+v", res)
	}
	if math.Abs(res.Rate-10.0) > 1e-6 {
		t.Errorf("Expected IRR 10.00%%, got %f", res.Rate)
	}
	if res.Iterations < 1 {
		t.Errorf("Expected at least one iteration, got %d", res.Iterations)
	}
}

func TestSolveIRR_MultiPeriod(t *testing.T) {
	cases := []struct {
		name      string
		cashFlows []float64
		expected  float64
	}{
		{"uneven inflows", []float64{-1000, 300, 400, 500}, 8.896339},
		{"bond at par", []float64{-100, 10, 10, 110}, 10.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := SolveIRR(tc.cashFlows)
			if !res.Converged {
				t.Fatalf("Expected convergence, got %+v", res)
			}
			if math.Abs(res.Rate-tc.expected) > 1e-4 {
				t.Errorf("Expected IRR %f, got %f", tc.expected, res.Rate)
			}
			// NPV at the solved rate must be ~0
			if npv := NPV(res.Rate, tc.cashFlows); math.Abs(npv) > 1e-3 {
				t.Errorf("Expected NPV ~0 at IRR, got %f", npv)
			}
		})
	}
}

func TestSolveIRR_NonConvergenceFallsBackToLastGuess(t *testing.T) {
	// Deep loss: Newton overshoots below -100% and diverges
	res := SolveIRR([]float64{-450000, 129600})

	if res.Converged {
		t.Errorf("Expected non-convergence, got rate %f", res.Rate)
	}
	if res.Iterations != irrMaxIterations {
		t.Errorf("Expected %d iterations, got %d", irrMaxIterations, res.Iterations)
	}
}

func TestSolveIRR_EmptySeries(t *testing.T) {
	res := SolveIRR(nil)
	if !math.IsNaN(res.Rate) || res.Converged {
		t.Errorf("Expected NaN and not converged for empty series, got %+v", res)
	}
}

func TestIRRMatchesSolveIRR(t *testing.T) {
	cf := []float64{-1000, 300, 400, 500}
	if IRR(cf) != SolveIRR(cf).Rate {
		t.Error("IRR should return the SolveIRR rate")
	}
}

func TestNPV(t *testing.T) {
	npv := NPV(10, []float64{-1000, 1100})
	if math.Abs(npv) > 1e-9 {
		t.Errorf("Expected NPV 0, got %f", npv)
	}

	if NPV(10, nil) != 0 {
		t.Error("Expected NPV 0 for empty series")
	}

	if df := DiscountFactor(10, 2); math.Abs(df-1/1.21) > 1e-12 {
		t.Errorf("Expected discount factor %f, got %f", 1/1.21, df)
	}
}
