package report

import "gd_valuation/pkg/core/projection"

// CashFlowPoint compares revenue against total costs and taxes
type CashFlowPoint struct {
	Year    int    `json:"year"`
	Revenue Number `json:"revenue"`
	Costs   Number `json:"costs"`
}

// AccumulatedPoint tracks the running sum of free cash flow
type AccumulatedPoint struct {
	Year        int    `json:"year"`
	Accumulated Number `json:"accumulated"`
}

// GenerationPoint is the degraded generation of a year (MWh)
type GenerationPoint struct {
	Year       int    `json:"year"`
	Generation Number `json:"generation"`
}

// Charts holds the per-year series for visualization
type Charts struct {
	CashFlow    []CashFlowPoint    `json:"cash_flow"`
	Accumulated []AccumulatedPoint `json:"accumulated"`
	Generation  []GenerationPoint  `json:"generation"`
}

// BuildCharts derives the chart series from the yearly results
func BuildCharts(yearly []projection.YearResult) Charts {
	c := Charts{
		CashFlow:    make([]CashFlowPoint, 0, len(yearly)),
		Accumulated: make([]AccumulatedPoint, 0, len(yearly)),
		Generation:  make([]GenerationPoint, 0, len(yearly)),
	}
	for _, y := range yearly {
		c.CashFlow = append(c.CashFlow, CashFlowPoint{Year: y.Year, Revenue: Number(y.Revenue), Costs: Number(y.TotalCosts())})
		c.Accumulated = append(c.Accumulated, AccumulatedPoint{Year: y.Year, Accumulated: Number(y.AccumulatedCashFlow)})
		c.Generation = append(c.Generation, GenerationPoint{Year: y.Year, Generation: Number(y.Generation)})
	}
	return c
}
