package projection

import (
	"encoding/json"
	"math"
)

// finite returns nil for NaN/Inf so degenerate inputs still encode as JSON
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finiteSlice(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = finite(v)
	}
	return out
}

type yearResultJSON struct {
	Year                int      `json:"year"`
	Generation          *float64 `json:"generation"`
	Revenue             *float64 `json:"revenue"`
	OMCost              *float64 `json:"om_cost"`
	InsuranceCost       *float64 `json:"insurance_cost"`
	AdmCost             *float64 `json:"adm_cost"`
	RentCost            *float64 `json:"rent_cost"`
	InverterCost        *float64 `json:"inverter_cost"`
	ICMSTax             *float64 `json:"icms_tax"`
	PISCofinsTax        *float64 `json:"pis_cofins_tax"`
	Depreciation        *float64 `json:"depreciation"`
	TaxBenefit          *float64 `json:"tax_benefit"`
	FreeCashFlow        *float64 `json:"free_cash_flow"`
	DiscountedCashFlow  *float64 `json:"discounted_cash_flow"`
	AccumulatedCashFlow *float64 `json:"accumulated_cash_flow"`
}

// MarshalJSON encodes non-finite figures as null
func (y YearResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(yearResultJSON{
		Year:                y.Year,
		Generation:          finite(y.Generation),
		Revenue:             finite(y.Revenue),
		OMCost:              finite(y.OMCost),
		InsuranceCost:       finite(y.InsuranceCost),
		AdmCost:             finite(y.AdmCost),
		RentCost:            finite(y.RentCost),
		InverterCost:        finite(y.InverterCost),
		ICMSTax:             finite(y.ICMSTax),
		PISCofinsTax:        finite(y.PISCofinsTax),
		Depreciation:        finite(y.Depreciation),
		TaxBenefit:          finite(y.TaxBenefit),
		FreeCashFlow:        finite(y.FreeCashFlow),
		DiscountedCashFlow:  finite(y.DiscountedCashFlow),
		AccumulatedCashFlow: finite(y.AccumulatedCashFlow),
	})
}

type calculationResultsJSON struct {
	YearlyResults     []YearResult `json:"yearly_results"`
	CashFlows         []*float64   `json:"cash_flows"`
	InitialInvestment *float64     `json:"initial_investment"`
	NPV               *float64     `json:"npv"`
	IRR               *float64     `json:"irr"`
	PaybackYear       int          `json:"payback_year"`
	ROI               *float64     `json:"roi"`
	PaybackAchieved   bool         `json:"payback_achieved"`
	IRRConverged      bool         `json:"irr_converged"`
	IRRIterations     int          `json:"irr_iterations"`
}

// MarshalJSON encodes non-finite aggregates as null
func (r CalculationResults) MarshalJSON() ([]byte, error) {
	yearly := r.YearlyResults
	if yearly == nil {
		yearly = []YearResult{}
	}
	return json.Marshal(calculationResultsJSON{
		YearlyResults:     yearly,
		CashFlows:         finiteSlice(r.CashFlows),
		InitialInvestment: finite(r.InitialInvestment),
		NPV:               finite(r.NPV),
		IRR:               finite(r.IRR),
		PaybackYear:       r.PaybackYear,
		ROI:               finite(r.ROI),
		PaybackAchieved:   r.PaybackAchieved,
		IRRConverged:      r.IRRConverged,
		IRRIterations:     r.IRRIterations,
	})
}
