package projection

import (
	"gd_valuation/pkg/core/valuation"
)

// CorporateTaxRate is the combined IRPJ + CSLL rate used for the
// depreciation tax shield
const CorporateTaxRate = 0.34

// Calculate projects the investment year by year and aggregates NPV, IRR,
// payback and ROI. It is a pure function of its inputs: degenerate values
// (zero investment, zero duration, -100% rates) yield NaN/Inf figures rather
// than errors. Input validation belongs to the caller.
func Calculate(system SystemData, costs CostsData, tariffs TariffsData, params FinancialParams) CalculationResults {
	initialInvestment := InitialInvestment(system, costs)

	duration := params.ProjectDuration
	if duration < 0 {
		duration = 0
	}

	yearlyResults := make([]YearResult, 0, duration)
	cashFlows := make([]float64, 0, duration+1)
	cashFlows = append(cashFlows, -initialInvestment)

	yearlyDepreciation := initialInvestment / float64(params.DepreciationYears)

	// Haircut applied to gross revenue (discount rate doubles as client discount)
	revenueHaircut := (1 - params.DiscountRate/100) * (1 - params.DefaultRate/100)
	demandKW := system.ContractedDemand + system.LoadDemand
	energyPrice := tariffs.EnergyTariff + tariffs.DistributionTariff
	demandPrice := tariffs.GenerationDistributionTariff + tariffs.ConsumptionDistributionTariff

	accumulated := 0.0
	paybackYear := params.ProjectDuration
	paybackAchieved := false
	var npv, totalRevenue, totalCosts float64

	for year := 1; year <= duration; year++ {
		// 1. Generation & escalation
		generation := DegradedGeneration(system.AnnualGeneration, params.AnnualDegradation, year)
		escalation := EscalationFactor(params, year)

		// 2. Revenue
		energyRevenue := generation * energyPrice * escalation
		demandRevenue := demandKW * demandPrice * 12 * escalation
		revenue := (energyRevenue + demandRevenue) * revenueHaircut

		// 3. Costs
		omCost := initialInvestment * (costs.OMPercent / 100) * escalation
		insuranceCost := initialInvestment * (costs.InsurancePercent / 100) * escalation
		admCost := revenue * (costs.AdmPercent / 100)
		rentCost := costs.Rent * 12 * escalation

		inverterCost := 0.0
		if year == costs.InverterReplacementYear {
			inverterCost = initialInvestment * (costs.InverterReplacementPercent / 100)
		}

		// 4. Taxes on gross revenue
		icmsTax := revenue * (tariffs.ICMSPercent / 100)
		pisCofinsTax := revenue * (tariffs.PISCofinsPercent / 100)

		// 5. Depreciation tax shield
		depreciation := 0.0
		if year <= params.DepreciationYears {
			depreciation = yearlyDepreciation
		}
		taxBenefit := depreciation * CorporateTaxRate

		// 6. Cash flows
		freeCashFlow := revenue - omCost - insuranceCost - admCost -
			rentCost - icmsTax - pisCofinsTax + taxBenefit - inverterCost
		discountedCashFlow := valuation.PresentValue(freeCashFlow, params.DiscountRate, year)
		accumulated += freeCashFlow

		if !paybackAchieved && accumulated >= initialInvestment {
			paybackYear = year
			paybackAchieved = true
		}

		result := YearResult{
			Year:                year,
			Generation:          generation,
			Revenue:             revenue,
			OMCost:              omCost,
			InsuranceCost:       insuranceCost,
			AdmCost:             admCost,
			RentCost:            rentCost,
			InverterCost:        inverterCost,
			ICMSTax:             icmsTax,
			PISCofinsTax:        pisCofinsTax,
			Depreciation:        depreciation,
			TaxBenefit:          taxBenefit,
			FreeCashFlow:        freeCashFlow,
			DiscountedCashFlow:  discountedCashFlow,
			AccumulatedCashFlow: accumulated,
		}
		yearlyResults = append(yearlyResults, result)
		cashFlows = append(cashFlows, freeCashFlow)

		npv += discountedCashFlow
		totalRevenue += revenue
		totalCosts += result.TotalCosts()
	}

	// 7. Aggregates
	npv = -initialInvestment + npv
	irr := valuation.SolveIRR(cashFlows)
	roi := ((totalRevenue - (initialInvestment + totalCosts)) / initialInvestment) * 100

	return CalculationResults{
		YearlyResults:     yearlyResults,
		CashFlows:         cashFlows,
		InitialInvestment: initialInvestment,
		NPV:               npv,
		IRR:               irr.Rate,
		PaybackYear:       paybackYear,
		ROI:               roi,
		PaybackAchieved:   paybackAchieved,
		IRRConverged:      irr.Converged,
		IRRIterations:     irr.Iterations,
	}
}
