package projection

import (
	"fmt"
	"strings"
)

// SystemData describes the generation plant and its grid connection
type SystemData struct {
	PowerDC          float64 `json:"power_dc" yaml:"power_dc"`                   // kWp
	AnnualGeneration float64 `json:"annual_generation" yaml:"annual_generation"` // MWh
	ContractedDemand float64 `json:"contracted_demand" yaml:"contracted_demand"` // kW (generation)
	LoadDemand       float64 `json:"load_demand" yaml:"load_demand"`             // kW (load)
	Distributor      string  `json:"distributor" yaml:"distributor"`             // Distributor ID
}

// CostsData holds capital and operating cost drivers.
// Exactly one of CapexPerWp / CapexTotal is expected to be set.
type CostsData struct {
	CapexPerWp                 *float64 `json:"capex_per_wp" yaml:"capex_per_wp"` // R$/Wp
	CapexTotal                 *float64 `json:"capex_total" yaml:"capex_total"`   // R$
	InsurancePercent           float64  `json:"insurance_percent" yaml:"insurance_percent"`
	OMPercent                  float64  `json:"om_percent" yaml:"om_percent"`
	AdmPercent                 float64  `json:"adm_percent" yaml:"adm_percent"`
	Rent                       float64  `json:"rent" yaml:"rent"` // R$/month (Year 1)
	InverterReplacementPercent float64  `json:"inverter_replacement_percent" yaml:"inverter_replacement_percent"`
	InverterReplacementYear    int      `json:"inverter_replacement_year" yaml:"inverter_replacement_year"`
}

// TariffsData holds the regulated tariff components and taxes
type TariffsData struct {
	EnergyTariff                  float64 `json:"energy_tariff" yaml:"energy_tariff"`                                     // TE (R$/MWh)
	DistributionTariff            float64 `json:"distribution_tariff" yaml:"distribution_tariff"`                         // TUSD (R$/MWh)
	GenerationDistributionTariff  float64 `json:"generation_distribution_tariff" yaml:"generation_distribution_tariff"`   // TUSDg (R$/kW)
	ConsumptionDistributionTariff float64 `json:"consumption_distribution_tariff" yaml:"consumption_distribution_tariff"` // TUSDc (R$/kW)
	ICMSPercent                   float64 `json:"icms_percent" yaml:"icms_percent"`
	PISCofinsPercent              float64 `json:"pis_cofins_percent" yaml:"pis_cofins_percent"`
}

// FinancialParams defines the financing and adjustment assumptions
type FinancialParams struct {
	DiscountRate      float64        `json:"discount_rate" yaml:"discount_rate"` // % (revenue haircut AND NPV rate)
	AdjustmentType    AdjustmentType `json:"adjustment_type" yaml:"adjustment_type"`
	AdjustmentRate    float64        `json:"adjustment_rate" yaml:"adjustment_rate"`       // % per year
	AnnualDegradation float64        `json:"annual_degradation" yaml:"annual_degradation"` // % per year
	DepreciationYears int            `json:"depreciation_years" yaml:"depreciation_years"`
	ProjectDuration   int            `json:"project_duration" yaml:"project_duration"`
	DefaultRate       float64        `json:"default_rate" yaml:"default_rate"` // % customer delinquency
}

// =============================================================================
// ADJUSTMENT TYPE
// =============================================================================

// AdjustmentType selects the price readjustment index
type AdjustmentType int

const (
	// AdjustmentIPCA escalates by the consumer price index
	AdjustmentIPCA AdjustmentType = iota
	// AdjustmentEnergy escalates by the energy tariff readjustment
	AdjustmentEnergy
)

func (a AdjustmentType) String() string {
	switch a {
	case AdjustmentIPCA:
		return "IPCA"
	case AdjustmentEnergy:
		return "Energy"
	}
	return fmt.Sprintf("AdjustmentType(%d)", int(a))
}

// ParseAdjustmentType maps "IPCA" / "Energy" (case-insensitive) to the enum
func ParseAdjustmentType(s string) (AdjustmentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ipca", "":
		return AdjustmentIPCA, nil
	case "energy", "energia":
		return AdjustmentEnergy, nil
	}
	return AdjustmentIPCA, fmt.Errorf("unknown adjustment type %q", s)
}

func (a AdjustmentType) MarshalText() ([]byte, error) {
	switch a {
	case AdjustmentIPCA, AdjustmentEnergy:
		return []byte(a.String()), nil
	}
	return nil, fmt.Errorf("invalid adjustment type %d", int(a))
}

func (a *AdjustmentType) UnmarshalText(text []byte) error {
	v, err := ParseAdjustmentType(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UnmarshalYAML lets yaml.v2 decode the textual form
func (a *AdjustmentType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

func (a AdjustmentType) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// =============================================================================
// RESULTS
// =============================================================================

// YearResult holds the projected figures for a single year (all money in R$)
type YearResult struct {
	Year                int
	Generation          float64 // MWh
	Revenue             float64
	OMCost              float64
	InsuranceCost       float64
	AdmCost             float64
	RentCost            float64
	InverterCost        float64
	ICMSTax             float64
	PISCofinsTax        float64
	Depreciation        float64
	TaxBenefit          float64
	FreeCashFlow        float64
	DiscountedCashFlow  float64
	AccumulatedCashFlow float64
}

// TotalCosts sums every cost and tax line of the year
func (y YearResult) TotalCosts() float64 {
	return y.OMCost + y.InsuranceCost + y.AdmCost + y.RentCost + y.ICMSTax + y.PISCofinsTax + y.InverterCost
}

// CalculationResults is the single object returned by Calculate
type CalculationResults struct {
	YearlyResults     []YearResult
	CashFlows         []float64 // [-InitialInvestment, FCF1 .. FCFn]
	InitialInvestment float64
	NPV               float64 // VPL
	IRR               float64 // TIR (%)
	PaybackYear       int
	ROI               float64 // %

	// PaybackAchieved is false when accumulated cash flow never covers the
	// investment; PaybackYear then equals the project duration.
	PaybackAchieved bool
	// IRRConverged is false when the solver hit its iteration cap and IRR
	// holds the last guess.
	IRRConverged  bool
	IRRIterations int
}
