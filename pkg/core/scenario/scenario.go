// Package scenario loads a complete projection scenario (project name, CAPEX
// mode and the four input groups) from YAML, Hjson or JSON.
package scenario

import (
	"fmt"
	"strings"

	"gd_valuation/pkg/core/projection"
)

// CapexMode selects which CAPEX field is active
type CapexMode string

const (
	CapexPerWp CapexMode = "perWp"
	CapexTotal CapexMode = "total"
)

// DefaultProjectName is used when a scenario leaves the name empty
const DefaultProjectName = "Novo Projeto GD"

// Scenario is one set of projection inputs plus presentation metadata
type Scenario struct {
	ProjectName string                     `json:"project_name" yaml:"project_name"`
	CapexMode   CapexMode                  `json:"capex_mode" yaml:"capex_mode"`
	System      projection.SystemData      `json:"system" yaml:"system"`
	Costs       projection.CostsData       `json:"costs" yaml:"costs"`
	Tariffs     projection.TariffsData     `json:"tariffs" yaml:"tariffs"`
	Financial   projection.FinancialParams `json:"financial" yaml:"financial"`

	// UseReferenceTariffs asks the caller to pre-populate the tariff
	// components from the distributor's reference row. Nil leaves the
	// caller's default in place.
	UseReferenceTariffs *bool `json:"use_reference_tariffs,omitempty" yaml:"use_reference_tariffs,omitempty"`
}

// Default returns the reference 100 kWp scenario
func Default() Scenario {
	capexPerWp := 4.5
	return Scenario{
		ProjectName: DefaultProjectName,
		CapexMode:   CapexPerWp,
		System: projection.SystemData{
			PowerDC:          100,
			AnnualGeneration: 150,
			ContractedDemand: 80,
			LoadDemand:       100,
			Distributor:      "",
		},
		Costs: projection.CostsData{
			CapexPerWp:                 &capexPerWp,
			InsurancePercent:           0.5,
			OMPercent:                  1.0,
			AdmPercent:                 3.0,
			Rent:                       1000,
			InverterReplacementPercent: 15,
			InverterReplacementYear:    10,
		},
		Tariffs: projection.TariffsData{
			EnergyTariff:                  350,
			DistributionTariff:            250,
			GenerationDistributionTariff:  10,
			ConsumptionDistributionTariff: 15,
			ICMSPercent:                   18,
			PISCofinsPercent:              9.25,
		},
		Financial: projection.FinancialParams{
			DiscountRate:      10,
			AdjustmentType:    projection.AdjustmentIPCA,
			AdjustmentRate:    4.5,
			AnnualDegradation: 0.8,
			DepreciationYears: 10,
			ProjectDuration:   25,
			DefaultRate:       0,
		},
	}
}

// ParseCapexMode accepts "perWp"/"per_wp"/"wp" and "total"
func ParseCapexMode(s string) (CapexMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perwp", "per_wp", "wp", "":
		return CapexPerWp, nil
	case "total":
		return CapexTotal, nil
	}
	return "", fmt.Errorf("unknown capex mode %q", s)
}

// normalize fills presentation defaults and canonicalizes the CAPEX mode.
// A scenario that names no mode but sets capex_total is treated as total.
func (s *Scenario) normalize() error {
	if strings.TrimSpace(s.ProjectName) == "" {
		s.ProjectName = DefaultProjectName
	}
	mode, err := ParseCapexMode(string(s.CapexMode))
	if err != nil {
		return err
	}
	if s.CapexMode == "" && s.Costs.CapexTotal != nil {
		mode = CapexTotal
	}
	s.CapexMode = mode
	s.System.Distributor = strings.TrimSpace(s.System.Distributor)
	return nil
}

// Inputs returns the four projection inputs with the inactive CAPEX field cleared
func (s Scenario) Inputs() (projection.SystemData, projection.CostsData, projection.TariffsData, projection.FinancialParams) {
	costs := s.clone().Costs
	switch s.CapexMode {
	case CapexTotal:
		costs.CapexPerWp = nil
	default:
		costs.CapexTotal = nil
	}
	return s.System, costs, s.Tariffs, s.Financial
}

// clone copies the scenario including the CAPEX pointers
func (s Scenario) clone() Scenario {
	if s.Costs.CapexPerWp != nil {
		v := *s.Costs.CapexPerWp
		s.Costs.CapexPerWp = &v
	}
	if s.Costs.CapexTotal != nil {
		v := *s.Costs.CapexTotal
		s.Costs.CapexTotal = &v
	}
	if s.UseReferenceTariffs != nil {
		v := *s.UseReferenceTariffs
		s.UseReferenceTariffs = &v
	}
	return s
}

// Calculate runs the projection for the scenario
func (s Scenario) Calculate() projection.CalculationResults {
	return projection.Calculate(s.Inputs())
}
