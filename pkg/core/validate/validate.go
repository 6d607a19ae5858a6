// Package validate checks projection scenarios before they reach the
// calculator. The calculator itself accepts any numbers; these checks reject
// inputs that would make the projection meaningless.
package validate

import (
	"context"
	"fmt"
	"strings"

	"gd_valuation/pkg/core/scenario"
	"gd_valuation/pkg/core/tariff"
)

// =============================================================================
// VIOLATIONS
// =============================================================================

// Violation is one failed check
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every failed check of a scenario
type ValidationErrors []Violation

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Field + ": " + e.Message
	}
	return "invalid scenario: " + strings.Join(msgs, "; ")
}

// Fields lists the failing field names in check order
func (v ValidationErrors) Fields() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Field
	}
	return out
}

// Report is the outcome of ValidateInputs
type Report struct {
	Errors   ValidationErrors `json:"errors,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Err returns the aggregated errors, or nil when every check passed
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}

// =============================================================================
// CHECKS
// =============================================================================

// ValidateInputs checks a scenario against the built-in distributor registry
func ValidateInputs(s scenario.Scenario) Report {
	r, _ := ValidateWithSource(context.Background(), s, tariff.NewStaticSource())
	return r
}

// ValidateWithSource checks a scenario, resolving the distributor through src.
// The error is only set when the source itself fails.
func ValidateWithSource(ctx context.Context, s scenario.Scenario, src tariff.Source) (Report, error) {
	var r Report
	fail := func(field, msg string) {
		r.Errors = append(r.Errors, Violation{Field: field, Message: msg})
	}

	// 1. System
	if s.System.PowerDC <= 0 {
		fail("power_dc", "Potência CC deve ser maior que zero")
	}
	if s.System.AnnualGeneration <= 0 {
		fail("annual_generation", "Geração anual deve ser maior que zero")
	}

	// 2. Distributor
	if s.System.Distributor == "" {
		fail("distributor", "Selecione uma distribuidora")
	} else {
		known, err := tariff.IsKnown(ctx, src, s.System.Distributor)
		if err != nil {
			return r, fmt.Errorf("failed to resolve distributor: %w", err)
		}
		if !known {
			fail("distributor", fmt.Sprintf("Distribuidora desconhecida: %s", s.System.Distributor))
		}
	}

	// 3. CAPEX (only the active field)
	switch s.CapexMode {
	case scenario.CapexTotal:
		if s.Costs.CapexTotal == nil || *s.Costs.CapexTotal <= 0 {
			fail("capex_total", "CAPEX total deve ser maior que zero")
		}
	default:
		if s.Costs.CapexPerWp == nil || *s.Costs.CapexPerWp <= 0 {
			fail("capex_per_wp", "CAPEX por Wp deve ser maior que zero")
		}
	}

	// 4. Financial
	deg := s.Financial.AnnualDegradation
	if deg < 0 || deg > 100 {
		fail("annual_degradation", "Taxa de degradação deve estar entre 0 e 100%")
	}
	if s.Financial.ProjectDuration < 1 {
		fail("project_duration", "Duração do projeto deve ser de pelo menos 1 ano")
	}

	// 5. Warnings
	year := s.Costs.InverterReplacementYear
	if s.Financial.ProjectDuration >= 1 && (year < 1 || year > s.Financial.ProjectDuration) {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"Troca de inversores no ano %d fora do horizonte de %d anos; o custo não será considerado",
			year, s.Financial.ProjectDuration))
	}

	return r, nil
}
