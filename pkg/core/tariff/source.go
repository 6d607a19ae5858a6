package tariff

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gd_valuation/pkg/core/projection"
)

// ErrUnknownDistributor is returned when an ID is not in the registry
var ErrUnknownDistributor = errors.New("unknown distributor")

// DefaultKey is the fallback row of the tariff table
const DefaultKey = "default"

// Components are the distributor-specific tariff values
type Components struct {
	EnergyTariff                  float64 `json:"energy_tariff"`                   // TE (R$/MWh)
	DistributionTariff            float64 `json:"distribution_tariff"`             // TUSD (R$/MWh)
	GenerationDistributionTariff  float64 `json:"generation_distribution_tariff"`  // TUSDg (R$/kW)
	ConsumptionDistributionTariff float64 `json:"consumption_distribution_tariff"` // TUSDc (R$/kW)
}

var builtinTariffs = map[string]Components{
	"CEMIG":    {EnergyTariff: 380, DistributionTariff: 260, GenerationDistributionTariff: 12, ConsumptionDistributionTariff: 16},
	"CPFL":     {EnergyTariff: 350, DistributionTariff: 250, GenerationDistributionTariff: 10, ConsumptionDistributionTariff: 15},
	"ENEL-SP":  {EnergyTariff: 370, DistributionTariff: 270, GenerationDistributionTariff: 11, ConsumptionDistributionTariff: 17},
	DefaultKey: {EnergyTariff: 350, DistributionTariff: 250, GenerationDistributionTariff: 10, ConsumptionDistributionTariff: 15},
}

// Apply pre-populates the tariff components, leaving ICMS and PIS/COFINS untouched
func Apply(t projection.TariffsData, c Components) projection.TariffsData {
	t.EnergyTariff = c.EnergyTariff
	t.DistributionTariff = c.DistributionTariff
	t.GenerationDistributionTariff = c.GenerationDistributionTariff
	t.ConsumptionDistributionTariff = c.ConsumptionDistributionTariff
	return t
}

// =============================================================================
// SOURCES
// =============================================================================

// Source supplies distributor and tariff reference data
type Source interface {
	Distributors(ctx context.Context) ([]Distributor, error)
	Tariffs(ctx context.Context, distributorID string) (Components, error)
}

// StaticSource serves an in-memory table. It is immutable after construction.
type StaticSource struct {
	distributors []Distributor
	tariffs      map[string]Components
}

// NewStaticSource returns the built-in registry and default tariffs
func NewStaticSource() *StaticSource {
	tariffs := make(map[string]Components, len(builtinTariffs))
	for k, v := range builtinTariffs {
		tariffs[k] = v
	}
	return &StaticSource{distributors: Distributors(), tariffs: tariffs}
}

// WithOverrides returns a copy whose tariff rows are replaced by overrides
func (s *StaticSource) WithOverrides(overrides map[string]Components) *StaticSource {
	tariffs := make(map[string]Components, len(s.tariffs)+len(overrides))
	for k, v := range s.tariffs {
		tariffs[k] = v
	}
	for k, v := range overrides {
		tariffs[k] = v
	}
	ds := make([]Distributor, len(s.distributors))
	copy(ds, s.distributors)
	return &StaticSource{distributors: ds, tariffs: tariffs}
}

func (s *StaticSource) Distributors(ctx context.Context) ([]Distributor, error) {
	out := make([]Distributor, len(s.distributors))
	copy(out, s.distributors)
	return out, nil
}

// Tariffs returns the distributor's row, or the default row for a known
// distributor without specific data. The key may be an ID, ANEEL code or name.
func (s *StaticSource) Tariffs(ctx context.Context, distributorID string) (Components, error) {
	d, ok := resolveDistributor(s.distributors, distributorID)
	if !ok {
		return Components{}, fmt.Errorf("%w: %q", ErrUnknownDistributor, distributorID)
	}
	if c, ok := s.tariffs[d.ID]; ok {
		return c, nil
	}
	return s.tariffs[DefaultKey], nil
}

// ChainSource asks each source in order; the first answer wins
type ChainSource []Source

// Distributors merges every source's list by ID, earlier sources winning
func (c ChainSource) Distributors(ctx context.Context) ([]Distributor, error) {
	var (
		lastErr error
		out     []Distributor
		seen    = make(map[string]bool)
		okCount int
	)
	for _, s := range c {
		ds, err := s.Distributors(ctx)
		if err != nil {
			log.Printf("[TARIFF] distributor source %T failed: %v", s, err)
			lastErr = err
			continue
		}
		okCount++
		for _, d := range ds {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			out = append(out, d)
		}
	}
	if okCount == 0 && lastErr != nil {
		return nil, lastErr
	}
	SortByName(out)
	return out, nil
}

func (c ChainSource) Tariffs(ctx context.Context, distributorID string) (Components, error) {
	lastErr := fmt.Errorf("%w: %q", ErrUnknownDistributor, distributorID)
	for _, s := range c {
		comp, err := s.Tariffs(ctx, distributorID)
		if err == nil {
			return comp, nil
		}
		if !errors.Is(err, ErrUnknownDistributor) {
			log.Printf("[TARIFF] tariff source %T failed for %s: %v", s, distributorID, err)
		}
		lastErr = err
	}
	return Components{}, lastErr
}

// IsKnown reports whether the source lists the distributor
func IsKnown(ctx context.Context, src Source, distributorID string) (bool, error) {
	_, ok, err := Resolve(ctx, src, distributorID)
	return ok, err
}

// Resolve finds the source's distributor by ID, ANEEL code or name
// (case-insensitive)
func Resolve(ctx context.Context, src Source, key string) (Distributor, bool, error) {
	ds, err := src.Distributors(ctx)
	if err != nil {
		return Distributor{}, false, err
	}
	d, ok := resolveDistributor(ds, key)
	return d, ok, nil
}
