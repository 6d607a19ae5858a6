package tariff

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gd_valuation/pkg/core/projection"
)

func TestDistributorsSortedByName(t *testing.T) {
	ds := Distributors()
	if len(ds) != 31 {
		t.Fatalf("Expected 31 distributors, got %d", len(ds))
	}
	if ds[0].ID != "AMAZONAS" {
		t.Errorf("Expected Amazonas Energia first, got %s", ds[0].Name)
	}
	for i := 1; i < len(ds); i++ {
		if strings.ToLower(ds[i-1].Name[:1]) > strings.ToLower(ds[i].Name[:1]) {
			t.Errorf("Distributors out of order: %q before %q", ds[i-1].Name, ds[i].Name)
		}
	}
}

func TestDistributorByID(t *testing.T) {
	d, ok := DistributorByID("CEMIG")
	if !ok || d.State != "MG" {
		t.Errorf("Expected CEMIG in MG, got %+v (%v)", d, ok)
	}
	if _, ok := DistributorByID("NOPE"); ok {
		t.Error("Expected unknown ID to miss")
	}
}

func TestStaticSource_Tariffs(t *testing.T) {
	src := NewStaticSource()
	ctx := context.Background()

	cemig, err := src.Tariffs(ctx, "CEMIG")
	if err != nil || cemig.EnergyTariff != 380 || cemig.ConsumptionDistributionTariff != 16 {
		t.Errorf("Expected CEMIG row, got %+v (%v)", cemig, err)
	}

	// Known distributor without specific row -> default row
	copel, err := src.Tariffs(ctx, "COPEL")
	if err != nil || copel != builtinTariffs[DefaultKey] {
		t.Errorf("Expected default row for COPEL, got %+v (%v)", copel, err)
	}

	if _, err := src.Tariffs(ctx, "ACME"); !errors.Is(err, ErrUnknownDistributor) {
		t.Errorf("Expected ErrUnknownDistributor, got %v", err)
	}
	if _, err := src.Tariffs(ctx, DefaultKey); !errors.Is(err, ErrUnknownDistributor) {
		t.Errorf("Expected the fallback key not to act as a distributor, got %v", err)
	}
}

func TestStaticSource_TariffsByAlias(t *testing.T) {
	src := NewStaticSource()
	ctx := context.Background()
	want := builtinTariffs["CEMIG"]

	for _, key := range []string{"CEMIG", "cemig", "CEMIG-D", "cemig-d", "CEMIG Distribuição", " CEMIG "} {
		got, err := src.Tariffs(ctx, key)
		if err != nil || got != want {
			t.Errorf("%q: expected CEMIG row %+v, got %+v (%v)", key, want, got, err)
		}
	}

	overridden := src.WithOverrides(map[string]Components{"COPEL": {EnergyTariff: 400}})
	if got, err := overridden.Tariffs(ctx, "copel"); err != nil || got.EnergyTariff != 400 {
		t.Errorf("Expected COPEL override through alias, got %+v (%v)", got, err)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	src := NewStaticSource()

	for _, key := range []string{"cemig", "CEMIG-D", "CEMIG Distribuição"} {
		d, ok, err := Resolve(ctx, src, key)
		if err != nil || !ok || d.ID != "CEMIG" {
			t.Errorf("%q: expected CEMIG, got %+v (%v, %v)", key, d, ok, err)
		}
	}
	if _, ok, err := Resolve(ctx, src, "ACME"); ok || err != nil {
		t.Errorf("Expected ACME to miss, got %v (%v)", ok, err)
	}
	if _, ok, _ := Resolve(ctx, src, ""); ok {
		t.Error("Expected empty key to miss")
	}
}

func TestStaticSource_WithOverrides(t *testing.T) {
	base := NewStaticSource()
	over := base.WithOverrides(map[string]Components{"COPEL": {EnergyTariff: 400}})
	ctx := context.Background()

	c, _ := over.Tariffs(ctx, "COPEL")
	if c.EnergyTariff != 400 {
		t.Errorf("Expected override 400, got %f", c.EnergyTariff)
	}
	orig, _ := base.Tariffs(ctx, "COPEL")
	if orig.EnergyTariff != 350 {
		t.Errorf("Base source must not change, got %f", orig.EnergyTariff)
	}
}

type failingSource struct{ err error }

func (f failingSource) Distributors(ctx context.Context) ([]Distributor, error) { return nil, f.err }
func (f failingSource) Tariffs(ctx context.Context, id string) (Components, error) {
	return Components{}, f.err
}

func TestChainSource_FallsBack(t *testing.T) {
	chain := ChainSource{failingSource{errors.New("db down")}, NewStaticSource()}
	ctx := context.Background()

	c, err := chain.Tariffs(ctx, "ENEL-SP")
	if err != nil || c.EnergyTariff != 370 {
		t.Errorf("Expected ENEL-SP row from fallback, got %+v (%v)", c, err)
	}

	ds, err := chain.Distributors(ctx)
	if err != nil || len(ds) != 31 {
		t.Errorf("Expected registry from fallback, got %d (%v)", len(ds), err)
	}

	known, err := IsKnown(ctx, chain, "LIGHT")
	if err != nil || !known {
		t.Errorf("Expected LIGHT known, got %v (%v)", known, err)
	}

	if _, err := (ChainSource{failingSource{errors.New("x")}}).Tariffs(ctx, "CPFL"); err == nil {
		t.Error("Expected error when every source fails")
	}
}

func TestApply(t *testing.T) {
	in := projection.TariffsData{EnergyTariff: 1, ICMSPercent: 18, PISCofinsPercent: 9.25}
	out := Apply(in, Components{EnergyTariff: 380, DistributionTariff: 260, GenerationDistributionTariff: 12, ConsumptionDistributionTariff: 16})

	if out.EnergyTariff != 380 || out.DistributionTariff != 260 || out.GenerationDistributionTariff != 12 || out.ConsumptionDistributionTariff != 16 {
		t.Errorf("Components not applied: %+v", out)
	}
	if out.ICMSPercent != 18 || out.PISCofinsPercent != 9.25 {
		t.Errorf("Taxes must be preserved: %+v", out)
	}
}

const aneelHTML = `
<html><body>
<p>Tarifas de aplicação - Subgrupo A4</p>
<table><tr><td>unrelated</td></tr><tr><td>1</td></tr></table>
<table>
  <tr><th>Distribuidora</th><th>TE (R$/MWh)</th><th>TUSD (R$/MWh)</th><th>TUSD g (R$/kW)</th><th>TUSD c (R$/kW)</th></tr>
  <tr><td>COPEL-DIS</td><td>1.012,50</td><td>280,10</td><td>9,80</td><td>14,20</td></tr>
  <tr><td>Light Serviços de Eletricidade</td><td>395,00</td><td>301,00</td><td>13,00</td><td>18,00</td></tr>
  <tr><td>Cooperativa X</td><td>1,00</td><td>1,00</td><td>1,00</td><td>1,00</td></tr>
  <tr><td>CEMIG</td><td>n/d</td><td>1,00</td><td>1,00</td><td>1,00</td></tr>
</table>
</body></html>`

func TestParseANEELTable(t *testing.T) {
	rows, err := ParseANEELTable(strings.NewReader(aneelHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 imported rows, got %d: %+v", len(rows), rows)
	}

	copel := rows["COPEL"]
	if copel.EnergyTariff != 1012.5 || copel.DistributionTariff != 280.1 ||
		copel.GenerationDistributionTariff != 9.8 || copel.ConsumptionDistributionTariff != 14.2 {
		t.Errorf("Unexpected COPEL row: %+v", copel)
	}
	if rows["LIGHT"].EnergyTariff != 395 {
		t.Errorf("Expected LIGHT resolved by name, got %+v", rows["LIGHT"])
	}
	if _, ok := rows["CEMIG"]; ok {
		t.Error("Row with unparseable value must be skipped")
	}
}

func TestParseANEELTable_NoTable(t *testing.T) {
	if _, err := ParseANEELTable(strings.NewReader("<p>nothing</p>")); err == nil {
		t.Error("Expected error without a tariff table")
	}
}

func TestParseBRNumber(t *testing.T) {
	cases := map[string]float64{
		"1.234,56":    1234.56,
		"R$ 350,00":   350,
		" 9,25 ":      9.25,
		"12":          12,
		"1.000.000,1": 1000000.1,
	}
	for in, want := range cases {
		got, err := ParseBRNumber(in)
		if err != nil || got != want {
			t.Errorf("ParseBRNumber(%q) = %f, %v; want %f", in, got, err, want)
		}
	}
	if _, err := ParseBRNumber("abc"); err == nil {
		t.Error("Expected error for non-numeric input")
	}
}
