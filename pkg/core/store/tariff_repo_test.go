package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gd_valuation/pkg/core/tariff"
)

func TestTariffRepo_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewTariffRepo(nil, dir)
	ctx := context.Background()

	d, _ := tariff.DistributorByID("COPEL")
	comp := tariff.Components{EnergyTariff: 410, DistributionTariff: 290, GenerationDistributionTariff: 9, ConsumptionDistributionTariff: 14}

	if err := repo.Save(ctx, d, comp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "COPEL.json")); err != nil {
		t.Errorf("Expected snapshot file, got %v", err)
	}

	got, err := repo.Tariffs(ctx, "COPEL")
	if err != nil {
		t.Fatalf("Tariffs failed: %v", err)
	}
	if got != comp {
		t.Errorf("Expected %+v, got %+v", comp, got)
	}

	ds, err := repo.Distributors(ctx)
	if err != nil || len(ds) != 1 || ds[0].ID != "COPEL" {
		t.Errorf("Expected [COPEL], got %+v (%v)", ds, err)
	}
}

func TestTariffRepo_Miss(t *testing.T) {
	repo := NewTariffRepo(nil, t.TempDir())
	if _, err := repo.Tariffs(context.Background(), "CEMIG"); !errors.Is(err, tariff.ErrUnknownDistributor) {
		t.Errorf("Expected ErrUnknownDistributor, got %v", err)
	}

	empty := NewTariffRepo(nil, "")
	ds, err := empty.Distributors(context.Background())
	if err != nil || len(ds) != 0 {
		t.Errorf("Expected empty list, got %+v (%v)", ds, err)
	}
}

func TestTariffRepo_SaveAllSkipsUnknown(t *testing.T) {
	repo := NewTariffRepo(nil, t.TempDir())
	rows := map[string]tariff.Components{
		"CEMIG": {EnergyTariff: 390},
		"ACME":  {EnergyTariff: 1},
	}
	n, err := repo.SaveAll(context.Background(), rows)
	if err != nil || n != 1 {
		t.Errorf("Expected 1 saved, got %d (%v)", n, err)
	}
}

func TestTariffRepo_InFrontOfStatic(t *testing.T) {
	repo := NewTariffRepo(nil, t.TempDir())
	ctx := context.Background()
	cemig, _ := tariff.DistributorByID("CEMIG")
	if err := repo.Save(ctx, cemig, tariff.Components{EnergyTariff: 999}); err != nil {
		t.Fatal(err)
	}

	chain := tariff.ChainSource{repo, tariff.NewStaticSource()}

	got, err := chain.Tariffs(ctx, "CEMIG")
	if err != nil || got.EnergyTariff != 999 {
		t.Errorf("Expected stored CEMIG row, got %+v (%v)", got, err)
	}
	got, err = chain.Tariffs(ctx, "CPFL")
	if err != nil || got.EnergyTariff != 350 {
		t.Errorf("Expected static CPFL row, got %+v (%v)", got, err)
	}

	ds, err := chain.Distributors(ctx)
	if err != nil || len(ds) != 31 {
		t.Errorf("Expected merged registry of 31, got %d (%v)", len(ds), err)
	}
}

func TestSnapshotPathSanitized(t *testing.T) {
	repo := &TariffRepo{fileDir: "/tmp/x"}
	if got := repo.snapshotPath("../etc/passwd"); got != filepath.Join("/tmp/x", "___ETC_PASSWD.json") {
		t.Errorf("Unexpected path %s", got)
	}
}

func TestNewTariffSource_FileCacheAndANEEL(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "aneel.html")
	html := `<table>
<tr><th>Distribuidora</th><th>TE</th><th>TUSD</th><th>TUSDg</th><th>TUSDc</th></tr>
<tr><td>COPEL</td><td>400,00</td><td>300,00</td><td>11,00</td><td>16,00</td></tr>
</table>`
	if err := os.WriteFile(table, []byte(html), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	src := NewTariffSource(ctx, SourceOptions{CacheDir: filepath.Join(dir, "cache"), ANEELTable: table})
	if len(src) != 2 {
		t.Fatalf("Expected repo + static sources, got %d", len(src))
	}

	copel, err := src.Tariffs(ctx, "COPEL")
	if err != nil || copel.EnergyTariff != 400 || copel.ConsumptionDistributionTariff != 16 {
		t.Errorf("Expected imported COPEL row, got %+v (%v)", copel, err)
	}

	bare := NewTariffSource(ctx, SourceOptions{ANEELTable: filepath.Join(dir, "missing.html")})
	if len(bare) != 1 {
		t.Errorf("Expected static source only, got %d", len(bare))
	}
}
