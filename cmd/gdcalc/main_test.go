package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gd_valuation/pkg/core/validate"
)

func isolateEnv(t *testing.T, cacheDir string) string {
	t.Helper()
	t.Setenv("GD_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GD_ANEEL_TABLE", "")
	t.Setenv("GD_TARIFF_CACHE_DIR", cacheDir)
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func TestRun_DefaultScenario(t *testing.T) {
	cfgPath := isolateEnv(t, "")
	mdPath := filepath.Join(t.TempDir(), "out.md")

	var out bytes.Buffer
	err := run([]string{"--config", cfgPath, "-d", "CEMIG", "--md", mdPath, "--table=false"}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Novo Projeto GD", "R$ 450.000,00", "21.46%", "5 anos", "Excelente (90/100)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Output missing %q:\n%s", want, text)
		}
	}

	md, err := os.ReadFile(mdPath)
	if err != nil || !strings.HasPrefix(string(md), "# Novo Projeto GD") {
		t.Errorf("Expected markdown file, got %v", err)
	}
}

func TestRun_ValidationFailure(t *testing.T) {
	cfgPath := isolateEnv(t, "")

	var out bytes.Buffer
	err := run([]string{"--config", cfgPath}, &out)

	var verrs validate.ValidationErrors
	if !errors.As(err, &verrs) || verrs.Fields()[0] != "distributor" {
		t.Errorf("Expected distributor violation, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "-d/--distributor") {
		t.Errorf("Expected the error to name the distributor flag, got %v", err)
	}
}

func TestRun_DistributorAliases(t *testing.T) {
	cfgPath := isolateEnv(t, "")

	var want bytes.Buffer
	if err := run([]string{"--config", cfgPath, "-d", "CEMIG", "--reference-tariffs", "--table=false"}, &want); err != nil {
		t.Fatal(err)
	}
	for _, alias := range []string{"cemig", "CEMIG-D", "CEMIG Distribuição"} {
		var got bytes.Buffer
		if err := run([]string{"--config", cfgPath, "-d", alias, "--reference-tariffs", "--table=false"}, &got); err != nil {
			t.Fatalf("%q: %v", alias, err)
		}
		if got.String() != want.String() {
			t.Errorf("%q: expected the CEMIG report\n%s\ngot\n%s", alias, want.String(), got.String())
		}
	}
}

func TestRun_ScenarioRequestsReferenceTariffs(t *testing.T) {
	cfgPath := isolateEnv(t, "")
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte("use_reference_tariffs: true\nsystem:\n  distributor: CEMIG\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var fromFile, fromFlag bytes.Buffer
	if err := run([]string{"--config", cfgPath, "-s", path, "--table=false"}, &fromFile); err != nil {
		t.Fatal(err)
	}
	if err := run([]string{"--config", cfgPath, "-d", "CEMIG", "--reference-tariffs", "--table=false"}, &fromFlag); err != nil {
		t.Fatal(err)
	}
	if fromFile.String() != fromFlag.String() {
		t.Errorf("Expected the scenario flag to apply CEMIG tariffs\n%s\nvs\n%s", fromFile.String(), fromFlag.String())
	}
}

func TestRun_ImportThenReferenceTariffs(t *testing.T) {
	cacheDir := t.TempDir()
	cfgPath := isolateEnv(t, cacheDir)

	table := filepath.Join(t.TempDir(), "aneel.html")
	html := `<table>
<tr><th>Distribuidora</th><th>TE</th><th>TUSD</th><th>TUSDg</th><th>TUSDc</th></tr>
<tr><td>COPEL</td><td>500,00</td><td>300,00</td><td>10,00</td><td>15,00</td></tr>
</table>`
	if err := os.WriteFile(table, []byte(html), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run([]string{"--config", cfgPath, "--import-aneel", table}, &out); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 1 tariff rows") {
		t.Errorf("Unexpected output %q", out.String())
	}

	var plain, withRef bytes.Buffer
	if err := run([]string{"--config", cfgPath, "-d", "COPEL", "--table=false"}, &plain); err != nil {
		t.Fatal(err)
	}
	if err := run([]string{"--config", cfgPath, "-d", "COPEL", "--reference-tariffs", "--table=false"}, &withRef); err != nil {
		t.Fatal(err)
	}
	if plain.String() == withRef.String() {
		t.Error("Expected stored COPEL tariffs to change the results")
	}
}

func TestRun_WorkbookAndYears(t *testing.T) {
	cfgPath := isolateEnv(t, "")
	xlsx := filepath.Join(t.TempDir(), "out.xlsx")

	var out bytes.Buffer
	if err := run([]string{"--config", cfgPath, "-d", "LIGHT", "-y", "10", "--xlsx", xlsx}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(xlsx); err != nil {
		t.Errorf("Expected workbook, got %v", err)
	}
	// Yearly table stops at year 10
	if !strings.Contains(out.String(), "\n10 ") && !strings.Contains(out.String(), " 10 ") {
		t.Errorf("Expected year 10 row:\n%s", out.String())
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	if err := run([]string{"--bogus"}, &bytes.Buffer{}); err == nil {
		t.Error("Expected flag error")
	}
}
