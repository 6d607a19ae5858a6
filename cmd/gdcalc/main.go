package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gd_valuation/pkg/core/config"
	"gd_valuation/pkg/core/report"
	"gd_valuation/pkg/core/scenario"
	"gd_valuation/pkg/core/store"
	"gd_valuation/pkg/core/tariff"
	"gd_valuation/pkg/core/validate"

	"github.com/spf13/pflag"
)

type options struct {
	scenarioPath string
	distributor  string
	useReference bool
	years        int
	xlsxPath     string
	htmlPath     string
	mdPath       string
	configPath   string
	importANEEL  string
	showYears    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("gdcalc", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&opts.scenarioPath, "scenario", "s", "", "Scenario file (.yaml, .hjson or .json); defaults to the reference scenario, which names no distributor")
	fs.StringVarP(&opts.distributor, "distributor", "d", "", "Distributor ID, ANEEL code or name (required unless the scenario sets one)")
	fs.BoolVar(&opts.useReference, "reference-tariffs", false, "Pre-populate tariffs from the distributor's reference data")
	fs.IntVarP(&opts.years, "years", "y", 0, "Project duration in years (overrides the scenario)")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "Write the Excel workbook to this path")
	fs.StringVar(&opts.htmlPath, "html", "", "Write the HTML report to this path")
	fs.StringVar(&opts.mdPath, "md", "", "Write the Markdown report to this path")
	fs.StringVar(&opts.configPath, "config", "", "Settings file (default config/app.yaml)")
	fs.StringVar(&opts.importANEEL, "import-aneel", "", "Import a saved ANEEL tariff table into the tariff store and exit")
	fs.BoolVar(&opts.showYears, "table", true, "Print the yearly cash flow table")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "gdcalc - Distributed generation financial projection")
		fmt.Fprintln(stderr, "\nUsage: gdcalc -d <distributor> [options]")
		fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	// 1. ANEEL import mode
	if opts.importANEEL != "" {
		return importANEEL(ctx, cfg, opts.importANEEL, stdout)
	}

	src := store.NewTariffSource(ctx, store.SourceOptions{
		DatabaseURL: cfg.Database.URL,
		CacheDir:    cfg.Tariffs.CacheDir,
		ANEELTable:  cfg.Tariffs.ANEELTable,
	})
	defer store.Close()

	// 2. Scenario
	s := scenario.Default()
	if opts.scenarioPath != "" {
		if s, err = scenario.LoadFile(opts.scenarioPath); err != nil {
			return err
		}
	}
	if opts.distributor != "" {
		s.System.Distributor = opts.distributor
	}
	if opts.years > 0 {
		s.Financial.ProjectDuration = opts.years
	}

	// 3. Validate
	rep, err := validate.ValidateWithSource(ctx, s, src)
	if err != nil {
		return err
	}
	if err := rep.Err(); err != nil {
		if s.System.Distributor == "" {
			return fmt.Errorf("%w (choose one with -d/--distributor)", err)
		}
		return err
	}

	if d, ok, err := tariff.Resolve(ctx, src, s.System.Distributor); err == nil && ok {
		s.System.Distributor = d.ID
	}

	useReference := cfg.Tariffs.UseReference
	if s.UseReferenceTariffs != nil {
		useReference = *s.UseReferenceTariffs
	}
	if opts.useReference || useReference {
		comps, err := src.Tariffs(ctx, s.System.Distributor)
		if err != nil {
			return fmt.Errorf("failed to fetch distributor tariffs: %w", err)
		}
		s.Tariffs = tariff.Apply(s.Tariffs, comps)
	}

	// 4. Calculate and report
	analysis := report.NewAnalysis(s.ProjectName, s.Calculate(), rep.Warnings)
	printSummary(stdout, analysis, opts.showYears)

	return writeExports(analysis, opts, stdout)
}

func printSummary(w io.Writer, a report.Analysis, showYears bool) {
	fmt.Fprintf(w, "%s\n\n", a.ProjectName)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range a.Summary() {
		fmt.Fprintf(tw, "%s\t%s\n", row.Label, row.Text)
	}
	fmt.Fprintf(tw, "Viabilidade\t%s (%d/100)\n", a.Viability.Label, a.Viability.Score)
	tw.Flush()

	for _, warning := range a.Warnings {
		fmt.Fprintf(w, "[WARNING] %s\n", warning)
	}

	if !showYears {
		return
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Ano\tGeração (MWh)\tReceita\tCustos\tFluxo Livre\tAcumulado\t")
	for _, y := range a.Results.YearlyResults {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			y.Year,
			report.FormatNumber(y.Generation, 2),
			report.FormatCurrency(y.Revenue),
			report.FormatCurrency(y.TotalCosts()),
			report.FormatCurrency(y.FreeCashFlow),
			report.FormatCurrency(y.AccumulatedCashFlow),
		)
	}
	tw.Flush()
}

func writeExports(a report.Analysis, opts options, stdout io.Writer) error {
	if opts.xlsxPath != "" {
		f, err := os.Create(opts.xlsxPath)
		if err != nil {
			return fmt.Errorf("failed to create workbook: %w", err)
		}
		if err := a.WriteWorkbook(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Workbook written to %s\n", opts.xlsxPath)
	}

	if opts.htmlPath != "" {
		page, err := a.HTML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.htmlPath, page, 0644); err != nil {
			return fmt.Errorf("failed to write html: %w", err)
		}
		fmt.Fprintf(stdout, "HTML report written to %s\n", opts.htmlPath)
	}

	if opts.mdPath != "" {
		if err := os.WriteFile(opts.mdPath, []byte(a.Markdown()), 0644); err != nil {
			return fmt.Errorf("failed to write markdown: %w", err)
		}
		fmt.Fprintf(stdout, "Markdown report written to %s\n", opts.mdPath)
	}
	return nil
}

func importANEEL(ctx context.Context, cfg config.Config, path string, stdout io.Writer) error {
	rows, err := tariff.LoadANEELFile(path)
	if err != nil {
		return err
	}

	if cfg.Database.URL != "" {
		if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
			return err
		}
		defer store.Close()
	}
	if store.GetPool() == nil && cfg.Tariffs.CacheDir == "" {
		return fmt.Errorf("no tariff store configured (set DATABASE_URL or GD_TARIFF_CACHE_DIR)")
	}

	repo := store.NewTariffRepo(store.GetPool(), cfg.Tariffs.CacheDir)
	n, err := repo.SaveAll(ctx, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Imported %d tariff rows from %s\n", n, path)
	return nil
}
