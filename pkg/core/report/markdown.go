package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"gd_valuation/pkg/core/projection"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Analysis bundles one projection with everything derived for presentation
type Analysis struct {
	ProjectName string
	Results     projection.CalculationResults
	Viability   Viability
	Charts      Charts
	Warnings    []string
}

// NewAnalysis scores and charts a result set
func NewAnalysis(projectName string, res projection.CalculationResults, warnings []string) Analysis {
	if strings.TrimSpace(projectName) == "" {
		projectName = "Projeto GD"
	}
	return Analysis{
		ProjectName: projectName,
		Results:     res,
		Viability:   ScoreViability(res),
		Charts:      BuildCharts(res.YearlyResults),
		Warnings:    warnings,
	}
}

// SummaryRow is one indicator of the summary table
type SummaryRow struct {
	Label string
	Text  string
}

// Summary returns the headline indicators in display order
func (a Analysis) Summary() []SummaryRow {
	res := a.Results
	irr := FormatPercent(res.IRR)
	if !res.IRRConverged && irr != NotAvailable {
		irr += " (não convergiu)"
	}
	return []SummaryRow{
		{"Investimento Inicial", FormatCurrency(res.InitialInvestment)},
		{"VPL - Valor Presente Líquido", FormatCurrency(res.NPV)},
		{"TIR - Taxa Interna de Retorno", irr},
		{"Payback", PaybackText(res)},
		{"ROI", FormatPercent(res.ROI)},
	}
}

// Markdown renders the analysis as a Markdown document
func (a Analysis) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.ProjectName)
	b.WriteString("## Resultados da Análise\n\n")
	b.WriteString("| Indicador | Valor |\n| --- | --- |\n")
	for _, row := range a.Summary() {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(row.Label), escapeCell(row.Text))
	}
	fmt.Fprintf(&b, "\n**Viabilidade:** %s (%d/100)\n", a.Viability.Label, a.Viability.Score)

	if len(a.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "> %s\n", w)
		}
	}

	b.WriteString("\n## Fluxo de Caixa Anual\n\n")
	b.WriteString("| Ano | Geração (MWh) | Receita | Custos | Fluxo de Caixa Livre | Fluxo Acumulado |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, y := range a.Results.YearlyResults {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			y.Year,
			FormatNumber(y.Generation, 2),
			FormatCurrency(y.Revenue),
			FormatCurrency(y.TotalCosts()),
			FormatCurrency(y.FreeCashFlow),
			FormatCurrency(y.AccumulatedCashFlow),
		)
	}

	return b.String()
}

// HTML renders the Markdown summary into a standalone page
func (a Analysis) HTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(a.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n</head>\n<body>\n", html.EscapeString(a.ProjectName))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
