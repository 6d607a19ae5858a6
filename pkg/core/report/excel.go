package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetCashFlow = "Fluxo de Caixa"
	SheetSummary  = "Resumo"
)

var cashFlowHeader = []interface{}{
	"Ano",
	"Geração (MWh)",
	"Receita (R$)",
	"Custo O&M (R$)",
	"Seguro (R$)",
	"Administrativo (R$)",
	"Aluguel (R$)",
	"Inversores (R$)",
	"ICMS (R$)",
	"PIS/COFINS (R$)",
	"Depreciação (R$)",
	"Benefício Fiscal (R$)",
	"Fluxo de Caixa Livre (R$)",
	"Fluxo Descontado (R$)",
	"Fluxo Acumulado (R$)",
}

// WorkbookFileName is the suggested download name for an analysis
func WorkbookFileName(projectName string) string {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "Projeto GD"
	}
	name = strings.NewReplacer("/", "-", "\\", "-", "\"", "'").Replace(name)
	return name + "_Análise_Financeira.xlsx"
}

// cell rounds finite values to cents and replaces the rest with N/A
func cell(v float64) interface{} {
	if !isFinite(v) {
		return NotAvailable
	}
	return round2(v).InexactFloat64()
}

// BuildWorkbook creates the two-sheet workbook. The caller closes it.
func (a Analysis) BuildWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()

	// 1. Cash flow sheet (rename the default sheet)
	if err := f.SetSheetName(f.GetSheetName(0), SheetCashFlow); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetCashFlow, "A1", &cashFlowHeader); err != nil {
		f.Close()
		return nil, err
	}

	for i, y := range a.Results.YearlyResults {
		row := []interface{}{
			y.Year,
			cell(y.Generation),
			cell(y.Revenue),
			cell(y.OMCost),
			cell(y.InsuranceCost),
			cell(y.AdmCost),
			cell(y.RentCost),
			cell(y.InverterCost),
			cell(y.ICMSTax),
			cell(y.PISCofinsTax),
			cell(y.Depreciation),
			cell(y.TaxBenefit),
			cell(y.FreeCashFlow),
			cell(y.DiscountedCashFlow),
			cell(y.AccumulatedCashFlow),
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetCashFlow, addr, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write year %d: %w", y.Year, err)
		}
	}

	if n := len(a.Results.YearlyResults); n > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
		if err != nil {
			f.Close()
			return nil, err
		}
		last, err := excelize.CoordinatesToCellName(len(cashFlowHeader), n+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(SheetCashFlow, "B2", last, style); err != nil {
			f.Close()
			return nil, err
		}
	}

	// 2. Summary sheet
	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}

	res := a.Results
	var payback interface{} = res.PaybackYear
	if !res.PaybackAchieved {
		payback = PaybackText(res)
	}
	summary := [][]interface{}{
		{"Indicador", "Valor"},
		{"Investimento Inicial (R$)", cell(res.InitialInvestment)},
		{"VPL - Valor Presente Líquido (R$)", cell(res.NPV)},
		{"TIR - Taxa Interna de Retorno (%)", cell(res.IRR)},
		{"Payback (anos)", payback},
		{"ROI (%)", cell(res.ROI)},
	}
	for i := range summary {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetSummary, addr, &summary[i]); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteWorkbook streams the xlsx bytes to w
func (a Analysis) WriteWorkbook(w io.Writer) error {
	f, err := a.BuildWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
