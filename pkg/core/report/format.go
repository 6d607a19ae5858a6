// Package report turns calculation results into the presentation forms used
// by the API and CLI: pt-BR formatted figures, a viability score, chart
// series, a Markdown/HTML summary and an Excel workbook.
package report

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown for values that are not finite numbers
const NotAvailable = "N/A"

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round2 rounds half away from zero to cents
func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FormatNumber renders v with pt-BR separators ("1.234,56")
func FormatNumber(v float64, places int32) string {
	if !isFinite(v) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(v).Round(places)
	neg := d.IsNegative()

	fixed := d.Abs().StringFixed(places)
	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	b.Grow(len(fixed) + len(intPart)/3 + 1)
	if neg {
		b.WriteByte('-')
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatCurrency renders a BRL amount as "R$ 1.234,56" ("-R$ 1.234,56" when negative)
func FormatCurrency(v float64) string {
	s := FormatNumber(v, 2)
	if s == NotAvailable {
		return s
	}
	if strings.HasPrefix(s, "-") {
		return "-R$ " + s[1:]
	}
	return "R$ " + s
}

// FormatPercent renders a percentage with two decimals ("21.46%")
func FormatPercent(v float64) string {
	if !isFinite(v) {
		return NotAvailable
	}
	return round2(v).StringFixed(2) + "%"
}

// FormatEnergy renders MWh with two decimals
func FormatEnergy(v float64) string {
	s := FormatNumber(v, 2)
	if s == NotAvailable {
		return s
	}
	return s + " MWh"
}

// Number is a chart value that encodes non-finite floats as null
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if !isFinite(v) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
