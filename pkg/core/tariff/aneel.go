package tariff

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// =============================================================================
// ANEEL TABLE IMPORT - tariff rows from a saved ANEEL HTML table
// =============================================================================

type aneelColumn int

const (
	colUnknown aneelColumn = iota
	colDistributor
	colTE
	colTUSD
	colTUSDg
	colTUSDc
)

// ParseANEELTable reads the first HTML table whose header names a
// distributor column plus at least one tariff column. Rows are keyed by
// registry ID; a row naming an unknown distributor is skipped.
// Values use Brazilian number format ("1.234,56").
func ParseANEELTable(r io.Reader) (map[string]Components, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ANEEL html: %w", err)
	}

	var (
		result  map[string]Components
		columns []aneelColumn
	)

	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true
		}

		columns = classifyHeader(rows.First())
		if !hasColumn(columns, colDistributor) || len(columns) < 2 {
			return true
		}

		result = make(map[string]Components)
		skipped := 0
		rows.Slice(1, rows.Length()).Each(func(j int, row *goquery.Selection) {
			id, comp, ok := parseTariffRow(row, columns)
			if !ok {
				skipped++
				return
			}
			result[id] = comp
		})

		log.Printf("[TARIFF] ANEEL table #%d: imported=%d, skipped=%d", i, len(result), skipped)
		return false
	})

	if result == nil {
		return nil, fmt.Errorf("no ANEEL tariff table found")
	}
	return result, nil
}

// LoadANEELFile imports a saved ANEEL table from disk
func LoadANEELFile(path string) (map[string]Components, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ANEEL table: %w", err)
	}
	defer f.Close()
	return ParseANEELTable(f)
}

func classifyHeader(header *goquery.Selection) []aneelColumn {
	var cols []aneelColumn
	header.Find("td, th").Each(func(i int, cell *goquery.Selection) {
		cols = append(cols, classifyColumn(cell.Text()))
	})
	return cols
}

func classifyColumn(label string) aneelColumn {
	key := normalizeLabel(label)
	switch {
	case strings.Contains(key, "distribuidora") || strings.Contains(key, "sigla") || strings.Contains(key, "agente"):
		return colDistributor
	case strings.HasPrefix(key, "tusdg"):
		return colTUSDg
	case strings.HasPrefix(key, "tusdc"):
		return colTUSDc
	case strings.HasPrefix(key, "tusd"):
		return colTUSD
	case strings.HasPrefix(key, "te"):
		return colTE
	}
	return colUnknown
}

func hasColumn(cols []aneelColumn, want aneelColumn) bool {
	for _, c := range cols {
		if c == want {
			return true
		}
	}
	return false
}

func parseTariffRow(row *goquery.Selection, columns []aneelColumn) (string, Components, bool) {
	var (
		comp Components
		id   string
		ok   = true
	)

	row.Find("td, th").Each(func(i int, cell *goquery.Selection) {
		if i >= len(columns) {
			return
		}
		text := strings.TrimSpace(cell.Text())
		if columns[i] == colDistributor {
			d, found := resolveDistributor(builtinDistributors, text)
			if !found {
				log.Printf("[TARIFF] skipping unknown distributor %q", text)
				ok = false
				return
			}
			id = d.ID
			return
		}
		if columns[i] == colUnknown {
			return
		}

		v, err := ParseBRNumber(text)
		if err != nil {
			log.Printf("[TARIFF] bad value %q: %v", text, err)
			ok = false
			return
		}
		switch columns[i] {
		case colTE:
			comp.EnergyTariff = v
		case colTUSD:
			comp.DistributionTariff = v
		case colTUSDg:
			comp.GenerationDistributionTariff = v
		case colTUSDc:
			comp.ConsumptionDistributionTariff = v
		}
	})

	return id, comp, ok && id != ""
}

// ParseBRNumber parses "R$ 1.234,56" style numbers
func ParseBRNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strconv.ParseFloat(s, 64)
}

// normalizeLabel lowercases and keeps only letters and digits
func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
