// Package metatrader parses MetaTrader 4/5 account history reports in the
// three shapes the terminal exports: XLSX, CSV and HTML.
package metatrader

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradebookhq/tradebook/internal/importer/normalize"
)

// Report is the raw extraction output of any MetaTrader path: the header
// row after translation/disambiguation, the position rows keyed by those
// headers, and the report's total net profit when present.
type Report struct {
	Headers        []string
	Rows           []normalize.Row
	TotalNetProfit float64
}

// sectionPositions/sectionEnders mark where the positions table starts and
// stops inside the report. MetaTrader localizes the section titles.
var (
	sectionPositions = map[string]bool{"positions": true, "posições": true}
	sectionEnders    = map[string]bool{"orders": true, "ordens": true, "deals": true, "ofertas": true}
)

// headerTranslations maps the Portuguese terminal headers to the English
// vocabulary the column mapper recognizes.
var headerTranslations = map[string]string{
	"Ativo":    "Symbol",
	"Tipo":     "Type",
	"Volume":   "Volume",
	"Comissão": "Commission",
	"Lucro":    "Profit",
	"S / L":    "S/L",
	"T / P":    "T/P",
}

// parseRows extracts the positions table from a full grid of report rows.
func parseRows(rows [][]string) (*Report, error) {
	sectionIdx := -1

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		if sectionPositions[strings.ToLower(strings.TrimSpace(row[0]))] {
			sectionIdx = i
			break
		}
	}

	if sectionIdx < 0 {
		return nil, fmt.Errorf("seção 'Positions' não encontrada no relatório. Verifique se o arquivo é um relatório de histórico do MetaTrader")
	}

	if sectionIdx+1 >= len(rows) {
		return nil, fmt.Errorf("cabeçalho da seção 'Positions' não encontrado no relatório")
	}

	headers := normalizeHeaders(rows[sectionIdx+1])

	report := &Report{Headers: headers}

	for _, row := range rows[sectionIdx+2:] {
		if isBlankRow(row) || len(row) < 3 {
			break
		}

		if sectionEnders[strings.ToLower(strings.TrimSpace(row[0]))] {
			break
		}

		r := make(normalize.Row, len(headers))

		for i, h := range headers {
			if i < len(row) {
				r[h] = normalize.TextCell(row[i])
			}
		}

		report.Rows = append(report.Rows, r)
	}

	report.TotalNetProfit = findTotalNetProfit(rows)

	return report, nil
}

// normalizeHeaders translates recognized Portuguese headers and untangles
// MetaTrader's duplicate column names. The terminal reuses the literal
// header "Time" for both the entry (index 0) and exit (index 8) columns,
// and "Price" at indices 5 and 9, so duplicates are resolved by fixed
// position rather than by name; any other repeat gets a sequence suffix.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(h)
		if translated, ok := headerTranslations[name]; ok {
			name = translated
		}

		n := seen[name]
		seen[name] = n + 1

		if n == 0 {
			headers[i] = name
			continue
		}

		switch {
		case name == "Time" && i == 8:
			headers[i] = "ExitTime"
		case name == "Price" && i == 9:
			headers[i] = "ExitPrice"
		default:
			headers[i] = fmt.Sprintf("%s %d", name, n+1)
		}
	}

	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// findTotalNetProfit scans the report in reverse for the summary line and
// returns the first numeric cell next to the label.
func findTotalNetProfit(rows [][]string) float64 {
	for i := len(rows) - 1; i >= 0; i-- {
		for _, cell := range rows[i] {
			if !strings.Contains(strings.ToLower(cell), "total net profit") {
				continue
			}

			for _, candidate := range rows[i] {
				if strings.Contains(strings.ToLower(candidate), "total net profit") {
					continue
				}

				if v, ok := parseReportNumber(candidate); ok {
					return v
				}
			}

			return 0
		}
	}

	return 0
}

// parseReportNumber parses a summary cell that may carry grouping spaces
// ("1 234.56") on top of the usual separator conventions.
func parseReportNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}

	d := normalize.ParseMoney(s)
	if d.Equal(decimal.Zero) && !isZeroLiteral(s) {
		return 0, false
	}

	return d.InexactFloat64(), true
}

func isZeroLiteral(s string) bool {
	cleaned := strings.Trim(strings.ReplaceAll(s, " ", ""), "0.,-")
	return cleaned == ""
}
