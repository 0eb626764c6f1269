// Package ninjatrader parses NinjaTrader trade performance exports. The
// grid is CSV with a locale-dependent delimiter, and the Portuguese builds
// localize both headers and number formats.
package ninjatrader

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	enc "github.com/tradebookhq/tradebook/internal/encoding"
	"github.com/tradebookhq/tradebook/internal/importer/normalize"
)

// Report is the raw extraction output of the NinjaTrader path.
type Report struct {
	Headers []string
	Rows    []normalize.Row
}

// tradeNumberHeaders identifies the column whose numeric value marks a real
// trade row. Section headers, blank lines and summary footers all fail this
// one check, so it doubles as the row-validity filter.
var tradeNumberHeaders = []string{"núm. neg.", "trade number", "trade-nr.", "trade #"}

// ParseCSV parses a NinjaTrader trades export (semicolon or comma
// delimited, auto-detected).
func ParseCSV(data []byte) (*Report, error) {
	content, err := enc.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(grid) == 0 {
		return nil, fmt.Errorf("o arquivo está vazio")
	}

	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
	}

	tradeNumIdx := -1

	for i, h := range headers {
		if isTradeNumberHeader(h) {
			tradeNumIdx = i
			break
		}
	}

	if tradeNumIdx < 0 {
		return nil, fmt.Errorf("coluna 'Núm. Neg.' não encontrada. Verifique se o arquivo é uma exportação de negociações do NinjaTrader")
	}

	report := &Report{Headers: headers}

	for _, row := range grid[1:] {
		if tradeNumIdx >= len(row) || !isNumeric(row[tradeNumIdx]) {
			continue
		}

		r := make(normalize.Row, len(headers))

		for i, h := range headers {
			if i < len(row) {
				r[h] = normalize.TextCell(row[i])
			}
		}

		report.Rows = append(report.Rows, r)
	}

	return report, nil
}

func isTradeNumberHeader(h string) bool {
	lowered := strings.ToLower(h)
	for _, known := range tradeNumberHeaders {
		if lowered == known {
			return true
		}
	}

	return false
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

// detectDelimiter picks the separator from the first line that carries one.
// NinjaTrader uses the system list separator, so pt-BR machines export
// semicolons and en-US machines commas.
func detectDelimiter(content string) rune {
	for _, line := range strings.Split(content, "\n") {
		semis := strings.Count(line, ";")
		commas := strings.Count(line, ",")

		if semis == 0 && commas == 0 {
			continue
		}

		if semis >= commas {
			return ';'
		}

		return ','
	}

	return ','
}
