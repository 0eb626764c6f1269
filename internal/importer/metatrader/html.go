package metatrader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	enc "github.com/tradebookhq/tradebook/internal/encoding"
	"github.com/tradebookhq/tradebook/internal/importer/normalize"
)

// htmlHeaders is the canonical header row produced by the HTML path. The
// HTML report has no reliable header cells, so columns come from the fixed
// layouts below and are keyed with the same names the XLSX path produces.
var htmlHeaders = []string{
	"Time", "Symbol", "Type", "Volume", "Price", "S/L", "T/P",
	"ExitTime", "ExitPrice", "Commission", "Swap", "Profit",
}

// rowLayout maps canonical fields to cell indexes for one report variant.
type rowLayout struct {
	time, symbol, typ, volume, price, sl, tp      int
	exitTime, exitPrice, commission, swap, profit int
}

// rowLayouts covers the three known cell counts. Newer terminal builds add
// fee and markup columns between commission and profit, shifting the tail.
var rowLayouts = map[int]rowLayout{
	13: {0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	14: {0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 13},
	15: {0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 14},
}

// dataRowPrefix recognizes position rows: the first cell is an open time in
// MetaTrader's YYYY.MM.DD form. Header and spacer rows never match.
var dataRowPrefix = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}`)

var totalNetProfitHTML = regexp.MustCompile(`(?is)total net profit:.*?<b[^>]*>([^<]+)</b>`)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseHTML parses a MetaTrader history report saved as an HTML page.
func ParseHTML(data []byte) (*Report, error) {
	content, err := enc.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler o HTML: %w", err)
	}

	report := &Report{Headers: htmlHeaders}

	capturing := false
	sawSection := false

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		marker := strings.ToLower(strings.TrimSpace(tr.Find("b").Text()))
		if sectionPositions[marker] {
			capturing = true
			sawSection = true

			return
		}

		if sectionEnders[marker] {
			capturing = false
			return
		}

		if !capturing {
			return
		}

		cells := tr.Find("td, th").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})

		if row, ok := htmlDataRow(cells); ok {
			report.Rows = append(report.Rows, row)
		}
	})

	if !sawSection {
		return nil, fmt.Errorf("seção 'Positions' não encontrada no relatório. Verifique se o arquivo é um relatório de histórico do MetaTrader")
	}

	report.TotalNetProfit = htmlTotalNetProfit(content)

	return report, nil
}

// htmlDataRow maps a captured table row to a canonical position row.
// Rows that don't start with a date or whose type isn't buy/sell are
// header, spacer or summary rows and are skipped.
func htmlDataRow(cells []string) (normalize.Row, bool) {
	if len(cells) == 0 || !dataRowPrefix.MatchString(cells[0]) {
		return nil, false
	}

	layout, ok := rowLayouts[len(cells)]
	if !ok {
		return nil, false
	}

	typ := strings.ToLower(cells[layout.typ])
	if typ != "buy" && typ != "sell" {
		return nil, false
	}

	return normalize.Row{
		"Time":       normalize.TextCell(cells[layout.time]),
		"Symbol":     normalize.TextCell(cells[layout.symbol]),
		"Type":       normalize.TextCell(cells[layout.typ]),
		"Volume":     normalize.TextCell(cells[layout.volume]),
		"Price":      normalize.TextCell(cells[layout.price]),
		"S/L":        normalize.TextCell(cells[layout.sl]),
		"T/P":        normalize.TextCell(cells[layout.tp]),
		"ExitTime":   normalize.TextCell(cells[layout.exitTime]),
		"ExitPrice":  normalize.TextCell(cells[layout.exitPrice]),
		"Commission": normalize.TextCell(cells[layout.commission]),
		"Swap":       normalize.TextCell(cells[layout.swap]),
		"Profit":     normalize.TextCell(cells[layout.profit]),
	}, true
}

// htmlTotalNetProfit pulls the bolded figure after the "Total Net Profit:"
// label, tolerating markup between the label and the value.
func htmlTotalNetProfit(content string) float64 {
	m := totalNetProfitHTML.FindStringSubmatch(content)
	if m == nil {
		return 0
	}

	cleaned := nonNumeric.ReplaceAllString(m[1], "")
	if cleaned == "" {
		return 0
	}

	v, ok := parseReportNumber(cleaned)
	if !ok {
		return 0
	}

	return v
}
