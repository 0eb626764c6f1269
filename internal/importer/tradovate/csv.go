package tradovate

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/tradebookhq/tradebook/internal/encoding"
)

// requiredColumns must all be present (case-insensitive) in the header row.
var requiredColumns = []string{"symbol", "pnl", "boughttimestamp", "soldtimestamp"}

// ParseCSV decodes and parses a Tradovate performance CSV export.
func ParseCSV(data []byte) (*Result, error) {
	content, err := enc.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	return ParseContent(content)
}

// ParseContent parses decoded Tradovate CSV text. The header row must carry
// symbol, pnl, boughtTimestamp and soldTimestamp; rows without a symbol and
// both timestamps are treated as blank/footer rows and dropped.
func ParseContent(content string) (*Result, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("o arquivo está vazio")
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("o arquivo está vazio")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("colunas obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[idx])
	}

	result := &Result{}
	total := decimal.Zero

	for _, row := range rows[1:] {
		raw := RawTrade{
			Symbol:          cell(row, "symbol"),
			Qty:             ParsePrice(cell(row, "qty")),
			BuyPrice:        ParsePrice(cell(row, "buyprice")),
			SellPrice:       ParsePrice(cell(row, "sellprice")),
			PnL:             cell(row, "pnl"),
			BoughtTimestamp: cell(row, "boughttimestamp"),
			SoldTimestamp:   cell(row, "soldtimestamp"),
			Duration:        cell(row, "duration"),
			BuyFillID:       cell(row, "buyfillid"),
			SellFillID:      cell(row, "sellfillid"),
		}

		// Blank and footer rows carry neither symbol nor timestamps.
		if raw.Symbol == "" && raw.BoughtTimestamp == "" && raw.SoldTimestamp == "" {
			continue
		}

		total = total.Add(ParseMoney(raw.PnL))
		result.Data = append(result.Data, raw)
	}

	result.TotalPnL = total.InexactFloat64()

	return result, nil
}
