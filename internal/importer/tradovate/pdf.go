package tradovate

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
)

// PDF text extraction loses line structure, so trade tuples are recovered by
// pattern matching over the concatenated page text. The primary pattern is
// strict about the symbol and number shapes; the fallback tolerates
// comma-grouped numbers, looser symbols and parenthesized P&L, because the
// multi-line "duration" column gets interleaved unpredictably between the
// buy and sell halves of a row.
var (
	pdfPrimary = regexp.MustCompile(
		`(?s)([A-Z]{2,6}[FGHJKMNQUVXZ]\d{1,2})\s+(\d+)\s+(\d+(?:\.\d+)?)\s+` +
			`(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}:\d{2}:\d{2})` +
			`.*?` +
			`(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}:\d{2}:\d{2})\s+` +
			`(\d+(?:\.\d+)?)\s+(-?\$?-?\d+(?:\.\d+)?)`,
	)

	pdfFallback = regexp.MustCompile(
		`(?s)([A-Z0-9]{2,10})\s+(\d+)\s+([\d,]+(?:\.\d+)?)\s+` +
			`(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}:\d{2}:\d{2})` +
			`.*?` +
			`(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}:\d{2}:\d{2})\s+` +
			`([\d,]+(?:\.\d+)?)\s+(\$?\(?-?\$?[\d,]+(?:\.\d+)?\)?)`,
	)
)

// ParsePDF parses a Tradovate performance report PDF.
func ParsePDF(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("o arquivo está vazio")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler o PDF: %w", err)
	}

	var sb strings.Builder

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("não foi possível extrair o texto da página %d: %w", i, err)
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	raws, err := ExtractTradeRows(sb.String())
	if err != nil {
		return nil, err
	}

	result := &Result{Data: raws}
	total := decimal.Zero

	for _, raw := range raws {
		total = total.Add(ParseMoney(raw.PnL))
	}

	result.TotalPnL = total.InexactFloat64()

	return result, nil
}

// ExtractTradeRows recovers trade tuples from unstructured PDF text. The
// matching strategy is intentionally isolated here so it can be replaced by
// a proper tokenizer without touching ParsePDF.
func ExtractTradeRows(text string) ([]RawTrade, error) {
	// The performance report repeats summary figures before the trade table;
	// anchoring at the TRADES heading avoids matching them.
	if idx := strings.Index(text, "TRADES"); idx >= 0 {
		text = text[idx:]
	}

	matches := pdfPrimary.FindAllStringSubmatch(text, -1)
	pass := "primary"

	if len(matches) == 0 {
		matches = pdfFallback.FindAllStringSubmatch(text, -1)
		pass = "fallback"
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("nenhum trade encontrado no PDF. Verifique se o arquivo é um relatório de performance do Tradovate")
	}

	slog.Debug("extracted trades from pdf", "pass", pass, "rows", len(matches))

	raws := make([]RawTrade, 0, len(matches))

	for _, m := range matches {
		raws = append(raws, RawTrade{
			Symbol:          m[1],
			Qty:             ParsePrice(m[2]),
			BuyPrice:        ParsePrice(m[3]),
			BoughtTimestamp: m[4] + " " + m[5],
			SoldTimestamp:   m[6] + " " + m[7],
			SellPrice:       ParsePrice(m[8]),
			PnL:             m[9],
		})
	}

	return raws, nil
}
