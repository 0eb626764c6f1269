package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseMoney parses a money or price value in either the American
// ("1,000.00") or European ("1.000,00") convention. A leading "$" is
// stripped and a parenthesized value denotes a negative amount.
//
// When both separators appear, the rightmost one is taken as the decimal
// separator; a lone comma is treated as the decimal point. This is a
// best-effort heuristic: "1.234" alone is ambiguous and parses as American.
// Unparseable input resolves to zero so one bad cell never sinks an import.
func ParseMoney(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	negative := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.TrimPrefix(strings.TrimSpace(s), "$")

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// European: dots group thousands, comma is the decimal point.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// American: commas group thousands.
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// A lone comma is a decimal point ("4150,25").
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	if negative {
		return d.Neg()
	}

	return d
}

// MoneyCell parses a raw cell into a decimal, passing native numbers
// through unchanged.
func MoneyCell(c Cell) decimal.Decimal {
	if c.IsNum {
		return decimal.NewFromFloat(c.Number)
	}

	return ParseMoney(c.Text)
}

// dateLayouts covers the timestamp formats seen across MetaTrader and
// NinjaTrader exports, tried strictest first. Day-first beats month-first
// because the ambiguous exports come from pt-BR terminals.
var dateLayouts = []string{
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"02/01/2006 15:04:05",
	"01/02/2006 3:04:05 PM",
	"01/02/2006 3:04 PM",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
}

// ParseDate parses a statement timestamp in the given source timezone.
// Returns ok=false when no known layout matches.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
