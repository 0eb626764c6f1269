// Package tradovate parses Tradovate performance exports (CSV and PDF)
// into raw trade rows and resolves them into normalized trade records.
package tradovate

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradebookhq/tradebook/internal/importer/normalize"
	"github.com/tradebookhq/tradebook/internal/trade"
)

// RawTrade is one Tradovate statement row before direction and date
// resolution. PnL is kept as the raw cell text so the money parser owns
// the "$(115.00)" convention in one place.
type RawTrade struct {
	Symbol          string
	Qty             float64
	BuyPrice        float64
	SellPrice       float64
	PnL             string
	BoughtTimestamp string
	SoldTimestamp   string
	Duration        string
	BuyFillID       string
	SellFillID      string
}

// Result is the raw extraction output shared by the CSV and PDF paths.
type Result struct {
	Data     []RawTrade
	TotalPnL float64
}

// dateLayouts for Tradovate timestamps, primary format first, then
// single-digit-hour and 12-hour AM/PM variants, then generic fallbacks.
var dateLayouts = []string{
	"01/02/2006 15:04:05",
	"01/02/2006 3:04:05",
	"01/02/2006 3:04:05 PM",
	"01/02/2006 3:04 PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses a Tradovate timestamp. Returns ok=false instead of an
// error: a blank or malformed timestamp is a row-level problem, not an
// import-level one.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseMoney parses Tradovate money cells: "$255.00", "255.00", and the
// parenthesized-negative "$(115.00)". Unparseable input resolves to zero.
func ParseMoney(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	negative := false

	s = strings.TrimPrefix(s, "$")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	if negative {
		return d.Neg()
	}

	return d
}

// ParsePrice parses a plain decimal price; unparseable input resolves to zero.
func ParsePrice(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}

	return d.InexactFloat64()
}

// DetermineDirection infers the trade side from the fill order: bought
// before sold is a long, sold before bought is a short. When either
// timestamp is unparseable the direction defaults to Long.
func DetermineDirection(boughtTimestamp, soldTimestamp string) trade.Direction {
	bought, okB := ParseDate(boughtTimestamp)
	sold, okS := ParseDate(soldTimestamp)

	if !okB || !okS {
		return trade.DirectionLong
	}

	if sold.Before(bought) {
		return trade.DirectionShort
	}

	return trade.DirectionLong
}

// futuresContract matches a futures ticker with a contract suffix: a base of
// two or more letters, a month code, and a 1–2 digit year ("NQZ5", "ESH26").
// Requiring the trailing digits keeps base symbols ending in a month-code
// letter, like the Q in "MNQ", from being stripped.
var futuresContract = regexp.MustCompile(`^([A-Za-z]{2,})([FGHJKMNQUVXZ])(\d{1,2})$`)

// CleanSymbol strips the contract month/year suffix from a futures symbol.
// Symbols without a contract suffix pass through unchanged, so cleaning a
// cleaned symbol is a no-op.
func CleanSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)

	m := futuresContract.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	return m[1]
}

// ToTradeParams resolves raw Tradovate rows into normalized trade records:
// direction from fill order, entry/exit from the buy/sell side matching that
// direction, timezone conversion per the import options.
func ToTradeParams(raws []RawTrade, opts normalize.TransformOptions) []trade.CreateParams {
	params := make([]trade.CreateParams, 0, len(raws))

	for _, raw := range raws {
		direction := DetermineDirection(raw.BoughtTimestamp, raw.SoldTimestamp)

		entryStamp, exitStamp := raw.BoughtTimestamp, raw.SoldTimestamp
		entryPrice, exitPrice := raw.BuyPrice, raw.SellPrice

		if direction == trade.DirectionShort {
			entryStamp, exitStamp = raw.SoldTimestamp, raw.BoughtTimestamp
			entryPrice, exitPrice = raw.SellPrice, raw.BuyPrice
		}

		entryTime := localize(entryStamp, opts)

		var exitTime *time.Time
		if t := localize(exitStamp, opts); !t.IsZero() {
			exitTime = &t
		}

		params = append(params, trade.CreateParams{
			AccountID:  opts.AccountID,
			Platform:   trade.PlatformTradovate,
			Symbol:     CleanSymbol(raw.Symbol),
			Direction:  direction,
			Volume:     raw.Qty,
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
			EntryTime:  entryTime,
			ExitTime:   exitTime,
			PnL:        ParseMoney(raw.PnL).InexactFloat64(),
		})
	}

	return params
}

func localize(stamp string, opts normalize.TransformOptions) time.Time {
	t, ok := ParseDate(stamp)
	if !ok {
		return time.Time{}
	}

	if opts.SourceLocation != nil {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, opts.SourceLocation)
	}

	if opts.TargetLocation != nil {
		return t.In(opts.TargetLocation)
	}

	return t
}
