package normalize

import (
	"regexp"
	"strings"

	"github.com/tradebookhq/tradebook/internal/trade"
)

// contractSuffix matches NinjaTrader contract-date suffixes appended to
// futures symbols: "ES 12-25" or "MES SEP25".
var contractSuffix = regexp.MustCompile(`\s+(\d{2}-\d{2}|[A-Za-z]{3}\d{2})$`)

// CleanSymbol strips platform decorations from an instrument ticker.
// MetaTrader appends feed suffixes after a dot ("EURUSD.cash"); NinjaTrader
// appends the contract expiry ("ES 12-25"). Cleaning is idempotent.
func CleanSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)

	if dot := strings.Index(s, "."); dot >= 0 {
		s = s[:dot]
	}

	s = contractSuffix.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}

// NormalizeTradeType resolves the direction vocabulary of each platform:
// MetaTrader's buy/sell, NinjaTrader's Portuguese Comprada/Venda, and the
// literal long/short. Unrecognized tokens return ok=false so the caller
// decides the default instead of this layer guessing.
func NormalizeTradeType(raw string) (trade.Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy", "comprada", "long":
		return trade.DirectionLong, true
	case "sell", "venda", "short":
		return trade.DirectionShort, true
	}

	return "", false
}
