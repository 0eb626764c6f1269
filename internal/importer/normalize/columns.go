package normalize

import "strings"

// ColumnMapping assigns each canonical trade field the raw header it was
// detected from. Roles absent from the source map to the empty string.
type ColumnMapping struct {
	EntryDate  string
	Symbol     string
	Direction  string
	Volume     string
	EntryPrice string
	ExitDate   string
	ExitPrice  string
	Profit     string
	Commission string
	Swap       string
	StopLoss   string
	TakeProfit string
}

// columnAliases lists the recognized headers per role, most specific first.
// English and Portuguese vocabularies are mixed because MetaTrader and
// NinjaTrader localize their exports.
var columnAliases = map[string][]string{
	"entryDate":  {"Time", "Entry time", "Hora de entrada", "Open Time", "Data"},
	"symbol":     {"Symbol", "Ativo", "Instrument", "Instrumento"},
	"direction":  {"Type", "Tipo", "Market pos.", "Posição no merc.", "Direction"},
	"volume":     {"Volume", "Qty", "Qtd.", "Quantidade", "Lots", "Size"},
	"entryPrice": {"Price", "Entry price", "Preço de entrada", "Open Price"},
	"exitDate":   {"ExitTime", "Exit time", "Hora de saída", "Close Time"},
	"exitPrice":  {"ExitPrice", "Exit price", "Preço de saída", "Close Price"},
	"profit":     {"Profit", "Lucro", "P&L", "PnL", "Net P/L"},
	"commission": {"Commission", "Comissão", "Com.", "Commissions"},
	"swap":       {"Swap"},
	"sl":         {"S/L", "S / L", "Stop Loss"},
	"tp":         {"T/P", "T / P", "Take Profit"},
}

// DetectColumnMapping identifies which raw header plays each canonical role.
// The first alias present in the header row wins; comparison is
// case-insensitive on trimmed headers, but the mapping keeps the header
// exactly as it appears so row lookups stay exact.
func DetectColumnMapping(headers []string) ColumnMapping {
	lookup := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := lookup[key]; !exists {
			lookup[key] = h
		}
	}

	find := func(role string) string {
		for _, alias := range columnAliases[role] {
			if raw, ok := lookup[strings.ToLower(alias)]; ok {
				return raw
			}
		}

		return ""
	}

	return ColumnMapping{
		EntryDate:  find("entryDate"),
		Symbol:     find("symbol"),
		Direction:  find("direction"),
		Volume:     find("volume"),
		EntryPrice: find("entryPrice"),
		ExitDate:   find("exitDate"),
		ExitPrice:  find("exitPrice"),
		Profit:     find("profit"),
		Commission: find("commission"),
		Swap:       find("swap"),
		StopLoss:   find("sl"),
		TakeProfit: find("tp"),
	}
}
