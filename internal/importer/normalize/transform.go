package normalize

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradebookhq/tradebook/internal/trade"
)

// TransformOptions carries the per-import context the transform needs.
type TransformOptions struct {
	AccountID uuid.UUID
	// SourceLocation is the timezone the statement's timestamps are in.
	SourceLocation *time.Location
	// TargetLocation is the display timezone entry/exit times are converted
	// to. Nil keeps timestamps in the source timezone.
	TargetLocation *time.Location
}

// TransformTrades turns raw statement rows into normalized trade records
// using the detected column mapping. Row-level problems degrade to safe
// defaults (zero numbers, Long direction, unconverted times); the import
// never fails because of a single bad row.
func TransformTrades(rows []Row, mapping ColumnMapping, platform trade.Platform, opts TransformOptions) []trade.CreateParams {
	params := make([]trade.CreateParams, 0, len(rows))

	for _, row := range rows {
		direction, ok := NormalizeTradeType(row.Get(mapping.Direction).String())
		if !ok {
			direction = trade.DirectionLong
		}

		profit := MoneyCell(row.Get(mapping.Profit))
		commission := MoneyCell(row.Get(mapping.Commission))
		swap := MoneyCell(row.Get(mapping.Swap))

		// NinjaTrader reports commission as a positive charge; MetaTrader
		// already reports it negative. Costs are stored negative.
		if platform == trade.PlatformNinjaTrader {
			commission = commission.Abs().Neg()
		}

		pnl := profit.Add(commission).Add(swap)

		entryTime := convertTime(row.Get(mapping.EntryDate).String(), opts)

		var exitTime *time.Time
		if t := convertTime(row.Get(mapping.ExitDate).String(), opts); !t.IsZero() {
			exitTime = &t
		}

		params = append(params, trade.CreateParams{
			AccountID:  opts.AccountID,
			Platform:   platform,
			Symbol:     CleanSymbol(row.Get(mapping.Symbol).String()),
			Direction:  direction,
			Volume:     MoneyCell(row.Get(mapping.Volume)).InexactFloat64(),
			EntryPrice: MoneyCell(row.Get(mapping.EntryPrice)).InexactFloat64(),
			ExitPrice:  MoneyCell(row.Get(mapping.ExitPrice)).InexactFloat64(),
			EntryTime:  entryTime,
			ExitTime:   exitTime,
			PnL:        pnl.InexactFloat64(),
			Commission: commission.InexactFloat64(),
			Swap:       swap.InexactFloat64(),
			StopLoss:   MoneyCell(row.Get(mapping.StopLoss)).InexactFloat64(),
			TakeProfit: MoneyCell(row.Get(mapping.TakeProfit)).InexactFloat64(),
		})
	}

	return params
}

func convertTime(raw string, opts TransformOptions) time.Time {
	t, ok := ParseDate(raw, opts.SourceLocation)
	if !ok {
		return time.Time{}
	}

	if opts.TargetLocation != nil {
		return t.In(opts.TargetLocation)
	}

	return t
}
