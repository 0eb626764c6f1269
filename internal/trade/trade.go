package trade

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Direction represents which side of the market a trade was on.
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// Platform identifies the broker platform a trade was imported from.
type Platform string

const (
	PlatformTradovate   Platform = "tradovate"
	PlatformMetaTrader  Platform = "metatrader"
	PlatformNinjaTrader Platform = "ninjatrader"
)

var ErrNotFound = errors.New("trade not found")

// Trade is a normalized trade record as stored in the journal.
// Prices and P&L are kept as floats: broker statements report them in
// instrument-specific tick units, not in a single currency's cents.
type Trade struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Platform   Platform
	Symbol     string
	Direction  Direction
	Volume     float64
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   *time.Time
	PnL        float64
	Commission float64
	Swap       float64
	StopLoss   float64
	TakeProfit float64
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
}
