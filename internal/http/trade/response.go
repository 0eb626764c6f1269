package trade

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradebookhq/tradebook/internal/trade"
)

type tradeResponse struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	Platform   trade.Platform  `json:"platform"`
	Symbol     string          `json:"symbol"`
	Direction  trade.Direction `json:"direction"`
	Volume     float64         `json:"volume"`
	EntryPrice float64         `json:"entry_price"`
	ExitPrice  float64         `json:"exit_price"`
	EntryTime  time.Time       `json:"entry_time"`
	ExitTime   *time.Time      `json:"exit_time,omitempty"`
	PnL        float64         `json:"pnl"`
	Commission float64         `json:"commission"`
	Swap       float64         `json:"swap"`
	StopLoss   float64         `json:"stop_loss,omitempty"`
	TakeProfit float64         `json:"take_profit,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(tr *trade.Trade) tradeResponse {
	return tradeResponse{
		ID:         tr.ID,
		AccountID:  tr.AccountID,
		Platform:   tr.Platform,
		Symbol:     tr.Symbol,
		Direction:  tr.Direction,
		Volume:     tr.Volume,
		EntryPrice: tr.EntryPrice,
		ExitPrice:  tr.ExitPrice,
		EntryTime:  tr.EntryTime,
		ExitTime:   tr.ExitTime,
		PnL:        tr.PnL,
		Commission: tr.Commission,
		Swap:       tr.Swap,
		StopLoss:   tr.StopLoss,
		TakeProfit: tr.TakeProfit,
		CreatedAt:  tr.CreatedAt,
		UpdatedAt:  tr.UpdatedAt,
	}
}

func toResponseList(trades []*trade.Trade) []tradeResponse {
	resp := make([]tradeResponse, len(trades))
	for i, tr := range trades {
		resp[i] = toResponse(tr)
	}

	return resp
}
