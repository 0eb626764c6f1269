package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=trade
type Repository interface {
	CreateTrade(ctx context.Context, t *Trade) error
	GetTrade(ctx context.Context, id uuid.UUID) (*Trade, error)
	ListTrades(ctx context.Context, filter ListFilter) ([]*Trade, error)
	DeleteTrade(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, accountID uuid.UUID) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Trade, error)
	CreateTrades(ctx context.Context, trades []*Trade) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams carries a normalized trade from the import pipeline into the
// store. The pipeline fills every field; the store assigns identity.
type CreateParams struct {
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
}

type ListFilter struct {
	AccountID *uuid.UUID
	Symbol    *string
	Direction *Direction
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Trade, error) {
	t := paramsToTrade(params)
	if err := s.repo.CreateTrade(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Trade, error) {
	return s.repo.GetTrade(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Trade, error) {
	return s.repo.ListTrades(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTrade(ctx, id)
}

type ImportResult struct {
	Imported  []*Trade
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Trade
}

// ImportBatch writes a batch of normalized trades, detecting trades that were
// already imported from a previous upload of the same statement. When
// conflicts exist nothing is written; the caller decides what to keep.
func (s *Service) ImportBatch(ctx context.Context, accountID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	itx, err := s.repo.BeginImport(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Trade, len(duplicates))
	for _, d := range duplicates {
		lookup[tradeDupKey(d)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[paramsDupKey(p)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	trades := paramsToTrades(newParams)
	if err := itx.CreateTrades(ctx, trades); err != nil {
		return nil, fmt.Errorf("create trades: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: trades}, nil
}

// CreateBatch writes trades without duplicate detection. Used by the confirm
// flow after the user reviewed a conflicting import.
func (s *Service) CreateBatch(ctx context.Context, accountID uuid.UUID, params []CreateParams) ([]*Trade, error) {
	if len(params) == 0 {
		return nil, nil
	}

	itx, err := s.repo.BeginImport(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	trades := paramsToTrades(params)
	if err := itx.CreateTrades(ctx, trades); err != nil {
		return nil, fmt.Errorf("create trades: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return trades, nil
}

// dupKey is the natural identity of an imported trade: same account, symbol,
// entry time, size and result means the same statement row.
type dupKey struct {
	AccountID uuid.UUID
	Symbol    string
	EntryTime string
	Volume    float64
	PnL       float64
}

func paramsDupKey(p CreateParams) dupKey {
	return dupKey{
		AccountID: p.AccountID,
		Symbol:    p.Symbol,
		EntryTime: p.EntryTime.UTC().Format(time.RFC3339),
		Volume:    p.Volume,
		PnL:       p.PnL,
	}
}

func tradeDupKey(t *Trade) dupKey {
	return dupKey{
		AccountID: t.AccountID,
		Symbol:    t.Symbol,
		EntryTime: t.EntryTime.UTC().Format(time.RFC3339),
		Volume:    t.Volume,
		PnL:       t.PnL,
	}
}

func paramsToTrade(p CreateParams) *Trade {
	return &Trade{
		AccountID:  p.AccountID,
		Platform:   p.Platform,
		Symbol:     p.Symbol,
		Direction:  p.Direction,
		Volume:     p.Volume,
		EntryPrice: p.EntryPrice,
		ExitPrice:  p.ExitPrice,
		EntryTime:  p.EntryTime,
		ExitTime:   p.ExitTime,
		PnL:        p.PnL,
		Commission: p.Commission,
		Swap:       p.Swap,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
	}
}

func paramsToTrades(params []CreateParams) []*Trade {
	trades := make([]*Trade, len(params))
	for i, p := range params {
		trades[i] = paramsToTrade(p)
	}

	return trades
}
