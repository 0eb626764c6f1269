package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/tradebookhq/tradebook/internal/trade"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTradeColumns = `
	id, account_id, platform, symbol, direction, volume,
	entry_price, exit_price, entry_time, exit_time,
	pnl, commission, swap, stop_loss, take_profit,
	created_at, updated_at, deleted_at
`

// scanTrade reads a trade row from the scanner in selectTradeColumns order.
func scanTrade(s scanner) (*trade.Trade, error) {
	var t trade.Trade

	var platformStr, directionStr string

	var exitTime sql.NullTime

	if err := s.Scan(
		&t.ID, &t.AccountID, &platformStr, &t.Symbol, &directionStr, &t.Volume,
		&t.EntryPrice, &t.ExitPrice, &t.EntryTime, &exitTime,
		&t.PnL, &t.Commission, &t.Swap, &t.StopLoss, &t.TakeProfit,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	); err != nil {
		return nil, err
	}

	t.Platform = trade.Platform(platformStr)
	t.Direction = trade.Direction(directionStr)

	if exitTime.Valid {
		t.ExitTime = &exitTime.Time
	}

	return &t, nil
}

const insertTrade = `
	INSERT INTO trades (
		account_id, platform, symbol, direction, volume,
		entry_price, exit_price, entry_time, exit_time,
		pnl, commission, swap, stop_loss, take_profit,
		created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func (s *Store) CreateTrade(ctx context.Context, t *trade.Trade) error {
	err := s.db.QueryRowContext(ctx, insertTrade,
		t.AccountID, t.Platform, t.Symbol, t.Direction, t.Volume,
		t.EntryPrice, t.ExitPrice, t.EntryTime, t.ExitTime,
		t.PnL, t.Commission, t.Swap, t.StopLoss, t.TakeProfit,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating trade: %w", err)
	}

	return nil
}

func (s *Store) GetTrade(ctx context.Context, id uuid.UUID) (*trade.Trade, error) {
	query := `SELECT ` + selectTradeColumns + `
		FROM trades
		WHERE id = $1 AND deleted_at IS NULL`

	t, err := scanTrade(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, trade.ErrNotFound
		}

		return nil, fmt.Errorf("getting trade: %w", err)
	}

	return t, nil
}

func (s *Store) ListTrades(ctx context.Context, filter trade.ListFilter) ([]*trade.Trade, error) {
	query := `SELECT ` + selectTradeColumns + `
		FROM trades
		WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Symbol != nil {
		query += fmt.Sprintf(" AND symbol = $%d", argIdx)

		args = append(args, *filter.Symbol)
		argIdx++
	}

	if filter.Direction != nil {
		query += fmt.Sprintf(" AND direction = $%d", argIdx)

		args = append(args, *filter.Direction)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND entry_time >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND entry_time <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY entry_time ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}
	defer rows.Close()

	var trades []*trade.Trade

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}

		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trade rows: %w", err)
	}

	return trades, nil
}

func (s *Store) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE trades
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting trade: %w", err)
	}

	return nil
}

// importLockKey serializes concurrent imports into the same account.
func importLockKey(accountID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(accountID[:])

	return int64(h.Sum64())
}

type importTx struct {
	tx        *sql.Tx
	accountID uuid.UUID
}

func (s *Store) BeginImport(ctx context.Context, accountID uuid.UUID) (trade.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(accountID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, accountID: accountID}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, params []trade.CreateParams) ([]*trade.Trade, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Symbol    string
		EntryTime string
		Volume    float64
		PnL       float64
	}

	// Find the entry-time range and build the lookup set.
	minTime := params[0].EntryTime
	maxTime := params[0].EntryTime
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.EntryTime.Before(minTime) {
			minTime = p.EntryTime
		}

		if p.EntryTime.After(maxTime) {
			maxTime = p.EntryTime
		}

		keySet[lookupKey{
			Symbol:    p.Symbol,
			EntryTime: p.EntryTime.UTC().Format(time.RFC3339),
			Volume:    p.Volume,
			PnL:       p.PnL,
		}] = struct{}{}
	}

	query := `SELECT ` + selectTradeColumns + `
		FROM trades
		WHERE deleted_at IS NULL AND account_id = $1
			AND entry_time >= $2 AND entry_time <= $3
		ORDER BY entry_time ASC`

	rows, err := itx.tx.QueryContext(ctx, query, itx.accountID, minTime, maxTime)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*trade.Trade

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}

		k := lookupKey{
			Symbol:    t.Symbol,
			EntryTime: t.EntryTime.UTC().Format(time.RFC3339),
			Volume:    t.Volume,
			PnL:       t.PnL,
		}

		_, found := keySet[k]
		if !found {
			continue
		}

		duplicates = append(duplicates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTrades(ctx context.Context, trades []*trade.Trade) error {
	for _, t := range trades {
		err := itx.tx.QueryRowContext(ctx, insertTrade,
			t.AccountID, t.Platform, t.Symbol, t.Direction, t.Volume,
			t.EntryPrice, t.ExitPrice, t.EntryTime, t.ExitTime,
			t.PnL, t.Commission, t.Swap, t.StopLoss, t.TakeProfit,
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating trade: %w", err)
		}
	}

	return nil
}
