package trade_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradebookhq/tradebook/internal/trade"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params trade.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *trade.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: trade.CreateParams{
					AccountID: uuid.New(),
					Platform:  trade.PlatformTradovate,
					Symbol:    "NQ",
					Direction: trade.DirectionLong,
					Volume:    1,
					PnL:       255,
					EntryTime: time.Date(2025, 11, 30, 20, 15, 41, 0, time.UTC),
				},
			},
			setupMock: func(m *trade.MockRepository) {
				m.EXPECT().
					CreateTrade(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tr *trade.Trade) error {
						tr.ID = uuid.New()
						tr.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "RepoError",
			args: args{
				params: trade.CreateParams{
					Symbol: "ES",
				},
			},
			setupMock: func(m *trade.MockRepository) {
				m.EXPECT().
					CreateTrade(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := trade.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := trade.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	type args struct {
		filter trade.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *trade.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: trade.ListFilter{}},
			setupMock: func(m *trade.MockRepository) {
				m.EXPECT().
					ListTrades(gomock.Any(), trade.ListFilter{}).
					Return([]*trade.Trade{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			args: args{filter: trade.ListFilter{}},
			setupMock: func(m *trade.MockRepository) {
				m.EXPECT().
					ListTrades(gomock.Any(), trade.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := trade.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := trade.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := trade.NewMockRepository(ctrl)
	itx := trade.NewMockImportTx(ctrl)
	svc := trade.NewService(repo)

	accountID := uuid.New()
	entryTime := time.Date(2025, 11, 30, 20, 15, 41, 0, time.UTC)
	params := []trade.CreateParams{
		{
			AccountID: accountID,
			Platform:  trade.PlatformNinjaTrader,
			Symbol:    "ES",
			Direction: trade.DirectionLong,
			Volume:    1,
			PnL:       495,
			EntryTime: entryTime,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), accountID).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTrades(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), accountID, params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := trade.NewMockRepository(ctrl)
	itx := trade.NewMockImportTx(ctrl)
	svc := trade.NewService(repo)

	accountID := uuid.New()
	entryTime := time.Date(2025, 11, 30, 20, 15, 41, 0, time.UTC)
	params := []trade.CreateParams{
		{
			AccountID: accountID,
			Platform:  trade.PlatformNinjaTrader,
			Symbol:    "ES",
			Volume:    1,
			PnL:       495,
			EntryTime: entryTime,
		},
		{
			AccountID: accountID,
			Platform:  trade.PlatformNinjaTrader,
			Symbol:    "NQ",
			Volume:    2,
			PnL:       -120,
			EntryTime: entryTime.Add(time.Hour),
		},
	}

	existing := &trade.Trade{
		ID:        uuid.New(),
		AccountID: accountID,
		Symbol:    "ES",
		Volume:    1,
		PnL:       495,
		EntryTime: entryTime,
	}

	repo.EXPECT().BeginImport(gomock.Any(), accountID).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*trade.Trade{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), accountID, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := trade.NewMockRepository(ctrl)
	svc := trade.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), uuid.New(), []trade.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := trade.NewMockRepository(ctrl)
	itx := trade.NewMockImportTx(ctrl)
	svc := trade.NewService(repo)

	accountID := uuid.New()
	params := []trade.CreateParams{
		{
			AccountID: accountID,
			Platform:  trade.PlatformMetaTrader,
			Symbol:    "EURUSD",
			Direction: trade.DirectionLong,
			Volume:    0.10,
			PnL:       493,
			EntryTime: time.Date(2025, 11, 30, 20, 15, 41, 0, time.UTC),
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), accountID).Return(itx, nil)
	itx.EXPECT().CreateTrades(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	trades, err := svc.CreateBatch(context.Background(), accountID, params)
	require.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, "EURUSD", trades[0].Symbol)
	assert.Equal(t, 493.0, trades[0].PnL)
}
