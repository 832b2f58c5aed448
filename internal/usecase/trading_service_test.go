package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/domain"
)

type stubTradeRepo struct {
	recorded []*domain.Trade
	err      error
}

func (r *stubTradeRepo) Record(_ context.Context, trade *domain.Trade) error {
	if r.err != nil {
		return r.err
	}
	cp := *trade
	r.recorded = append(r.recorded, &cp)
	return nil
}

func (r *stubTradeRepo) AppendHistory(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (r *stubTradeRepo) GetByID(context.Context, uuid.UUID) (*domain.Trade, error) {
	return nil, domain.ErrTradeNotFound
}

func (r *stubTradeRepo) GetHistory(context.Context, uuid.UUID, int) ([]*domain.Trade, error) {
	return r.recorded, nil
}

func (r *stubTradeRepo) GetUnindexed(context.Context, time.Duration) ([]*domain.Trade, error) {
	return nil, nil
}

func TestRecordTrade(t *testing.T) {
	repo := &stubTradeRepo{}
	svc := NewTradingService(repo)
	userID := uuid.New()

	trade, err := svc.RecordTrade(context.Background(), userID, " aapl ", "buy", 10, 189.50)
	require.NoError(t, err)

	// Symbol is normalized, total is derived from quantity*price
	assert.Equal(t, "AAPL", trade.Symbol)
	assert.Equal(t, "buy", trade.Action)
	assert.InDelta(t, 1895.0, trade.TotalAmount, 1e-9)
	assert.Equal(t, userID, trade.UserID)
	assert.NotEqual(t, uuid.Nil, trade.ID)

	require.Len(t, repo.recorded, 1)
	assert.Equal(t, trade.ID, repo.recorded[0].ID)
}

func TestRecordTradeValidation(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		action   string
		quantity float64
		price    float64
	}{
		{"empty symbol", "", "buy", 1, 1},
		{"blank symbol", "   ", "buy", 1, 1},
		{"unknown action", "AAPL", "hold", 1, 1},
		{"empty action", "AAPL", "", 1, 1},
		{"zero quantity", "AAPL", "buy", 0, 1},
		{"negative quantity", "AAPL", "buy", -5, 1},
		{"zero price", "AAPL", "sell", 1, 0},
		{"negative price", "AAPL", "sell", 1, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubTradeRepo{}
			svc := NewTradingService(repo)

			_, err := svc.RecordTrade(context.Background(), uuid.New(), tt.symbol, tt.action, tt.quantity, tt.price)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))

			// Invalid input never reaches the repository
			assert.Empty(t, repo.recorded)
		})
	}
}

func TestRecordTradePropagatesRepoError(t *testing.T) {
	repo := &stubTradeRepo{err: domain.ErrInsufficientCredit}
	svc := NewTradingService(repo)

	_, err := svc.RecordTrade(context.Background(), uuid.New(), "AAPL", "buy", 1, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredit)
}
