package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradedesk/internal/domain"
)

// TradingService handles the trade-ledger write path
type TradingService struct {
	tradeRepo domain.TradeRepository
}

// NewTradingService creates a new TradingService
func NewTradingService(tradeRepo domain.TradeRepository) *TradingService {
	return &TradingService{
		tradeRepo: tradeRepo,
	}
}

// RecordTrade validates and persists one buy/sell action. The total is
// always derived here; a client-supplied total is never consulted.
func (ts *TradingService) RecordTrade(ctx context.Context, userID uuid.UUID, symbol, action string, quantity, price float64) (*domain.Trade, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domain.NewValidationError("symbol", "is required")
	}
	if !domain.ValidAction(action) {
		return nil, domain.NewValidationError("action", "must be 'buy' or 'sell'")
	}
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "must be positive")
	}
	if price <= 0 {
		return nil, domain.NewValidationError("price", "must be positive")
	}

	trade := &domain.Trade{
		ID:          uuid.New(),
		UserID:      userID,
		Symbol:      symbol,
		Action:      action,
		Quantity:    quantity,
		Price:       price,
		TotalAmount: quantity * price,
		TradeDate:   time.Now(),
	}

	if err := ts.tradeRepo.Record(ctx, trade); err != nil {
		return nil, err
	}

	return trade, nil
}

// GetHistory retrieves a user's trades in chronological order
func (ts *TradingService) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Trade, error) {
	return ts.tradeRepo.GetHistory(ctx, userID, limit)
}

// GetTrade retrieves one trade by id
func (ts *TradingService) GetTrade(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	return ts.tradeRepo.GetByID(ctx, id)
}
