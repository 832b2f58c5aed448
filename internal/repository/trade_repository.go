package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradedesk/internal/domain"
)

// TradeRepositoryImpl implements the TradeRepository interface
type TradeRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *pgxpool.Pool) domain.TradeRepository {
	return &TradeRepositoryImpl{db: db}
}

// Record persists a trade, its history entry and the owner's balance
// adjustment in one transaction. The row lock on the owner serializes
// concurrent trades for the same user.
func (r *TradeRepositoryImpl) Record(ctx context.Context, trade *domain.Trade) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin trade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var credit, invested float64
	err = tx.QueryRow(ctx, `
		SELECT available_credit, total_invested
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, trade.UserID).Scan(&credit, &invested)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	switch trade.Action {
	case domain.ActionBuy:
		if credit < trade.TotalAmount {
			return domain.ErrInsufficientCredit
		}
		credit -= trade.TotalAmount
		invested += trade.TotalAmount
	case domain.ActionSell:
		credit += trade.TotalAmount
		invested -= trade.TotalAmount
		if invested < 0 {
			invested = 0
		}
	default:
		return domain.NewValidationError("action", "must be 'buy' or 'sell'")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trades (id, user_id, symbol, action, quantity, price, total_amount, trade_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		trade.ID,
		trade.UserID,
		trade.Symbol,
		trade.Action,
		trade.Quantity,
		trade.Price,
		trade.TotalAmount,
		trade.TradeDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trading_history (user_id, trade_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, trade.UserID, trade.ID)
	if err != nil {
		return fmt.Errorf("failed to append trading history: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET available_credit = $1, total_invested = $2, updated_at = NOW()
		WHERE id = $3
	`, credit, invested, trade.UserID)
	if err != nil {
		return fmt.Errorf("failed to update balances: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	return nil
}

// AppendHistory adds a trade to the owner's history; re-appending the
// same trade id is a no-op.
func (r *TradeRepositoryImpl) AppendHistory(ctx context.Context, userID, tradeID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO trading_history (user_id, trade_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, tradeID)
	if err != nil {
		return fmt.Errorf("failed to append trading history: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by ID
func (r *TradeRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	query := `
		SELECT id, user_id, symbol, action, quantity, price, total_amount, trade_date
		FROM trades
		WHERE id = $1
	`

	trade := &domain.Trade{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&trade.ID,
		&trade.UserID,
		&trade.Symbol,
		&trade.Action,
		&trade.Quantity,
		&trade.Price,
		&trade.TotalAmount,
		&trade.TradeDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}

	return trade, nil
}

// GetHistory retrieves a user's trades in insertion order
func (r *TradeRepositoryImpl) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Trade, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT t.id, t.user_id, t.symbol, t.action, t.quantity, t.price, t.total_amount, t.trade_date
		FROM trading_history h
		JOIN trades t ON t.id = h.trade_id
		WHERE h.user_id = $1
		ORDER BY h.recorded_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading history: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		trade := &domain.Trade{}
		err := rows.Scan(
			&trade.ID,
			&trade.UserID,
			&trade.Symbol,
			&trade.Action,
			&trade.Quantity,
			&trade.Price,
			&trade.TotalAmount,
			&trade.TradeDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// GetUnindexed retrieves trades missing their trading-history entry
func (r *TradeRepositoryImpl) GetUnindexed(ctx context.Context, olderThan time.Duration) ([]*domain.Trade, error) {
	query := `
		SELECT t.id, t.user_id, t.symbol, t.action, t.quantity, t.price, t.total_amount, t.trade_date
		FROM trades t
		LEFT JOIN trading_history h ON h.trade_id = t.id
		WHERE h.trade_id IS NULL
		  AND t.trade_date < NOW() - make_interval(secs => $1)
		ORDER BY t.trade_date ASC
	`

	rows, err := r.db.Query(ctx, query, olderThan.Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to query unindexed trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		trade := &domain.Trade{}
		err := rows.Scan(
			&trade.ID,
			&trade.UserID,
			&trade.Symbol,
			&trade.Action,
			&trade.Quantity,
			&trade.Price,
			&trade.TotalAmount,
			&trade.TradeDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unindexed trades: %w", err)
	}

	return trades, nil
}
