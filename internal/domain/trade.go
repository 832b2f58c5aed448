package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trade is one append-only ledger entry. Trades are never mutated or
// deleted after creation.
type Trade struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Symbol      string    `json:"symbol"`
	Action      string    `json:"action"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	TotalAmount float64   `json:"total_amount"` // always quantity * price, derived server-side
	TradeDate   time.Time `json:"trade_date"`
}

// TradeAction constants
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// ValidAction reports whether action is buy or sell
func ValidAction(action string) bool {
	return action == ActionBuy || action == ActionSell
}
