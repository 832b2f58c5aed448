package dto

// TradeRequest represents the trade-creation payload. There is no
// field for a total: the server always derives it from quantity*price.
type TradeRequest struct {
	UserID   string  `json:"userId" form:"userId"`
	Symbol   string  `json:"symbol" form:"symbol" validate:"required"`
	Action   string  `json:"action" form:"action" validate:"required,oneof=buy sell"`
	Quantity float64 `json:"quantity" form:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" form:"price" validate:"required,gt=0"`
}

// TradeOutput represents a trade in API responses
type TradeOutput struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Symbol      string  `json:"symbol"`
	Action      string  `json:"action"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	TotalAmount float64 `json:"total_amount"`
	TradeDate   string  `json:"trade_date"`
}
