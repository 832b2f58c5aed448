package dto

// UserOutput represents user details in API responses
type UserOutput struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	TradingBalance  float64 `json:"trading_balance"`
	AvailableCredit float64 `json:"available_credit"`
	TotalInvested   float64 `json:"total_invested"`
	LastLogin       *string `json:"last_login,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// SetRoleRequest represents the admin role-change payload
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
