package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"` // Never expose password hash in JSON
	Role            string     `json:"role"`
	TradingBalance  float64    `json:"trading_balance"`
	AvailableCredit float64    `json:"available_credit"`
	TotalInvested   float64    `json:"total_invested"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UserRole constants
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleTrader = "trader"
	RoleBroker = "broker"
)

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleTrader, RoleBroker:
		return true
	}
	return false
}

// CanAccess is the single authorization predicate consulted by the role gate.
// Admins pass every check; everyone else needs an exact role match.
func CanAccess(role, required string) bool {
	if role == RoleAdmin {
		return true
	}
	return role == required
}
