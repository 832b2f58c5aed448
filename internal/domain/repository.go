package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user directory operations
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicateEmail when the
	// email unique index rejects the insert.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetAll retrieves all users
	GetAll(ctx context.Context) ([]*User, error)

	// UpdateLastLogin stamps the user's last login time
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error

	// UpdateRole changes the user's role
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error

	// Delete removes a user permanently
	Delete(ctx context.Context, userID uuid.UUID) error
}

// TradeRepository defines the interface for the trade ledger
type TradeRepository interface {
	// Record persists a trade, appends it to the owner's trading
	// history and adjusts the owner's balances in one transaction.
	Record(ctx context.Context, trade *Trade) error

	// AppendHistory adds a trade to the owner's trading history.
	// Appending the same trade twice is a no-op.
	AppendHistory(ctx context.Context, userID, tradeID uuid.UUID) error

	// GetByID retrieves a trade by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Trade, error)

	// GetHistory retrieves a user's trades in insertion order
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*Trade, error)

	// GetUnindexed retrieves trades older than the given age that are
	// missing their trading-history entry.
	GetUnindexed(ctx context.Context, olderThan time.Duration) ([]*Trade, error)
}

// ActivityLogRepository defines the interface for the activity log
type ActivityLogRepository interface {
	// Insert appends one activity record
	Insert(ctx context.Context, entry *ActivityLog) error

	// GetByUser retrieves recent activity for a user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*ActivityLog, error)
}

// SessionStore defines the interface for the session key-value store
type SessionStore interface {
	// Create issues a new opaque token for the user
	Create(ctx context.Context, userID uuid.UUID, role string) (string, error)

	// Get resolves a token and refreshes its sliding TTL. Returns
	// ErrSessionNotFound for absent, expired or tampered tokens.
	Get(ctx context.Context, token string) (*Session, error)

	// Destroy removes one session
	Destroy(ctx context.Context, token string) error

	// DestroyAllForUser removes every session belonging to a user
	DestroyAllForUser(ctx context.Context, userID uuid.UUID) error

	// UpdateRoleForUser rewrites the role on every live session of a user
	UpdateRoleForUser(ctx context.Context, userID uuid.UUID, role string) error
}
