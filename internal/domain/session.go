package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the value stored against an opaque session token. The token
// itself is the key and travels only in the session cookie.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionTTL is the sliding session window
const SessionTTL = 14 * 24 * time.Hour
