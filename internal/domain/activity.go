package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an opportunistic audit record. It is not authoritative
// for any invariant and writing it must never block a request.
type ActivityLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Activity  string    `json:"activity"`
	Timestamp time.Time `json:"timestamp"`
}

// Activity constants
const (
	ActivityLoggedIn    = "Logged In"
	ActivityLoggedOut   = "Logged Out"
	ActivityRoleChanged = "Role Changed"
)
