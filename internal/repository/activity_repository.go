package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradedesk/internal/domain"
)

// ActivityLogRepositoryImpl implements the ActivityLogRepository interface
type ActivityLogRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *pgxpool.Pool) domain.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{db: db}
}

// Insert appends one activity record
func (r *ActivityLogRepositoryImpl) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, user_id, activity, timestamp)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, entry.ID, entry.UserID, entry.Activity, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	return nil
}

// GetByUser retrieves recent activity for a user
func (r *ActivityLogRepositoryImpl) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, activity, timestamp
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ActivityLog
	for rows.Next() {
		entry := &domain.ActivityLog{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Activity, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity logs: %w", err)
	}

	return entries, nil
}
