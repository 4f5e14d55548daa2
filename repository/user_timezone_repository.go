package repository

import (
	"context"
	"errors"
	"fmt"

	"botoclock/database"
	"botoclock/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserTimezoneRepository implements the UserTimezoneRepository interface
type UserTimezoneRepository struct {
	q Queryable
}

// NewUserTimezoneRepository creates a new personal timezone repository
func NewUserTimezoneRepository(db *database.DB) *UserTimezoneRepository {
	return &UserTimezoneRepository{q: db.Pool}
}

// Upsert records a user's timezone, replacing any previous one in a single statement
func (r *UserTimezoneRepository) Upsert(ctx context.Context, userID int64, timezone string) error {
	query := `
		INSERT INTO users (id, timezone, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id)
		DO UPDATE SET timezone = EXCLUDED.timezone, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, userID, timezone); err != nil {
		return fmt.Errorf("failed to upsert timezone for user %d: %w", userID, err)
	}
	return nil
}

// GetByUserID returns the user's timezone, or nil if they never set one
func (r *UserTimezoneRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserTimezone, error) {
	query := `SELECT id, timezone, updated_at FROM users WHERE id = $1`

	var tz entities.UserTimezone
	err := r.q.QueryRow(ctx, query, userID).Scan(&tz.UserID, &tz.Timezone, &tz.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get timezone for user %d: %w", userID, err)
	}

	return &tz, nil
}
