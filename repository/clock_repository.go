package repository

import (
	"context"
	"fmt"

	"botoclock/database"
	"botoclock/domain/entities"

	"github.com/jackc/pgx/v5"
)

const clockColumns = `id, channel_id, message_id, guild_id, timezone, name, created_at`

// ClockRepository implements the ClockRepository interface
type ClockRepository struct {
	q Queryable
}

// NewClockRepository creates a new clock repository
func NewClockRepository(db *database.DB) *ClockRepository {
	return &ClockRepository{q: db.Pool}
}

// NewClockRepositoryWithQueryable creates a clock repository over any Queryable
func NewClockRepositoryWithQueryable(q Queryable) *ClockRepository {
	return &ClockRepository{q: q}
}

// CountChannelClocks returns how many voice channel clocks a guild has
func (r *ClockRepository) CountChannelClocks(ctx context.Context, guildID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM clocks WHERE guild_id = $1 AND message_id IS NULL`,
		guildID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count channel clocks for guild %d: %w", guildID, err)
	}
	return count, nil
}

// Create inserts a clock and fills in its ID and CreatedAt
func (r *ClockRepository) Create(ctx context.Context, clock *entities.Clock) error {
	if err := clock.Validate(); err != nil {
		return fmt.Errorf("invalid clock: %w", err)
	}

	query := `
		INSERT INTO clocks (channel_id, message_id, guild_id, timezone, name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		clock.ChannelID,
		clock.MessageID,
		clock.GuildID,
		clock.Timezone,
		clock.NameTemplate,
	).Scan(&clock.ID, &clock.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create clock in guild %d: %w", clock.GuildID, err)
	}

	return nil
}

// GetByGuild returns every clock registered in a guild, oldest first
func (r *ClockRepository) GetByGuild(ctx context.Context, guildID int64) ([]*entities.Clock, error) {
	query := `SELECT ` + clockColumns + ` FROM clocks WHERE guild_id = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clocks for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	clocks, err := scanClocks(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read clocks for guild %d: %w", guildID, err)
	}
	return clocks, nil
}

// GetAll returns every clock across all guilds
func (r *ClockRepository) GetAll(ctx context.Context) ([]*entities.Clock, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clockColumns+` FROM clocks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clocks: %w", err)
	}
	defer rows.Close()

	clocks, err := scanClocks(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read clocks: %w", err)
	}
	return clocks, nil
}

// DeleteByChannel removes every clock tied to a channel. Zero rows is not an error.
func (r *ClockRepository) DeleteByChannel(ctx context.Context, channelID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM clocks WHERE channel_id = $1`, channelID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete clocks for channel %d: %w", channelID, err)
	}
	return result.RowsAffected(), nil
}

// DeleteByMessage removes the message clock rendered into a message
func (r *ClockRepository) DeleteByMessage(ctx context.Context, messageID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM clocks WHERE message_id = $1`, messageID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete clock for message %d: %w", messageID, err)
	}
	return result.RowsAffected(), nil
}

// DeleteByID removes the clock a guild refers to by its channel or message id
func (r *ClockRepository) DeleteByID(ctx context.Context, guildID, resourceID int64) (bool, error) {
	query := `
		DELETE FROM clocks
		WHERE guild_id = $1
		  AND (message_id = $2 OR (message_id IS NULL AND channel_id = $2))
	`

	result, err := r.q.Exec(ctx, query, guildID, resourceID)
	if err != nil {
		return false, fmt.Errorf("failed to delete clock %d in guild %d: %w", resourceID, guildID, err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteByChannels removes every clock of a guild tied to one of the given channels
func (r *ClockRepository) DeleteByChannels(ctx context.Context, guildID int64, channelIDs []int64) (int64, error) {
	if len(channelIDs) == 0 {
		return 0, nil
	}

	result, err := r.q.Exec(ctx,
		`DELETE FROM clocks WHERE guild_id = $1 AND channel_id = ANY($2)`,
		guildID, channelIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep clocks in guild %d: %w", guildID, err)
	}
	return result.RowsAffected(), nil
}

func scanClocks(rows pgx.Rows) ([]*entities.Clock, error) {
	var clocks []*entities.Clock
	for rows.Next() {
		var clock entities.Clock
		if err := rows.Scan(
			&clock.ID,
			&clock.ChannelID,
			&clock.MessageID,
			&clock.GuildID,
			&clock.Timezone,
			&clock.NameTemplate,
			&clock.CreatedAt,
		); err != nil {
			return nil, err
		}
		clocks = append(clocks, &clock)
	}
	return clocks, rows.Err()
}
