package interfaces

import (
	"context"

	"botoclock/domain/entities"
)

// ClockRepository defines the interface for the clock registry
type ClockRepository interface {
	// CountChannelClocks returns how many voice channel clocks a guild has
	CountChannelClocks(ctx context.Context, guildID int64) (int, error)

	// Create persists a clock and fills in its ID and CreatedAt
	Create(ctx context.Context, clock *entities.Clock) error

	// GetByGuild returns every clock of a guild
	GetByGuild(ctx context.Context, guildID int64) ([]*entities.Clock, error)

	// GetAll returns every clock
	GetAll(ctx context.Context) ([]*entities.Clock, error)

	// DeleteByChannel removes every clock tied to a channel and returns how many went
	DeleteByChannel(ctx context.Context, channelID int64) (int64, error)

	// DeleteByMessage removes the clock rendered into a message
	DeleteByMessage(ctx context.Context, messageID int64) (int64, error)

	// DeleteByID removes a guild's clock by its channel id (channel clocks) or message id (message clocks)
	DeleteByID(ctx context.Context, guildID, resourceID int64) (bool, error)

	// DeleteByChannels removes a guild's clocks tied to any of the given channels
	DeleteByChannels(ctx context.Context, guildID int64, channelIDs []int64) (int64, error)
}

// UserTimezoneRepository defines the interface for personal timezones
type UserTimezoneRepository interface {
	// Upsert records a user's timezone, replacing any previous value
	Upsert(ctx context.Context, userID int64, timezone string) error

	// GetByUserID returns the user's timezone or nil when unset
	GetByUserID(ctx context.Context, userID int64) (*entities.UserTimezone, error)
}
