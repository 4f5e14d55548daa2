package interfaces

import (
	"context"
	"time"

	"botoclock/domain/entities"
	"botoclock/events"
)

// EventPublisher hands events to in-process subscribers
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// ExternalEventPublisher ships events to consumers outside the process
type ExternalEventPublisher interface {
	Publish(event events.Event) error
}

// ClockService creates and deletes clocks on behalf of guild members
type ClockService interface {
	// CreateChannelClock creates a voice channel clock after checking the guild quota
	CreateChannelClock(ctx context.Context, guildID int64, timezone, template string) (*entities.ClockCreation, error)

	// CreateMessageClock posts a message clock in channelID after checking the guild quota
	CreateMessageClock(ctx context.Context, guildID, channelID int64, timezone, template string) (*entities.ClockCreation, error)

	// DeleteClock removes a guild's clock by channel or message id, and its platform resource
	DeleteClock(ctx context.Context, guildID, resourceID int64) (bool, error)

	// DeleteVoiceClock removes the clock channel the user is connected to, if it is one
	DeleteVoiceClock(ctx context.Context, guildID, userID int64) (bool, error)

	// ListClocks returns the clocks of a guild
	ListClocks(ctx context.Context, guildID int64) ([]*entities.Clock, error)
}

// PersonalTimezoneService manages the timezones users register for themselves
type PersonalTimezoneService interface {
	// SetTimezone validates and stores a user's timezone
	SetTimezone(ctx context.Context, userID int64, timezone string) (*time.Location, error)

	// GetTimezone returns a user's timezone or nil when unset
	GetTimezone(ctx context.Context, userID int64) (*time.Location, error)
}

// ReconciliationService keeps the registry consistent with the platform
type ReconciliationService interface {
	// HandleChannelDeleted drops every clock tied to a deleted channel
	HandleChannelDeleted(ctx context.Context, guildID, channelID int64) (int64, error)

	// HandleMessageDeleted drops the clock rendered into a deleted message
	HandleMessageDeleted(ctx context.Context, guildID, messageID int64) (int64, error)

	// SweepGuild drops clocks whose channel or message no longer exists
	SweepGuild(ctx context.Context, guildID int64) (int64, error)
}

// ClockRefreshService re-renders every registered clock
type ClockRefreshService interface {
	RefreshAll(ctx context.Context) (entities.RefreshSummary, error)
}
