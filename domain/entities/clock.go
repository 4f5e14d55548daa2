package entities

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// ClockKind distinguishes the external resource a clock is rendered into
type ClockKind string

const (
	ClockKindChannel ClockKind = "channel"
	ClockKindMessage ClockKind = "message"
)

// Clock is a registry row pairing a timezone and template with a channel or message
type Clock struct {
	ID           int64     `db:"id"`
	ChannelID    int64     `db:"channel_id"` // Voice channel for channel clocks, hosting text channel for message clocks
	MessageID    *int64    `db:"message_id"` // Nullable - only set for message clocks
	GuildID      int64     `db:"guild_id"`
	Timezone     string    `db:"timezone"`
	NameTemplate string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
}

// Kind reports whether the clock lives in a channel name or a standing message
func (c *Clock) Kind() ClockKind {
	if c.MessageID != nil {
		return ClockKindMessage
	}
	return ClockKindChannel
}

// IsMessageClock checks if the clock is rendered into a message
func (c *Clock) IsMessageClock() bool {
	return c.Kind() == ClockKindMessage
}

// ResourceID returns the id of the resource the clock renders into
func (c *Clock) ResourceID() int64 {
	if c.MessageID != nil {
		return *c.MessageID
	}
	return c.ChannelID
}

// Validate checks the row invariants before it is persisted
func (c *Clock) Validate() error {
	if c.GuildID <= 0 {
		return errors.New("guild id is required")
	}
	if c.ChannelID <= 0 {
		return errors.New("channel id is required")
	}
	if c.MessageID != nil && *c.MessageID <= 0 {
		return errors.New("message id must be positive when set")
	}
	if strings.TrimSpace(c.Timezone) == "" {
		return errors.New("timezone is required")
	}
	if c.NameTemplate == "" {
		return errors.New("name template is required")
	}
	if utf8.RuneCountInString(c.NameTemplate) > 64 {
		return errors.New("name template exceeds 64 characters")
	}
	return nil
}

// ClockCreation is the outcome of a successful create command
type ClockCreation struct {
	Clock    *Clock
	Rendered string // Text written into the channel name or message
	// RestrictErr is set when the channel was created but the Connect
	// restriction could not be applied. The clock is still registered.
	RestrictErr error
}

// IsPartial reports whether the clock was created without its restriction
func (c *ClockCreation) IsPartial() bool {
	return c.RestrictErr != nil
}
