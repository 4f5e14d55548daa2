package interfaces

import (
	"context"
	"errors"
)

// ErrResourceNotFound is returned when a channel or message no longer exists
var ErrResourceNotFound = errors.New("resource not found")

// ChannelPlatform is the chat platform the clocks are rendered into
type ChannelPlatform interface {
	// CreateVoiceChannel creates a voice channel and returns its id
	CreateVoiceChannel(ctx context.Context, guildID int64, name string) (int64, error)

	// DenyConnect denies the Connect permission for a role on a channel
	DenyConnect(ctx context.Context, channelID, roleID int64) error

	// RenameChannel changes a channel's name
	RenameChannel(ctx context.Context, channelID int64, name string) error

	// DeleteChannel deletes a channel
	DeleteChannel(ctx context.Context, channelID int64) error

	// ChannelExists reports whether a channel is still present
	ChannelExists(ctx context.Context, channelID int64) (bool, error)

	// SendMessage posts a message and returns its id
	SendMessage(ctx context.Context, channelID int64, content string) (int64, error)

	// EditMessage replaces a message's content
	EditMessage(ctx context.Context, channelID, messageID int64, content string) error

	// DeleteMessage deletes a message
	DeleteMessage(ctx context.Context, channelID, messageID int64) error

	// MessageExists reports whether a message is still present
	MessageExists(ctx context.Context, channelID, messageID int64) (bool, error)

	// MemberVoiceChannel returns the voice channel a member is connected to, or 0
	MemberVoiceChannel(ctx context.Context, guildID, userID int64) (int64, error)
}
