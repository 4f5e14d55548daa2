package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"botoclock/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DiscordPlatform implements interfaces.ChannelPlatform over a discordgo session.
// Renames and edits share one limiter since Discord throttles channel renames hard.
type DiscordPlatform struct {
	session *discordgo.Session
	edits   *rate.Limiter
}

// NewDiscordPlatform creates a platform adapter allowing editsPerSecond renames/edits
func NewDiscordPlatform(session *discordgo.Session, editsPerSecond float64) *DiscordPlatform {
	if editsPerSecond <= 0 {
		editsPerSecond = 1
	}
	return &DiscordPlatform{
		session: session,
		edits:   rate.NewLimiter(rate.Limit(editsPerSecond), 1),
	}
}

// CreateVoiceChannel creates a voice channel and returns its id
func (p *DiscordPlatform) CreateVoiceChannel(ctx context.Context, guildID int64, name string) (int64, error) {
	channel, err := p.session.GuildChannelCreateComplex(formatID(guildID), discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildVoice,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to create voice channel in guild %d: %w", guildID, translate(err))
	}
	return parseID(channel.ID)
}

// DenyConnect denies the Connect permission for a role on a channel
func (p *DiscordPlatform) DenyConnect(ctx context.Context, channelID, roleID int64) error {
	err := p.session.ChannelPermissionSet(
		formatID(channelID),
		formatID(roleID),
		discordgo.PermissionOverwriteTypeRole,
		0,
		discordgo.PermissionVoiceConnect,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to set permission overwrite on channel %d: %w", channelID, translate(err))
	}
	return nil
}

// RenameChannel changes a channel's name, skipping the call when the cached name already matches
func (p *DiscordPlatform) RenameChannel(ctx context.Context, channelID int64, name string) error {
	if cached, err := p.session.State.Channel(formatID(channelID)); err == nil && cached.Name == name {
		return nil
	}

	if err := p.edits.Wait(ctx); err != nil {
		return err
	}

	_, err := p.session.ChannelEdit(formatID(channelID), &discordgo.ChannelEdit{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to rename channel %d: %w", channelID, translate(err))
	}
	return nil
}

// DeleteChannel deletes a channel
func (p *DiscordPlatform) DeleteChannel(ctx context.Context, channelID int64) error {
	if _, err := p.session.ChannelDelete(formatID(channelID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete channel %d: %w", channelID, translate(err))
	}
	return nil
}

// ChannelExists checks the state cache first and falls back to the REST API
func (p *DiscordPlatform) ChannelExists(ctx context.Context, channelID int64) (bool, error) {
	if _, err := p.session.State.Channel(formatID(channelID)); err == nil {
		return true, nil
	}

	_, err := p.session.Channel(formatID(channelID), discordgo.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	if errors.Is(translate(err), interfaces.ErrResourceNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to fetch channel %d: %w", channelID, err)
}

// SendMessage posts a message and returns its id
func (p *DiscordPlatform) SendMessage(ctx context.Context, channelID int64, content string) (int64, error) {
	msg, err := p.session.ChannelMessageSend(formatID(channelID), content, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to send message to channel %d: %w", channelID, translate(err))
	}
	return parseID(msg.ID)
}

// EditMessage replaces a message's content
func (p *DiscordPlatform) EditMessage(ctx context.Context, channelID, messageID int64, content string) error {
	if err := p.edits.Wait(ctx); err != nil {
		return err
	}

	_, err := p.session.ChannelMessageEdit(formatID(channelID), formatID(messageID), content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit message %d: %w", messageID, translate(err))
	}
	return nil
}

// DeleteMessage deletes a message
func (p *DiscordPlatform) DeleteMessage(ctx context.Context, channelID, messageID int64) error {
	if err := p.session.ChannelMessageDelete(formatID(channelID), formatID(messageID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, translate(err))
	}
	return nil
}

// MessageExists asks the REST API whether a message is still there
func (p *DiscordPlatform) MessageExists(ctx context.Context, channelID, messageID int64) (bool, error) {
	_, err := p.session.ChannelMessage(formatID(channelID), formatID(messageID), discordgo.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	if errors.Is(translate(err), interfaces.ErrResourceNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to fetch message %d: %w", messageID, err)
}

// MemberVoiceChannel returns the voice channel a member is in, or 0.
// Voice states only come from the gateway cache.
func (p *DiscordPlatform) MemberVoiceChannel(ctx context.Context, guildID, userID int64) (int64, error) {
	vs, err := p.session.State.VoiceState(formatID(guildID), formatID(userID))
	if errors.Is(err, discordgo.ErrStateNotFound) || (err == nil && vs.ChannelID == "") {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read voice state: %w", err)
	}
	return parseID(vs.ChannelID)
}

// translate maps Discord's "unknown channel/message" responses onto ErrResourceNotFound
func translate(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage:
			return fmt.Errorf("%w: %v", interfaces.ErrResourceNotFound, err)
		}
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", interfaces.ErrResourceNotFound, err)
	}

	log.WithError(err).Debug("Discord REST call failed")
	return err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	return parsed, nil
}
