package services

import (
	"context"
	"fmt"

	"botoclock/domain/entities"
	"botoclock/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ChannelProvision is the result of creating a clock channel
type ChannelProvision struct {
	ChannelID   int64
	RestrictErr error // Set when the channel exists but members can still connect
}

// Provisioner creates and removes the platform resources clocks render into
type Provisioner struct {
	platform interfaces.ChannelPlatform
}

// NewProvisioner creates a new provisioner
func NewProvisioner(platform interfaces.ChannelPlatform) *Provisioner {
	return &Provisioner{platform: platform}
}

// ProvisionChannel creates a voice channel named renderedName and denies
// Connect for the guild's @everyone role, whose id equals the guild id.
// A failed restriction is reported in the result, not as an error.
func (p *Provisioner) ProvisionChannel(ctx context.Context, guildID int64, renderedName string) (*ChannelProvision, error) {
	channelID, err := p.platform.CreateVoiceChannel(ctx, guildID, renderedName)
	if err != nil {
		return nil, &ProvisionError{Resource: string(entities.ClockKindChannel), Err: err}
	}

	provision := &ChannelProvision{ChannelID: channelID}
	if err := p.platform.DenyConnect(ctx, channelID, guildID); err != nil {
		log.WithFields(log.Fields{
			"guildID":   guildID,
			"channelID": channelID,
			"error":     err,
		}).Warn("Clock channel created but connect permission could not be restricted")
		provision.RestrictErr = fmt.Errorf("failed to restrict channel %d: %w", channelID, err)
	}

	return provision, nil
}

// ProvisionMessage posts content into channelID and returns the message id
func (p *Provisioner) ProvisionMessage(ctx context.Context, channelID int64, content string) (int64, error) {
	messageID, err := p.platform.SendMessage(ctx, channelID, content)
	if err != nil {
		return 0, &ProvisionError{Resource: string(entities.ClockKindMessage), Err: err}
	}
	return messageID, nil
}

// Retract removes the resource behind a clock. It is best effort: failures
// are logged and reported but callers usually carry on.
func (p *Provisioner) Retract(ctx context.Context, clock *entities.Clock) error {
	var err error
	if clock.IsMessageClock() {
		err = p.platform.DeleteMessage(ctx, clock.ChannelID, *clock.MessageID)
	} else {
		err = p.platform.DeleteChannel(ctx, clock.ChannelID)
	}

	if err != nil {
		log.WithFields(log.Fields{
			"guildID":    clock.GuildID,
			"resourceID": clock.ResourceID(),
			"kind":       clock.Kind(),
			"error":      err,
		}).Warn("Failed to remove clock resource")
		return fmt.Errorf("failed to remove %s %d: %w", clock.Kind(), clock.ResourceID(), err)
	}
	return nil
}
