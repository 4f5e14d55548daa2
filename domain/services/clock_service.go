package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"botoclock/domain/entities"
	"botoclock/domain/interfaces"
	"botoclock/domain/utils"
	"botoclock/events"

	log "github.com/sirupsen/logrus"
)

// clockService implements the ClockService interface
type clockService struct {
	clockRepo   interfaces.ClockRepository
	provisioner *Provisioner
	platform    interfaces.ChannelPlatform
	publisher   interfaces.EventPublisher
	maxClocks   int
}

// NewClockService creates a new clock service limited to maxClocks channel clocks per guild
func NewClockService(
	clockRepo interfaces.ClockRepository,
	platform interfaces.ChannelPlatform,
	publisher interfaces.EventPublisher,
	maxClocks int,
) interfaces.ClockService {
	return &clockService{
		clockRepo:   clockRepo,
		provisioner: NewProvisioner(platform),
		platform:    platform,
		publisher:   publisher,
		maxClocks:   maxClocks,
	}
}

// CreateChannelClock creates a voice channel showing the time in timezone
func (s *clockService) CreateChannelClock(ctx context.Context, guildID int64, timezone, template string) (*entities.ClockCreation, error) {
	loc, resolved, err := prepare(timezone, template)
	if err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx, guildID); err != nil {
		return nil, err
	}

	rendered := utils.Render(loc, resolved)
	provision, err := s.provisioner.ProvisionChannel(ctx, guildID, rendered)
	if err != nil {
		return nil, err
	}

	clock := &entities.Clock{
		ChannelID:    provision.ChannelID,
		GuildID:      guildID,
		Timezone:     loc.String(),
		NameTemplate: resolved,
	}
	if err := s.persist(ctx, clock); err != nil {
		return nil, err
	}

	return &entities.ClockCreation{
		Clock:       clock,
		Rendered:    rendered,
		RestrictErr: provision.RestrictErr,
	}, nil
}

// CreateMessageClock posts a message in channelID showing the time in timezone.
// Message clocks do not count towards the channel clock quota.
func (s *clockService) CreateMessageClock(ctx context.Context, guildID, channelID int64, timezone, template string) (*entities.ClockCreation, error) {
	loc, resolved, err := prepare(timezone, template)
	if err != nil {
		return nil, err
	}

	rendered := utils.Render(loc, resolved)
	messageID, err := s.provisioner.ProvisionMessage(ctx, channelID, rendered)
	if err != nil {
		return nil, err
	}

	clock := &entities.Clock{
		ChannelID:    channelID,
		MessageID:    &messageID,
		GuildID:      guildID,
		Timezone:     loc.String(),
		NameTemplate: resolved,
	}
	if err := s.persist(ctx, clock); err != nil {
		return nil, err
	}

	return &entities.ClockCreation{Clock: clock, Rendered: rendered}, nil
}

// prepare validates the timezone and resolves the template
func prepare(timezone, template string) (*time.Location, string, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return nil, "", fmt.Errorf("%w: timezone", ErrMissingArgument)
	}

	loc, err := utils.ParseTimezone(timezone)
	if err != nil {
		return nil, "", err
	}
	return loc, utils.ResolveTemplate(template), nil
}

// checkQuota runs before any platform call so a rejected request has no side effects
func (s *clockService) checkQuota(ctx context.Context, guildID int64) error {
	count, err := s.clockRepo.CountChannelClocks(ctx, guildID)
	if err != nil {
		return storeError("count", err)
	}
	if !AllowCreation(count, s.maxClocks) {
		return &QuotaError{Limit: s.maxClocks}
	}
	return nil
}

// persist writes the registry row. When the insert fails the freshly created
// resource is removed again so it does not linger untracked.
func (s *clockService) persist(ctx context.Context, clock *entities.Clock) error {
	if err := s.clockRepo.Create(ctx, clock); err != nil {
		log.WithFields(log.Fields{
			"guildID":    clock.GuildID,
			"resourceID": clock.ResourceID(),
			"kind":       clock.Kind(),
			"error":      err,
		}).Error("Failed to register clock, removing its resource")
		_ = s.provisioner.Retract(ctx, clock)
		return storeError("create", err)
	}

	s.publisher.Publish(ctx, events.ClockCreatedEvent{
		ClockID:   clock.ID,
		GuildID:   clock.GuildID,
		ChannelID: clock.ChannelID,
		MessageID: clock.MessageID,
		Timezone:  clock.Timezone,
		Kind:      string(clock.Kind()),
	})
	return nil
}

// DeleteClock removes a guild's clock and then its channel or message
func (s *clockService) DeleteClock(ctx context.Context, guildID, resourceID int64) (bool, error) {
	clocks, err := s.clockRepo.GetByGuild(ctx, guildID)
	if err != nil {
		return false, storeError("list", err)
	}

	var target *entities.Clock
	for _, c := range clocks {
		if c.ResourceID() == resourceID {
			target = c
			break
		}
	}

	removed, err := s.clockRepo.DeleteByID(ctx, guildID, resourceID)
	if err != nil {
		return false, storeError("delete", err)
	}
	if !removed {
		return false, nil
	}

	if target != nil {
		_ = s.provisioner.Retract(ctx, target)
	}

	s.publisher.Publish(ctx, events.ClockRemovedEvent{
		GuildID:    guildID,
		ResourceID: resourceID,
		Count:      1,
		Reason:     events.RemovalReasonExplicit,
	})
	return true, nil
}

// DeleteVoiceClock deletes the clock channel the user is sitting in.
// It reports false when the user is not in a voice channel or the channel is not a clock.
func (s *clockService) DeleteVoiceClock(ctx context.Context, guildID, userID int64) (bool, error) {
	channelID, err := s.platform.MemberVoiceChannel(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to look up voice state: %w", err)
	}
	if channelID == 0 {
		return false, nil
	}

	return s.DeleteClock(ctx, guildID, channelID)
}

// ListClocks returns the clocks of a guild
func (s *clockService) ListClocks(ctx context.Context, guildID int64) ([]*entities.Clock, error) {
	clocks, err := s.clockRepo.GetByGuild(ctx, guildID)
	if err != nil {
		return nil, storeError("list", err)
	}
	return clocks, nil
}
