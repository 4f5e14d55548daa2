package services

import (
	"context"

	"botoclock/domain/interfaces"
	"botoclock/events"

	log "github.com/sirupsen/logrus"
)

// reconciliationService implements the ReconciliationService interface
type reconciliationService struct {
	clockRepo interfaces.ClockRepository
	platform  interfaces.ChannelPlatform
	publisher interfaces.EventPublisher
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	clockRepo interfaces.ClockRepository,
	platform interfaces.ChannelPlatform,
	publisher interfaces.EventPublisher,
) interfaces.ReconciliationService {
	return &reconciliationService{
		clockRepo: clockRepo,
		platform:  platform,
		publisher: publisher,
	}
}

// HandleChannelDeleted removes every clock tied to channelID. Deleting a
// channel that holds no clock is a no-op.
func (s *reconciliationService) HandleChannelDeleted(ctx context.Context, guildID, channelID int64) (int64, error) {
	deleted, err := s.clockRepo.DeleteByChannel(ctx, channelID)
	if err != nil {
		return 0, storeError("delete_by_channel", err)
	}

	s.removed(ctx, guildID, channelID, deleted, events.RemovalReasonChannelDeleted)
	return deleted, nil
}

// HandleMessageDeleted removes the clock rendered into messageID
func (s *reconciliationService) HandleMessageDeleted(ctx context.Context, guildID, messageID int64) (int64, error) {
	deleted, err := s.clockRepo.DeleteByMessage(ctx, messageID)
	if err != nil {
		return 0, storeError("delete_by_message", err)
	}

	s.removed(ctx, guildID, messageID, deleted, events.RemovalReasonMessageDeleted)
	return deleted, nil
}

// SweepGuild removes the guild's clocks whose channel or message has vanished.
// Clocks whose existence cannot be determined are kept.
func (s *reconciliationService) SweepGuild(ctx context.Context, guildID int64) (int64, error) {
	clocks, err := s.clockRepo.GetByGuild(ctx, guildID)
	if err != nil {
		return 0, storeError("list", err)
	}

	var goneChannels []int64
	var removed int64
	for _, clock := range clocks {
		var exists bool
		var err error
		if clock.IsMessageClock() {
			exists, err = s.platform.MessageExists(ctx, clock.ChannelID, *clock.MessageID)
		} else {
			exists, err = s.platform.ChannelExists(ctx, clock.ChannelID)
		}
		if err != nil {
			log.WithFields(log.Fields{
				"guildID":    guildID,
				"resourceID": clock.ResourceID(),
				"error":      err,
			}).Warn("Could not check clock resource, keeping it")
			continue
		}
		if exists {
			continue
		}

		if clock.IsMessageClock() {
			n, err := s.clockRepo.DeleteByMessage(ctx, *clock.MessageID)
			if err != nil {
				return removed, storeError("delete_by_message", err)
			}
			removed += n
			continue
		}
		goneChannels = append(goneChannels, clock.ChannelID)
	}

	n, err := s.clockRepo.DeleteByChannels(ctx, guildID, goneChannels)
	if err != nil {
		return removed, storeError("delete_by_channels", err)
	}
	removed += n

	s.removed(ctx, guildID, 0, removed, events.RemovalReasonSweep)
	return removed, nil
}

func (s *reconciliationService) removed(ctx context.Context, guildID, resourceID, count int64, reason string) {
	if count == 0 {
		return
	}

	log.WithFields(log.Fields{
		"guildID":    guildID,
		"resourceID": resourceID,
		"count":      count,
		"reason":     reason,
	}).Info("Removed clocks from registry")

	s.publisher.Publish(ctx, events.ClockRemovedEvent{
		GuildID:    guildID,
		ResourceID: resourceID,
		Count:      count,
		Reason:     reason,
	})
}

// SubscribeReconciliation wires the platform deletion events to the service
func SubscribeReconciliation(bus *events.Bus, service interfaces.ReconciliationService) {
	bus.Subscribe(events.EventTypeChannelDeleted, func(ctx context.Context, event events.Event) error {
		deleted, ok := event.(events.ChannelDeletedEvent)
		if !ok {
			return nil
		}
		_, err := service.HandleChannelDeleted(ctx, deleted.GuildID, deleted.ChannelID)
		return err
	})

	bus.Subscribe(events.EventTypeMessageDeleted, func(ctx context.Context, event events.Event) error {
		deleted, ok := event.(events.MessageDeletedEvent)
		if !ok {
			return nil
		}
		_, err := service.HandleMessageDeleted(ctx, deleted.GuildID, deleted.MessageID)
		return err
	})
}
