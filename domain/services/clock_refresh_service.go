package services

import (
	"context"
	"errors"
	"sync"

	"botoclock/domain/entities"
	"botoclock/domain/interfaces"
	"botoclock/domain/utils"
	"botoclock/events"

	log "github.com/sirupsen/logrus"
)

// clockRefreshService implements the ClockRefreshService interface
type clockRefreshService struct {
	clockRepo interfaces.ClockRepository
	platform  interfaces.ChannelPlatform
	publisher interfaces.EventPublisher

	mu           sync.Mutex
	lastRendered map[int64]string // clock id -> text last written
}

// NewClockRefreshService creates a new clock refresh service
func NewClockRefreshService(
	clockRepo interfaces.ClockRepository,
	platform interfaces.ChannelPlatform,
	publisher interfaces.EventPublisher,
) interfaces.ClockRefreshService {
	return &clockRefreshService{
		clockRepo:    clockRepo,
		platform:     platform,
		publisher:    publisher,
		lastRendered: make(map[int64]string),
	}
}

// RefreshAll re-renders every clock and writes the ones whose text changed.
// Clocks whose resource is gone are removed from the registry.
func (s *clockRefreshService) RefreshAll(ctx context.Context) (entities.RefreshSummary, error) {
	var summary entities.RefreshSummary

	clocks, err := s.clockRepo.GetAll(ctx)
	if err != nil {
		return summary, storeError("list", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{}, len(clocks))
	for _, clock := range clocks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		seen[clock.ID] = struct{}{}

		loc, err := utils.ParseTimezone(clock.Timezone)
		if err != nil {
			summary.Failed++
			continue
		}
		rendered := utils.Render(loc, clock.NameTemplate)
		if s.lastRendered[clock.ID] == rendered {
			summary.Skipped++
			continue
		}

		if clock.IsMessageClock() {
			err = s.platform.EditMessage(ctx, clock.ChannelID, *clock.MessageID, rendered)
		} else {
			err = s.platform.RenameChannel(ctx, clock.ChannelID, rendered)
		}

		switch {
		case err == nil:
			s.lastRendered[clock.ID] = rendered
			summary.Edited++
		case errors.Is(err, interfaces.ErrResourceNotFound):
			removed, delErr := s.dropVanished(ctx, clock)
			if delErr != nil {
				return summary, delErr
			}
			delete(s.lastRendered, clock.ID)
			summary.Removed += removed
		default:
			log.WithFields(log.Fields{
				"clockID":    clock.ID,
				"guildID":    clock.GuildID,
				"resourceID": clock.ResourceID(),
				"error":      err,
			}).Warn("Failed to refresh clock")
			summary.Failed++
		}
	}

	// Forget clocks deleted since the last pass
	for id := range s.lastRendered {
		if _, ok := seen[id]; !ok {
			delete(s.lastRendered, id)
		}
	}

	return summary, nil
}

func (s *clockRefreshService) dropVanished(ctx context.Context, clock *entities.Clock) (int64, error) {
	var removed int64
	var err error
	if clock.IsMessageClock() {
		removed, err = s.clockRepo.DeleteByMessage(ctx, *clock.MessageID)
	} else {
		removed, err = s.clockRepo.DeleteByChannel(ctx, clock.ChannelID)
	}
	if err != nil {
		return 0, storeError("delete", err)
	}

	if removed > 0 {
		s.publisher.Publish(ctx, events.ClockRemovedEvent{
			GuildID:    clock.GuildID,
			ResourceID: clock.ResourceID(),
			Count:      removed,
			Reason:     events.RemovalReasonRefresh,
		})
	}
	return removed, nil
}
