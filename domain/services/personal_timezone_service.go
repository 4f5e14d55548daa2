package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"botoclock/domain/interfaces"
	"botoclock/domain/utils"

	log "github.com/sirupsen/logrus"
)

// personalTimezoneService implements the PersonalTimezoneService interface
type personalTimezoneService struct {
	userTimezoneRepo interfaces.UserTimezoneRepository
}

// NewPersonalTimezoneService creates a new personal timezone service
func NewPersonalTimezoneService(userTimezoneRepo interfaces.UserTimezoneRepository) interfaces.PersonalTimezoneService {
	return &personalTimezoneService{
		userTimezoneRepo: userTimezoneRepo,
	}
}

// SetTimezone validates timezone and stores it for the user
func (s *personalTimezoneService) SetTimezone(ctx context.Context, userID int64, timezone string) (*time.Location, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return nil, fmt.Errorf("%w: timezone", ErrMissingArgument)
	}

	loc, err := utils.ParseTimezone(timezone)
	if err != nil {
		return nil, err
	}

	if err := s.userTimezoneRepo.Upsert(ctx, userID, loc.String()); err != nil {
		return nil, storeError("upsert", err)
	}

	return loc, nil
}

// GetTimezone returns the user's timezone, or nil when they never set one
func (s *personalTimezoneService) GetTimezone(ctx context.Context, userID int64) (*time.Location, error) {
	tz, err := s.userTimezoneRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("get", err)
	}
	if tz == nil {
		return nil, nil
	}

	loc, err := utils.ParseTimezone(tz.Timezone)
	if err != nil {
		// Rows are validated on write; this only happens if the tz database lost a zone
		log.WithFields(log.Fields{
			"userID":   userID,
			"timezone": tz.Timezone,
		}).Warn("Stored personal timezone no longer resolves")
		return nil, nil
	}
	return loc, nil
}
