package testhelpers

import (
	"context"
	"time"

	"botoclock/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockClockService is a mock implementation of ClockService
type MockClockService struct {
	mock.Mock
}

func (m *MockClockService) CreateChannelClock(ctx context.Context, guildID int64, timezone, template string) (*entities.ClockCreation, error) {
	args := m.Called(ctx, guildID, timezone, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClockCreation), args.Error(1)
}

func (m *MockClockService) CreateMessageClock(ctx context.Context, guildID, channelID int64, timezone, template string) (*entities.ClockCreation, error) {
	args := m.Called(ctx, guildID, channelID, timezone, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClockCreation), args.Error(1)
}

func (m *MockClockService) DeleteClock(ctx context.Context, guildID, resourceID int64) (bool, error) {
	args := m.Called(ctx, guildID, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClockService) DeleteVoiceClock(ctx context.Context, guildID, userID int64) (bool, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClockService) ListClocks(ctx context.Context, guildID int64) ([]*entities.Clock, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clock), args.Error(1)
}

// MockPersonalTimezoneService is a mock implementation of PersonalTimezoneService
type MockPersonalTimezoneService struct {
	mock.Mock
}

func (m *MockPersonalTimezoneService) SetTimezone(ctx context.Context, userID int64, timezone string) (*time.Location, error) {
	args := m.Called(ctx, userID, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Location), args.Error(1)
}

func (m *MockPersonalTimezoneService) GetTimezone(ctx context.Context, userID int64) (*time.Location, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Location), args.Error(1)
}

// MockReconciliationService is a mock implementation of ReconciliationService
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) HandleChannelDeleted(ctx context.Context, guildID, channelID int64) (int64, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReconciliationService) HandleMessageDeleted(ctx context.Context, guildID, messageID int64) (int64, error) {
	args := m.Called(ctx, guildID, messageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReconciliationService) SweepGuild(ctx context.Context, guildID int64) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

// MockClockRefreshService is a mock implementation of ClockRefreshService
type MockClockRefreshService struct {
	mock.Mock
}

func (m *MockClockRefreshService) RefreshAll(ctx context.Context) (entities.RefreshSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(entities.RefreshSummary), args.Error(1)
}
