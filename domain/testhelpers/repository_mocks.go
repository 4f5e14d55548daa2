package testhelpers

import (
	"context"
	"sync"

	"botoclock/domain/entities"
	"botoclock/events"

	"github.com/stretchr/testify/mock"
)

// MockClockRepository is a mock implementation of ClockRepository
type MockClockRepository struct {
	mock.Mock
}

func (m *MockClockRepository) CountChannelClocks(ctx context.Context, guildID int64) (int, error) {
	args := m.Called(ctx, guildID)
	return args.Int(0), args.Error(1)
}

func (m *MockClockRepository) Create(ctx context.Context, clock *entities.Clock) error {
	args := m.Called(ctx, clock)
	return args.Error(0)
}

func (m *MockClockRepository) GetByGuild(ctx context.Context, guildID int64) ([]*entities.Clock, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clock), args.Error(1)
}

func (m *MockClockRepository) GetAll(ctx context.Context) ([]*entities.Clock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clock), args.Error(1)
}

func (m *MockClockRepository) DeleteByChannel(ctx context.Context, channelID int64) (int64, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClockRepository) DeleteByMessage(ctx context.Context, messageID int64) (int64, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClockRepository) DeleteByID(ctx context.Context, guildID, resourceID int64) (bool, error) {
	args := m.Called(ctx, guildID, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClockRepository) DeleteByChannels(ctx context.Context, guildID int64, channelIDs []int64) (int64, error) {
	args := m.Called(ctx, guildID, channelIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserTimezoneRepository is a mock implementation of UserTimezoneRepository
type MockUserTimezoneRepository struct {
	mock.Mock
}

func (m *MockUserTimezoneRepository) Upsert(ctx context.Context, userID int64, timezone string) error {
	args := m.Called(ctx, userID, timezone)
	return args.Error(0)
}

func (m *MockUserTimezoneRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserTimezone, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserTimezone), args.Error(1)
}

// MockEventPublisher records published events instead of dispatching them
type MockEventPublisher struct {
	mu        sync.Mutex
	Published []events.Event
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, event)
}

// Events returns a copy of everything published so far
func (m *MockEventPublisher) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.Event, len(m.Published))
	copy(out, m.Published)
	return out
}

// OfType returns the published events of one type
func (m *MockEventPublisher) OfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range m.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
