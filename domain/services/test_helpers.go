package services

import (
	"testing"

	"botoclock/domain/testhelpers"
)

// Test constants for consistent test data
const (
	TestGuildID   = int64(555555555)
	TestChannelID = int64(987654321)
	TestMessageID = int64(123456789)
	TestUserID    = int64(100)
	TestMaxClocks = 5
)

// TestMocks aggregates all mocks a service test needs
type TestMocks struct {
	ClockRepo        *testhelpers.MockClockRepository
	UserTimezoneRepo *testhelpers.MockUserTimezoneRepository
	Platform         *testhelpers.MockChannelPlatform
	EventPublisher   *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		ClockRepo:        &testhelpers.MockClockRepository{},
		UserTimezoneRepo: &testhelpers.MockUserTimezoneRepository{},
		Platform:         &testhelpers.MockChannelPlatform{},
		EventPublisher:   &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.ClockRepo.AssertExpectations(t)
	m.UserTimezoneRepo.AssertExpectations(t)
	m.Platform.AssertExpectations(t)
}
