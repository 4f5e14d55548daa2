package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"botoclock/domain/entities"
	"botoclock/domain/interfaces"
	"botoclock/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClockRefreshService_RefreshAll(t *testing.T) {
	t.Parallel()

	messageID := TestMessageID
	channelClock := &entities.Clock{ID: 1, ChannelID: TestChannelID, GuildID: TestGuildID, Timezone: "UTC", NameTemplate: "%Y"}
	messageClock := &entities.Clock{ID: 2, ChannelID: 777, MessageID: &messageID, GuildID: TestGuildID, Timezone: "Asia/Tokyo", NameTemplate: "%Y"}

	t.Run("edits every clock then skips unchanged text", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := NewClockRefreshService(mocks.ClockRepo, mocks.Platform, mocks.EventPublisher)

		mocks.ClockRepo.On("GetAll", mock.Anything).Return([]*entities.Clock{channelClock, messageClock}, nil)
		mocks.Platform.On("RenameChannel", mock.Anything, TestChannelID, mock.AnythingOfType("string")).Return(nil).Once()
		mocks.Platform.On("EditMessage", mock.Anything, int64(777), TestMessageID, mock.AnythingOfType("string")).Return(nil).Once()

		summary, err := svc.RefreshAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entities.RefreshSummary{Edited: 2}, summary)

		// The year does not change between passes
		summary, err = svc.RefreshAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entities.RefreshSummary{Skipped: 2}, summary)
		mocks.AssertAllExpectations(t)
	})

	t.Run("vanished resources are removed from the registry", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := NewClockRefreshService(mocks.ClockRepo, mocks.Platform, mocks.EventPublisher)

		mocks.ClockRepo.On("GetAll", mock.Anything).Return([]*entities.Clock{channelClock, messageClock}, nil)
		mocks.Platform.On("RenameChannel", mock.Anything, TestChannelID, mock.Anything).
			Return(fmt.Errorf("channel %d: %w", TestChannelID, interfaces.ErrResourceNotFound))
		mocks.Platform.On("EditMessage", mock.Anything, int64(777), TestMessageID, mock.Anything).
			Return(errors.New("503 service unavailable"))
		mocks.ClockRepo.On("DeleteByChannel", mock.Anything, TestChannelID).Return(int64(1), nil)

		summary, err := svc.RefreshAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entities.RefreshSummary{Removed: 1, Failed: 1}, summary)
		assert.Equal(t, 2, summary.Total())

		removed := mocks.EventPublisher.OfType(events.EventTypeClockRemoved)
		require.Len(t, removed, 1)
		assert.Equal(t, events.RemovalReasonRefresh, removed[0].(events.ClockRemovedEvent).Reason)
		mocks.AssertAllExpectations(t)
	})

	t.Run("store failure aborts the pass", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := NewClockRefreshService(mocks.ClockRepo, mocks.Platform, mocks.EventPublisher)

		mocks.ClockRepo.On("GetAll", mock.Anything).Return(nil, errors.New("pool exhausted"))

		_, err := svc.RefreshAll(context.Background())
		var storeErr *StoreError
		assert.ErrorAs(t, err, &storeErr)
	})

	t.Run("cancelled context stops early", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		svc := NewClockRefreshService(mocks.ClockRepo, mocks.Platform, mocks.EventPublisher)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		mocks.ClockRepo.On("GetAll", mock.Anything).Return([]*entities.Clock{channelClock}, nil)

		_, err := svc.RefreshAll(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		mocks.Platform.AssertNotCalled(t, "RenameChannel", mock.Anything, mock.Anything, mock.Anything)
	})
}
