package clocks

import (
	"context"
	"errors"
	"testing"

	"botoclock/bot/common"
	"botoclock/domain/entities"
	"botoclock/domain/services"
	"botoclock/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID   = int64(111)
	testChannelID = int64(222)
	testUserID    = int64(333)
	testMaxClocks = 5
)

type testSetup struct {
	repo           *testhelpers.MockClockRepository
	platform       *testhelpers.MockChannelPlatform
	publisher      *testhelpers.MockEventPublisher
	reconciliation *testhelpers.MockReconciliationService
	feature        *Feature
}

func newTestSetup() *testSetup {
	s := &testSetup{
		repo:           &testhelpers.MockClockRepository{},
		platform:       &testhelpers.MockChannelPlatform{},
		publisher:      &testhelpers.MockEventPublisher{},
		reconciliation: &testhelpers.MockReconciliationService{},
	}
	clockService := services.NewClockService(s.repo, s.platform, s.publisher, testMaxClocks)
	s.feature = NewFeature(clockService, s.reconciliation)
	return s
}

func invocation(name, rawArgs string, args ...string) *common.Invocation {
	return &common.Invocation{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		AuthorID:  testUserID,
		Name:      name,
		Args:      args,
		RawArgs:   rawArgs,
	}
}

func TestHandleNew_QuotaReached(t *testing.T) {
	t.Parallel()
	s := newTestSetup()
	s.repo.On("CountChannelClocks", mock.Anything, testGuildID).Return(testMaxClocks, nil)

	reply, err := s.feature.HandleNew(context.Background(), invocation("new", "UTC", "UTC"))
	require.Error(t, err)
	assert.Nil(t, reply)

	botErr := common.FromServiceError(err)
	assert.False(t, botErr.System)
	assert.Contains(t, botErr.UserMessage, "5")

	s.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	s.platform.AssertNotCalled(t, "CreateVoiceChannel", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, s.publisher.Events())
}

func TestHandleNew(t *testing.T) {
	t.Parallel()

	t.Run("template keeps its spacing", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()
		s.repo.On("CountChannelClocks", mock.Anything, testGuildID).Return(4, nil)
		s.platform.On("CreateVoiceChannel", mock.Anything, testGuildID, mock.Anything).Return(testChannelID, nil)
		s.platform.On("DenyConnect", mock.Anything, testChannelID, testGuildID).Return(nil)
		s.repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Clock) bool {
			return c.NameTemplate == "%H o'clock  in Oslo"
		})).Return(nil)

		reply, err := s.feature.HandleNew(context.Background(),
			invocation("new", "Europe/Oslo %H o'clock  in Oslo", "Europe/Oslo", "%H", "o'clock", "in", "Oslo"))
		require.NoError(t, err)
		require.NotNil(t, reply)
		assert.Contains(t, reply.Content, "✅")
		s.repo.AssertExpectations(t)
	})

	t.Run("partial success warns", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()
		s.repo.On("CountChannelClocks", mock.Anything, testGuildID).Return(0, nil)
		s.platform.On("CreateVoiceChannel", mock.Anything, testGuildID, mock.Anything).Return(testChannelID, nil)
		s.platform.On("DenyConnect", mock.Anything, testChannelID, testGuildID).Return(errors.New("403"))
		s.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		reply, err := s.feature.HandleNew(context.Background(), invocation("new", "UTC", "UTC"))
		require.NoError(t, err)
		assert.Contains(t, reply.Content, "⚠️")
	})

	t.Run("missing timezone", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()

		_, err := s.feature.HandleNew(context.Background(), invocation("new", ""))
		assert.ErrorIs(t, err, services.ErrMissingArgument)
		s.repo.AssertNotCalled(t, "CountChannelClocks", mock.Anything, mock.Anything)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()

		_, err := s.feature.HandleNew(context.Background(), invocation("new", "Mars/Olympus", "Mars/Olympus"))
		assert.ErrorIs(t, err, services.ErrInvalidTimezone)
		s.repo.AssertNotCalled(t, "CountChannelClocks", mock.Anything, mock.Anything)
	})
}

func TestHandleSpace(t *testing.T) {
	t.Parallel()
	s := newTestSetup()
	messageID := int64(444)
	s.platform.On("SendMessage", mock.Anything, testChannelID, mock.Anything).Return(messageID, nil)
	s.repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Clock) bool {
		return c.MessageID != nil && *c.MessageID == messageID && c.ChannelID == testChannelID
	})).Return(nil)

	reply, err := s.feature.HandleSpace(context.Background(), invocation("space", "Asia/Kolkata", "Asia/Kolkata"))
	require.NoError(t, err)
	assert.Nil(t, reply)
	s.repo.AssertExpectations(t)
	s.platform.AssertExpectations(t)
}

func TestHandleDelete(t *testing.T) {
	t.Parallel()

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()

		_, err := s.feature.HandleDelete(context.Background(), invocation("delete", "abc", "abc"))
		var botErr *common.BotError
		require.ErrorAs(t, err, &botErr)
		assert.False(t, botErr.System)
		s.repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()
		s.repo.On("GetByGuild", mock.Anything, testGuildID).Return([]*entities.Clock{}, nil)
		s.repo.On("DeleteByID", mock.Anything, testGuildID, int64(999)).Return(false, nil)

		_, err := s.feature.HandleDelete(context.Background(), invocation("delete", "999", "999"))
		var botErr *common.BotError
		require.ErrorAs(t, err, &botErr)
		assert.NotContains(t, botErr.UserMessage, "999")
	})

	t.Run("voice channel clock", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()
		clock := &entities.Clock{ID: 1, ChannelID: testChannelID, GuildID: testGuildID, Timezone: "UTC", NameTemplate: "%H"}
		s.platform.On("MemberVoiceChannel", mock.Anything, testGuildID, testUserID).Return(testChannelID, nil)
		s.repo.On("GetByGuild", mock.Anything, testGuildID).Return([]*entities.Clock{clock}, nil)
		s.repo.On("DeleteByID", mock.Anything, testGuildID, testChannelID).Return(true, nil)
		s.platform.On("DeleteChannel", mock.Anything, testChannelID).Return(nil)

		reply, err := s.feature.HandleDelete(context.Background(), invocation("delete", ""))
		require.NoError(t, err)
		assert.Contains(t, reply.Content, "connected to")
		s.reconciliation.AssertNotCalled(t, "SweepGuild", mock.Anything, mock.Anything)
	})

	t.Run("falls back to sweep", func(t *testing.T) {
		t.Parallel()
		s := newTestSetup()
		s.platform.On("MemberVoiceChannel", mock.Anything, testGuildID, testUserID).Return(int64(0), nil)
		s.reconciliation.On("SweepGuild", mock.Anything, testGuildID).Return(int64(2), nil)

		reply, err := s.feature.HandleDelete(context.Background(), invocation("delete", ""))
		require.NoError(t, err)
		assert.Contains(t, reply.Content, "2")
		s.reconciliation.AssertExpectations(t)
	})
}

func TestHandleList(t *testing.T) {
	t.Parallel()
	s := newTestSetup()
	messageID := int64(444)
	s.repo.On("GetByGuild", mock.Anything, testGuildID).Return([]*entities.Clock{
		{ID: 1, ChannelID: 10, GuildID: testGuildID, Timezone: "UTC", NameTemplate: "%H"},
		{ID: 2, ChannelID: 20, MessageID: &messageID, GuildID: testGuildID, Timezone: "Asia/Tokyo", NameTemplate: "%H"},
	}, nil)

	reply, err := s.feature.HandleList(context.Background(), invocation("list", ""))
	require.NoError(t, err)
	require.NotNil(t, reply.Embed)
	assert.Contains(t, reply.Embed.Description, "`10` <#10> - UTC")
	assert.Contains(t, reply.Embed.Description, "`444` message in <#20> - Asia/Tokyo")
}
