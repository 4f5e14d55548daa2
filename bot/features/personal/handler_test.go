package personal

import (
	"context"
	"errors"
	"testing"
	"time"

	"botoclock/bot/common"
	"botoclock/domain/entities"
	"botoclock/domain/services"
	"botoclock/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID = int64(111)
	testUserID  = int64(333)
	otherUserID = int64(444)
)

var fixedNow = time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC)

func newTestFeature() (*Feature, *testhelpers.MockUserTimezoneRepository) {
	repo := &testhelpers.MockUserTimezoneRepository{}
	f := NewFeature(services.NewPersonalTimezoneService(repo))
	f.now = func() time.Time { return fixedNow }
	return f, repo
}

func userTimezone(userID int64, timezone string) *entities.UserTimezone {
	return &entities.UserTimezone{UserID: userID, Timezone: timezone, UpdatedAt: fixedNow}
}

func TestHandleCheck_MentionCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mentions []int64
	}{
		{"no mention", nil},
		{"two mentions", []int64{testUserID, otherUserID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, repo := newTestFeature()

			reply, err := f.HandleCheck(context.Background(), &common.Invocation{
				GuildID:    testGuildID,
				AuthorID:   testUserID,
				Name:       "check",
				MentionIDs: tt.mentions,
			})
			assert.Nil(t, reply)

			var botErr *common.BotError
			require.ErrorAs(t, err, &botErr)
			assert.False(t, botErr.System)
			repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleCheck(t *testing.T) {
	t.Parallel()

	t.Run("renders the user's time", func(t *testing.T) {
		t.Parallel()
		f, repo := newTestFeature()
		repo.On("GetByUserID", mock.Anything, otherUserID).Return(userTimezone(otherUserID, "Asia/Tokyo"), nil)

		reply, err := f.HandleCheck(context.Background(), &common.Invocation{MentionIDs: []int64{otherUserID}})
		require.NoError(t, err)
		assert.Contains(t, reply.Content, "00:30 (JST) on Tuesday")
	})

	t.Run("user without timezone", func(t *testing.T) {
		t.Parallel()
		f, repo := newTestFeature()
		repo.On("GetByUserID", mock.Anything, otherUserID).Return(nil, nil)

		reply, err := f.HandleCheck(context.Background(), &common.Invocation{MentionIDs: []int64{otherUserID}})
		require.NoError(t, err)
		assert.Contains(t, reply.Content, "hasn't set a timezone")
	})

	t.Run("store failure is a system error", func(t *testing.T) {
		t.Parallel()
		f, repo := newTestFeature()
		repo.On("GetByUserID", mock.Anything, otherUserID).Return(nil, errors.New("connection reset"))

		_, err := f.HandleCheck(context.Background(), &common.Invocation{MentionIDs: []int64{otherUserID}})
		require.Error(t, err)
		assert.True(t, common.FromServiceError(err).System)
	})
}

func TestHandlePersonal(t *testing.T) {
	t.Parallel()

	t.Run("stores the timezone", func(t *testing.T) {
		t.Parallel()
		f, repo := newTestFeature()
		repo.On("Upsert", mock.Anything, testUserID, "Europe/Paris").Return(nil)

		reply, err := f.HandlePersonal(context.Background(), &common.Invocation{AuthorID: testUserID, Args: []string{"Europe/Paris"}})
		require.NoError(t, err)
		assert.Contains(t, reply.Content, "Europe/Paris")
		assert.Contains(t, reply.Content, "16:30 (CET)")
		repo.AssertExpectations(t)
	})

	t.Run("invalid timezone never reaches the store", func(t *testing.T) {
		t.Parallel()
		f, repo := newTestFeature()

		_, err := f.HandlePersonal(context.Background(), &common.Invocation{AuthorID: testUserID, Args: []string{"Nowhere/Land"}})
		assert.ErrorIs(t, err, services.ErrInvalidTimezone)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})
}
