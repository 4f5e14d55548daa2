package repository

import (
	"context"
	"sync"
	"testing"

	"botoclock/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTimezoneRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserTimezoneRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unknown user returns nil", func(t *testing.T) {
		tz, err := repo.GetByUserID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, tz)
	})

	t.Run("insert then read back", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, 111, "Europe/Berlin"))

		tz, err := repo.GetByUserID(ctx, 111)
		require.NoError(t, err)
		require.NotNil(t, tz)
		assert.Equal(t, int64(111), tz.UserID)
		assert.Equal(t, "Europe/Berlin", tz.Timezone)
		assert.False(t, tz.UpdatedAt.IsZero())
	})

	t.Run("second upsert replaces and keeps a single row", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, 222, "America/Chicago"))
		require.NoError(t, repo.Upsert(ctx, 222, "Australia/Sydney"))

		tz, err := repo.GetByUserID(ctx, 222)
		require.NoError(t, err)
		require.NotNil(t, tz)
		assert.Equal(t, "Australia/Sydney", tz.Timezone)

		var rows int
		err = testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE id = $1`, 222).Scan(&rows)
		require.NoError(t, err)
		assert.Equal(t, 1, rows)
	})

	t.Run("same value twice is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, 333, "Asia/Tokyo"))
		require.NoError(t, repo.Upsert(ctx, 333, "Asia/Tokyo"))

		tz, err := repo.GetByUserID(ctx, 333)
		require.NoError(t, err)
		require.NotNil(t, tz)
		assert.Equal(t, "Asia/Tokyo", tz.Timezone)
	})

	t.Run("concurrent upserts for one user never duplicate", func(t *testing.T) {
		var wg sync.WaitGroup
		zones := []string{"UTC", "Europe/Paris", "Asia/Seoul", "America/Denver"}
		for _, zone := range zones {
			wg.Add(1)
			go func(zone string) {
				defer wg.Done()
				assert.NoError(t, repo.Upsert(ctx, 444, zone))
			}(zone)
		}
		wg.Wait()

		var rows int
		err := testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE id = $1`, 444).Scan(&rows)
		require.NoError(t, err)
		assert.Equal(t, 1, rows)

		tz, err := repo.GetByUserID(ctx, 444)
		require.NoError(t, err)
		require.NotNil(t, tz)
		assert.Contains(t, zones, tz.Timezone)
	})
}
